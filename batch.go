package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// batchItem is one "song[=structure]" argument.
type batchItem struct {
	Song      string
	Structure string
}

func parseBatchItem(arg string) batchItem {
	path, expr, _ := strings.Cut(arg, "=")
	return batchItem{Song: path, Structure: strings.TrimSpace(expr)}
}

// subdir returns the numbered output directory of the n-th song, counting from 1.
func subdir(out, prefix string, n int) string {
	return filepath.Join(out, fmt.Sprintf("%s%d", prefix, n))
}

// ensureMinSubdirs 保证 out 下至少存在 min 个编号子目录，供场景切换软件固定引用。
func ensureMinSubdirs(out, prefix string, min int) error {
	for n := 1; n <= min; n++ {
		if err := os.MkdirAll(subdir(out, prefix, n), 0o755); err != nil {
			return fmt.Errorf("创建子目录失败: %w", err)
		}
	}
	return nil
}

func (a *app) batchCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "batch --out <dir> <song[=structure]>...",
		Short: "Render several songs into numbered sub-directories",
		Long:  "依次渲染多首歌，第 n 首写入 <out>/<batch.subdir_prefix><n>。单首失败不会中断其余歌曲。",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("必须通过 --out 指定输出目录")
			}
			prefix := a.cfg.Batch.SubdirPrefix

			var errs []error
			for i, arg := range args {
				item := parseBatchItem(arg)
				dir := subdir(out, prefix, i+1)
				a.logger.Info().Str("song", item.Song).Str("dir", dir).Msg("渲染歌曲")
				if err := a.run(cmd.Context(), item.Song, dir, item.Structure); err != nil {
					a.logger.Error().Err(err).Str("song", item.Song).Msg("歌曲渲染失败")
					errs = append(errs, fmt.Errorf("%s: %w", item.Song, err))
				}
			}
			if err := ensureMinSubdirs(out, prefix, a.cfg.Batch.MinSubdirs); err != nil {
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出根目录")
	return cmd
}
