package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce collapses the burst of events editors emit for a single save.
const debounce = 200 * time.Millisecond

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <song> <outdir> [structure]",
		Short: "Re-render whenever the song file changes",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], args[1], optionalArg(args, 2))
		},
	}
}

// watch 先渲染一次，然后监听歌曲所在目录；编辑器常以替换文件的方式保存，所以不直接监听文件本身。
// 渲染失败只记录日志，等待下一次修改。
func (a *app) watch(ctx context.Context, songPath, outDir, expression string) error {
	abs, err := filepath.Abs(songPath)
	if err != nil {
		return fmt.Errorf("无法解析路径 %s: %w", songPath, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("监听目录失败: %w", err)
	}

	rerender := func() {
		if err := a.run(ctx, abs, outDir, expression); err != nil {
			a.logger.Error().Err(err).Msg("渲染失败，等待下一次修改")
		}
	}
	rerender()
	a.logger.Info().Str("song", abs).Msg("正在监听修改，Ctrl+C 退出")

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn().Err(err).Msg("文件监听出错")
		case <-timer.C:
			a.logger.Info().Str("song", abs).Msg("检测到修改，重新渲染")
			rerender()
		}
	}
}
