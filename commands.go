package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/slidegen/config"
	"github.com/ByLCY/slidegen/layout"
)

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <song> <outdir> [structure]",
		Short: "Render the slides of one song",
		Long:  "渲染一首歌的全部幻灯片。structure 为空时渲染完整结构，例如 \"1,R,2\" 或 \"1-3\"。",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.run(cmd.Context(), args[0], args[1], optionalArg(args, 2)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成幻灯片：%s\n", args[1])
			return nil
		},
	}
}

func (a *app) structureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "structure <song>",
		Short: "Print the full structure of a song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadSong(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(doc.FullStructure(), ","))
			return nil
		},
	}
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <song> [structure]",
		Short: "Print how many slides a structure produces",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadSong(args[0])
			if err != nil {
				return err
			}
			resolved := a.resolve(doc, optionalArg(args, 1))
			sections := make([]string, 0, len(resolved))
			for _, label := range resolved {
				text, _ := doc.Section(label)
				sections = append(sections, text)
			}
			n := layout.CountSlides(sections, a.cfg.Body.MaxLines)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nsong slides: %d\ntotal: %d\n", strings.Join(resolved, ","), n, n+1)
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// 不加载现有配置，损坏的配置文件也能被重新生成
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := optionalArg(args, 0)
			if path == "" {
				path = "slidegen.yaml"
			}
			if err := config.WriteFile(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已写入默认配置：%s\n", path)
			return nil
		},
	})
	return cmd
}
