package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ByLCY/slidegen/config"
	"github.com/ByLCY/slidegen/logging"
	"github.com/ByLCY/slidegen/pipeline"
	"github.com/ByLCY/slidegen/renderer"
	canvasrenderer "github.com/ByLCY/slidegen/renderer/canvas"
	"github.com/ByLCY/slidegen/song"
	"github.com/ByLCY/slidegen/structure"
)

var version = "dev"

func main() {
	a := newApp()
	if err := a.rootCmd().Execute(); err != nil {
		a.logger.Error().Err(err).Msg("执行失败")
		os.Exit(1)
	}
}

// app 保存一次命令执行的配置、日志与按需创建的渲染管线。
type app struct {
	configPath string
	sequential bool
	workers    int
	planPath   string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
	pipe   *pipeline.Pipeline
}

func newApp() *app {
	cfg := config.Default()
	return &app{cfg: cfg, logger: logging.New(cfg.Logging, os.Stderr)}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "slidegen",
		Short:         "Generate projection slides for song lyrics",
		Long:          "slidegen 读取歌曲文件，按结构表达式选择段落，生成编号的幻灯片图片。",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML 配置文件路径")
	flags.BoolVar(&a.sequential, "sequential", false, "逐张渲染，不并行")
	flags.IntVar(&a.workers, "workers", 0, "并行渲染的最大任务数，0 表示不限")
	flags.StringVar(&a.planPath, "plan", "", "任务计划 JSON 输出路径")
	flags.StringVar(&a.logLevel, "log-level", "", "日志级别 (debug|info|warn|error)")

	root.AddCommand(
		a.renderCmd(),
		a.structureCmd(),
		a.countCmd(),
		a.batchCmd(),
		a.watchCmd(),
		a.configCmd(),
	)
	return root
}

// setup 加载配置并应用命令行覆盖，命令行优先级最高。
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("sequential") {
		cfg.Render.Sequential = a.sequential
	}
	if flags.Changed("workers") {
		cfg.Render.Workers = a.workers
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Logging, cmd.ErrOrStderr())
	a.pipe = nil
	return nil
}

func (a *app) loadSong(path string) (*song.Document, error) {
	doc, err := song.ParseFile(path, song.Options{
		Refrain:           a.cfg.Song.Refrain,
		LineCharLimit:     a.cfg.Song.LineCharLimit,
		MetadataCharLimit: a.cfg.Song.MetadataCharLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("读取歌曲 %s 失败: %w", path, err)
	}
	return doc, nil
}

func (a *app) resolve(doc *song.Document, expression string) []string {
	return structure.NewResolver(a.cfg.Song.Refrain, a.logger).Resolve(expression, doc.FullStructure())
}

// pipeline 首次调用时加载字体并创建风格，之后复用。
func (a *app) pipeline() (*pipeline.Pipeline, error) {
	if a.pipe != nil {
		return a.pipe, nil
	}
	style, err := a.style()
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(style, pipeline.OptionsFromConfig(a.cfg), a.logger)
	if err != nil {
		return nil, err
	}
	a.pipe = p
	return p, nil
}

func (a *app) style() (renderer.Style, error) {
	r, err := canvasrenderer.NewRenderer(canvasrenderer.Options{
		RegularFont: a.cfg.Fonts.Regular,
		BoldFont:    a.cfg.Fonts.Bold,
	})
	if err != nil {
		return nil, err
	}
	return canvasrenderer.NewStyle(a.cfg.Render.Style, r, a.cfg, a.logger)
}

// run 串联解析、结构展开、分页与渲染。
func (a *app) run(ctx context.Context, songPath, outDir, expression string) error {
	doc, err := a.loadSong(songPath)
	if err != nil {
		return err
	}
	resolved := a.resolve(doc, expression)

	p, err := a.pipeline()
	if err != nil {
		return err
	}
	plan, err := p.Plan(doc, resolved)
	if err != nil {
		return fmt.Errorf("生成任务计划失败: %w", err)
	}
	if a.planPath != "" {
		if err := pipeline.WritePlan(plan, a.planPath); err != nil {
			return fmt.Errorf("输出任务计划失败: %w", err)
		}
	}

	a.logger.Info().
		Str("song", songPath).
		Strs("structure", resolved).
		Int("slides", len(plan.Tasks)).
		Msg("开始渲染")
	return p.Render(ctx, doc, plan, outDir)
}
