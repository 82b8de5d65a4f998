package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/slidegen/config"
	"github.com/ByLCY/slidegen/renderer"
	"github.com/ByLCY/slidegen/song"
)

// Options controls scheduling, encoding and naming.
type Options struct {
	Naming      Naming
	Format      string
	JPEGQuality int
	MaxLines    int
	// Sequential renders one slide at a time.
	Sequential bool
	// Workers bounds parallel rendering; 0 starts every task at once.
	Workers       int
	FixTimestamps bool
}

// OptionsFromConfig extracts the pipeline settings of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Naming:        Naming{BaseName: cfg.Output.BaseName, Extension: cfg.Output.Extension},
		Format:        cfg.Output.Format,
		JPEGQuality:   cfg.Output.JPEGQuality,
		MaxLines:      cfg.Body.MaxLines,
		Sequential:    cfg.Render.Sequential,
		Workers:       cfg.Render.Workers,
		FixTimestamps: cfg.Render.FixTimestamps,
	}
}

// Failure is one slide that could not be rendered or written.
type Failure struct {
	Ordinal int
	File    string
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("序号 %d (%s): %v", f.Ordinal, f.File, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// RenderError 汇总所有失败的幻灯片，其余幻灯片已正常写出。
type RenderError struct {
	Failures []Failure
}

func (e *RenderError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d 张幻灯片渲染失败: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *RenderError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Ordinals lists the failed ordinals in ascending order.
func (e *RenderError) Ordinals() []int {
	out := make([]int, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Ordinal
	}
	return out
}

// Pipeline renders plans with one Style.
type Pipeline struct {
	style  renderer.Style
	opts   Options
	encode Encoder
	logger zerolog.Logger
}

// New validates the encoding options and returns a pipeline.
func New(style renderer.Style, opts Options, logger zerolog.Logger) (*Pipeline, error) {
	if style == nil {
		return nil, errors.New("pipeline: 缺少幻灯片风格 Style")
	}
	enc, err := NewEncoder(opts.Format, opts.JPEGQuality)
	if err != nil {
		return nil, err
	}
	return &Pipeline{style: style, opts: opts, encode: enc, logger: logger}, nil
}

// Plan paginates resolved into a task list using the configured naming.
func (p *Pipeline) Plan(doc *song.Document, resolved []string) (*Plan, error) {
	return BuildPlan(doc, resolved, p.opts.MaxLines, p.opts.Naming)
}

// Render 渲染 plan 中的所有任务并写入 outDir。
//
// 输出目录不可写或模板构建失败属于致命错误，在启动任何任务前返回。
// 单张失败不会中断其他任务；全部结束后以 *RenderError 汇总。
// 开启 FixTimestamps 时，时间戳校正总在所有任务结束后执行，即使部分失败。
func (p *Pipeline) Render(ctx context.Context, doc *song.Document, plan *Plan, outDir string) error {
	if plan == nil || len(plan.Tasks) == 0 {
		return ErrEmptyStructure
	}
	if err := ensureWritable(outDir); err != nil {
		return err
	}
	tmpl, err := p.style.BuildTemplate(doc.Title())
	if err != nil {
		return fmt.Errorf("构建模板失败: %w", err)
	}
	if err := p.removeStale(outDir, plan); err != nil {
		return err
	}

	start := time.Now()
	errs := make([]error, len(plan.Tasks))
	g, gctx := errgroup.WithContext(ctx)
	switch {
	case p.opts.Sequential:
		g.SetLimit(1)
	case p.opts.Workers > 0:
		g.SetLimit(p.opts.Workers)
	}
	for i := range plan.Tasks {
		task := plan.Tasks[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = p.renderTask(tmpl, doc, plan.Structure, task, outDir)
			if errs[i] != nil {
				p.logger.Error().Err(errs[i]).Int("ordinal", task.Ordinal).Msg("幻灯片渲染失败")
			}
			return nil
		})
	}
	// 所有任务在此汇合，之后才允许校正时间戳
	_ = g.Wait()

	var failures []Failure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, Failure{Ordinal: plan.Tasks[i].Ordinal, File: plan.Tasks[i].File, Err: err})
		}
	}

	if p.opts.FixTimestamps {
		if _, err := FixTimestamps(outDir, p.opts.Naming); err != nil {
			return errors.Join(err, renderError(failures))
		}
	}

	p.logger.Info().
		Str("title", doc.Title()).
		Int("slides", len(plan.Tasks)).
		Int("failed", len(failures)).
		Dur("elapsed", time.Since(start)).
		Msg("渲染完成")
	if len(failures) > 0 {
		return renderError(failures)
	}
	return nil
}

func renderError(failures []Failure) error {
	if len(failures) == 0 {
		return nil
	}
	return &RenderError{Failures: failures}
}

func (p *Pipeline) renderTask(tmpl *renderer.Template, doc *song.Document, structure []string, task Task, outDir string) error {
	var (
		img image.Image
		err error
	)
	switch task.Kind {
	case KindStart:
		img, err = p.style.RenderStartSlide(tmpl, doc)
	case KindSong:
		if task.Payload == nil {
			return fmt.Errorf("任务缺少歌词内容")
		}
		img, err = p.style.RenderSongSlide(tmpl, *task.Payload, structure)
	default:
		return fmt.Errorf("未知的任务类型 %q", task.Kind)
	}
	if err != nil {
		return err
	}
	if err := p.write(filepath.Join(outDir, task.File), img); err != nil {
		return err
	}

	ev := p.logger.Debug()
	if p.opts.Sequential {
		ev = p.logger.Info()
	}
	ev.Int("ordinal", task.Ordinal).Str("file", task.File).Msg("幻灯片已生成并保存")
	return nil
}

func (p *Pipeline) write(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := p.encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("编码失败: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("写入失败: %w", err)
	}
	return f.Close()
}

// removeStale 删除上次运行遗留、但不属于本次计划的同名模式文件，避免时间戳校正把它们排进来。
func (p *Pipeline) removeStale(outDir string, plan *Plan) error {
	keep := make(map[string]bool, len(plan.Tasks))
	for _, t := range plan.Tasks {
		keep[t.File] = true
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return fmt.Errorf("读取输出目录失败: %w", err)
	}
	pattern := p.opts.Naming.Pattern()
	var stale []string
	for _, e := range entries {
		if e.IsDir() || keep[e.Name()] || !pattern.MatchString(e.Name()) {
			continue
		}
		stale = append(stale, e.Name())
	}
	sort.Strings(stale)
	for _, name := range stale {
		if err := os.Remove(filepath.Join(outDir, name)); err != nil {
			return fmt.Errorf("删除旧文件 %s 失败: %w", name, err)
		}
		p.logger.Debug().Str("file", name).Msg("已删除旧幻灯片")
	}
	return nil
}

// ensureWritable creates dir if needed and probes that files can be created in it.
func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".slidegen-*")
	if err != nil {
		return fmt.Errorf("输出目录 %s 不可写: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
