// Package config holds the slide generator settings. Defaults live in Default;
// Load layers a YAML file, a .env file and SLIDEGEN_* environment variables on top.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration values that cannot produce slides.
var ErrInvalid = errors.New("配置无效")

// EnvPrefix is the prefix of environment overrides, e.g. SLIDEGEN_BODY_MAX_LINES.
const EnvPrefix = "SLIDEGEN"

// Config is the complete configuration of one run.
type Config struct {
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Canvas   CanvasConfig   `mapstructure:"canvas" yaml:"canvas"`
	Fonts    FontConfig     `mapstructure:"fonts" yaml:"fonts"`
	Title    TitleConfig    `mapstructure:"title" yaml:"title"`
	Body     BodyConfig     `mapstructure:"body" yaml:"body"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
	Info     InfoConfig     `mapstructure:"info_display" yaml:"info_display"`
	Arrow    ArrowConfig    `mapstructure:"arrow" yaml:"arrow"`
	Song     SongConfig     `mapstructure:"song" yaml:"song"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// OutputConfig controls encoding and file naming.
type OutputConfig struct {
	// Format is one of jpeg, png, bmp, tiff.
	Format string `mapstructure:"format" yaml:"format"`
	// Extension is appended after the ordinal, without the dot.
	Extension string `mapstructure:"extension" yaml:"extension"`
	// BaseName prefixes every file name, e.g. "slide-" gives slide-01.jpg.
	BaseName    string `mapstructure:"base_name" yaml:"base_name"`
	JPEGQuality int    `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
}

// CanvasConfig is the full slide size and its base colours.
type CanvasConfig struct {
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Background string `mapstructure:"background" yaml:"background"`
	Foreground string `mapstructure:"foreground" yaml:"foreground"`
	TextColor  string `mapstructure:"text_color" yaml:"text_color"`
}

// FontConfig references fonts either as "embed:<name>" or as a file path.
type FontConfig struct {
	Regular string `mapstructure:"regular" yaml:"regular"`
	Bold    string `mapstructure:"bold" yaml:"bold"`
}

// TitleConfig describes the title bar drawn into the template.
type TitleConfig struct {
	Color         string `mapstructure:"color" yaml:"color"`
	MaxSize       int    `mapstructure:"max_size" yaml:"max_size"`
	MinSize       int    `mapstructure:"min_size" yaml:"min_size"`
	Step          int    `mapstructure:"step" yaml:"step"`
	Height        int    `mapstructure:"height" yaml:"height"`
	Y             int    `mapstructure:"y" yaml:"y"`
	Padding       int    `mapstructure:"padding" yaml:"padding"`
	TriangleWidth int    `mapstructure:"triangle_width" yaml:"triangle_width"`
	// PanelWidth is the right-hand lane kept free for a side panel (video player).
	PanelWidth int `mapstructure:"panel_width" yaml:"panel_width"`
}

// BodyConfig describes the lyrics canvas and the verse index badge.
type BodyConfig struct {
	X                int `mapstructure:"x" yaml:"x"`
	Y                int `mapstructure:"y" yaml:"y"`
	Width            int `mapstructure:"width" yaml:"width"`
	Height           int `mapstructure:"height" yaml:"height"`
	MaxSize          int `mapstructure:"max_size" yaml:"max_size"`
	MinSize          int `mapstructure:"min_size" yaml:"min_size"`
	Step             int `mapstructure:"step" yaml:"step"`
	InterlineSpacing int `mapstructure:"interline_spacing" yaml:"interline_spacing"`
	MaxLines         int `mapstructure:"max_lines" yaml:"max_lines"`
	IndexX           int `mapstructure:"index_x" yaml:"index_x"`
	IndexY           int `mapstructure:"index_y" yaml:"index_y"`
}

// MetadataConfig describes the start slide.
type MetadataConfig struct {
	FontSize      int `mapstructure:"font_size" yaml:"font_size"`
	X             int `mapstructure:"x" yaml:"x"`
	BookY         int `mapstructure:"book_y" yaml:"book_y"`
	AttributionsY int `mapstructure:"attributions_y" yaml:"attributions_y"`
	// SameAuthor is used when text and melody share an author.
	SameAuthor string `mapstructure:"same_author" yaml:"same_author"`
	// SplitAuthor is used otherwise. Both accept ${text}, ${melody}, ${book}, ${title}.
	SplitAuthor string `mapstructure:"split_author" yaml:"split_author"`
}

// InfoConfig describes the structure strip in the bottom right corner.
type InfoConfig struct {
	FontSize  int `mapstructure:"font_size" yaml:"font_size"`
	ItemWidth int `mapstructure:"item_width" yaml:"item_width"`
	X         int `mapstructure:"x" yaml:"x"`
	Y         int `mapstructure:"y" yaml:"y"`
}

// ArrowConfig describes the continuation arrow.
type ArrowConfig struct {
	Height int    `mapstructure:"height" yaml:"height"`
	Color  string `mapstructure:"color" yaml:"color"`
	X      int    `mapstructure:"x" yaml:"x"`
	Y      int    `mapstructure:"y" yaml:"y"`
}

// SongConfig holds song file validation limits.
type SongConfig struct {
	Refrain           string `mapstructure:"refrain" yaml:"refrain"`
	LineCharLimit     int    `mapstructure:"line_char_limit" yaml:"line_char_limit"`
	MetadataCharLimit int    `mapstructure:"metadata_char_limit" yaml:"metadata_char_limit"`
}

// RenderConfig selects the slide style and the scheduling mode.
type RenderConfig struct {
	Style      string `mapstructure:"style" yaml:"style"`
	Sequential bool   `mapstructure:"sequential" yaml:"sequential"`
	// Workers bounds parallel rendering; 0 starts one worker per slide.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// FixTimestamps runs the timestamp sequencer after rendering.
	FixTimestamps bool `mapstructure:"fix_timestamps" yaml:"fix_timestamps"`
}

// BatchConfig controls multi-song runs.
type BatchConfig struct {
	SubdirPrefix string `mapstructure:"subdir_prefix" yaml:"subdir_prefix"`
	MinSubdirs   int    `mapstructure:"min_subdirs" yaml:"min_subdirs"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:      "jpeg",
			Extension:   "jpg",
			BaseName:    "slide-",
			JPEGQuality: 90,
		},
		Canvas: CanvasConfig{
			Width:      1920,
			Height:     1080,
			Background: "#ffffff",
			Foreground: "#6298a4",
			TextColor:  "#000000",
		},
		Fonts: FontConfig{
			Regular: "embed:go-regular",
			Bold:    "embed:go-bold",
		},
		Title: TitleConfig{
			Color:         "#d8d5c4",
			MaxSize:       70,
			MinSize:       20,
			Step:          10,
			Height:        160,
			Y:             65,
			Padding:       30,
			TriangleWidth: 80,
			PanelWidth:    560,
		},
		Body: BodyConfig{
			X:                160,
			Y:                400,
			Width:            1600,
			Height:           600,
			MaxSize:          55,
			MinSize:          35,
			Step:             5,
			InterlineSpacing: 30,
			MaxLines:         8,
			IndexX:           80,
			IndexY:           400,
		},
		Metadata: MetadataConfig{
			FontSize:      36,
			X:             70,
			BookY:         260,
			AttributionsY: 930,
			SameAuthor:    "Text & Melodie: ${text}",
			SplitAuthor:   "Text: ${text}\nMelodie: ${melody}",
		},
		Info: InfoConfig{
			FontSize:  25,
			ItemWidth: 20,
			X:         1650,
			Y:         1000,
		},
		Arrow: ArrowConfig{
			Height: 50,
			Color:  "#000000",
			X:      1725,
			Y:      900,
		},
		Song: SongConfig{
			Refrain:           "R",
			LineCharLimit:     85,
			MetadataCharLimit: 100,
		},
		Render: RenderConfig{
			Style:         "classic",
			Sequential:    false,
			Workers:       0,
			FixTimestamps: true,
		},
		Batch: BatchConfig{
			SubdirPrefix: "song-",
			MinSubdirs:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load 依次合并：内置默认值、path 指向的 YAML 文件（可为空）、当前目录的 .env、
// 以及 SLIDEGEN_* 环境变量。结果经过 Validate 校验。
func Load(path string) (*Config, error) {
	// .env 只补充尚未设置的环境变量，文件不存在时忽略
	_ = godotenv.Load()

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("序列化默认配置失败: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("读取默认配置失败: %w", err)
	}

	if path != "" {
		file := expandPath(path)
		v.SetConfigFile(file)
		// 默认值以 YAML 读入；合并文件时按扩展名选择格式，无扩展名视为 YAML
		ext := strings.TrimPrefix(filepath.Ext(file), ".")
		if ext == "" {
			ext = "yaml"
		}
		v.SetConfigType(ext)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.Fonts.Regular = expandPath(cfg.Fonts.Regular)
	cfg.Fonts.Bold = expandPath(cfg.Fonts.Bold)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteFile writes cfg as YAML, creating parent directories.
func WriteFile(path string, cfg *Config) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
