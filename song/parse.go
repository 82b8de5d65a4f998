package song

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
)

// 歌曲文件解析错误，均为致命错误。
var (
	ErrInvalidMetadata = errors.New("元数据无效")
	ErrMissingMetadata = errors.New("缺少元数据")
	ErrLineTooLong     = errors.New("歌词行超出字符上限")
	ErrMissingSection  = errors.New("结构中的段落没有歌词")
	ErrDuplicateLabel  = errors.New("段落重复定义")
)

// Options controls validation limits of the song file parser.
type Options struct {
	Refrain           string
	LineCharLimit     int
	MetadataCharLimit int
}

// DefaultOptions mirrors the limits used by the slide layout defaults.
func DefaultOptions() Options {
	return Options{Refrain: "R", LineCharLimit: 85, MetadataCharLimit: 100}
}

// ParseFile opens and parses a song file.
func ParseFile(path string, opts Options) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开歌曲文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := parse(path, file, opts)
	if err != nil {
		return nil, fmt.Errorf("解析歌曲文件 %s 失败: %w", path, err)
	}
	return doc, nil
}

// Parse 读取元数据头（title/book/text/melody/structure，顺序任意）与 [label] 段落。
func Parse(r io.Reader, opts Options) (*Document, error) {
	return parse("", r, opts)
}

func parse(name string, r io.Reader, opts Options) (*Document, error) {
	if opts.Refrain == "" {
		opts.Refrain = DefaultOptions().Refrain
	}
	ast, err := fileParser.Parse(name, r)
	if err != nil {
		var perr participle.Error
		if !errors.As(err, &perr) {
			return nil, fmt.Errorf("读取歌曲内容失败: %w", err)
		}
		line := perr.Position().Line
		return nil, fmt.Errorf("%w: 第 %d 行语法错误: %s，仍缺少: %s",
			ErrInvalidMetadata, line, perr.Message(), strings.Join(missingKeys(entriesBefore(ast, line)), ", "))
	}
	return build(ast, opts)
}

// build 在语法树上执行所有校验并生成 Document。
func build(ast *File, opts Options) (*Document, error) {
	structurePattern := regexp.MustCompile(
		fmt.Sprintf(`^([0-9]+|%[1]s)(,([0-9]+|%[1]s))*$`, regexp.QuoteMeta(opts.Refrain)),
	)

	meta := make(map[string]string, len(MetadataKeys))
	for _, e := range ast.Entries {
		line := e.Pos.Line
		if !isMetadataKey(e.Key) {
			return nil, fmt.Errorf("%w: 第 %d 行未知字段 %q", ErrInvalidMetadata, line, e.Key)
		}
		if _, dup := meta[e.Key]; dup {
			return nil, fmt.Errorf("%w: 第 %d 行字段 %q 重复", ErrInvalidMetadata, line, e.Key)
		}
		if e.Key == KeyStructure && !structurePattern.MatchString(e.Value) {
			return nil, fmt.Errorf("%w: 第 %d 行结构 %q 格式错误，仍缺少: %s",
				ErrInvalidMetadata, line, e.Value, strings.Join(missingKeys(meta), ", "))
		}
		if opts.MetadataCharLimit > 0 && utf8.RuneCountInString(e.Value) > opts.MetadataCharLimit {
			return nil, fmt.Errorf("%w: 第 %d 行字段 %q 超过 %d 个字符", ErrInvalidMetadata, line, e.Key, opts.MetadataCharLimit)
		}
		meta[e.Key] = e.Value
	}
	if missing := missingKeys(meta); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetadata, strings.Join(missing, ", "))
	}

	bodies := make(map[string]string, len(ast.Sections))
	for _, sec := range ast.Sections {
		label := sectionLabel(sec.Header)
		if _, dup := bodies[label]; dup {
			return nil, fmt.Errorf("%w: 第 %d 行 [%s]", ErrDuplicateLabel, sec.Pos.Line, label)
		}
		lines := make([]string, 0, len(sec.Lines))
		for _, l := range sec.Lines {
			text := strings.TrimSpace(l.Text)
			if n := utf8.RuneCountInString(text); opts.LineCharLimit > 0 && n > opts.LineCharLimit {
				return nil, fmt.Errorf("%w: 第 %d 行有 %d 个字符（上限 %d）: %s",
					ErrLineTooLong, l.Pos.Line, n, opts.LineCharLimit, text)
			}
			lines = append(lines, text)
		}
		for len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		bodies[label] = strings.Join(lines, "\n")
	}

	structure := strings.Split(meta[KeyStructure], ",")
	for _, label := range structure {
		if bodies[label] == "" {
			return nil, fmt.Errorf("%w: [%s]", ErrMissingSection, label)
		}
	}

	return NewDocument(meta[KeyTitle], meta[KeyBook], meta[KeyText], meta[KeyMelody], structure, bodies), nil
}

// sectionLabel strips the brackets and surrounding blanks of a header token.
func sectionLabel(header string) string {
	h := strings.TrimSpace(header)
	return strings.TrimSpace(h[1 : len(h)-1])
}

// entriesBefore collects the metadata that parsed cleanly before line.
func entriesBefore(ast *File, line int) map[string]string {
	meta := map[string]string{}
	if ast == nil {
		return meta
	}
	for _, e := range ast.Entries {
		if e.Pos.Line < line && isMetadataKey(e.Key) {
			meta[e.Key] = e.Value
		}
	}
	return meta
}

func isMetadataKey(key string) bool {
	for _, k := range MetadataKeys {
		if k == key {
			return true
		}
	}
	return false
}

func missingKeys(meta map[string]string) []string {
	var out []string
	for _, k := range MetadataKeys {
		if _, ok := meta[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
