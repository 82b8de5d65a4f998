package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${name} 或 ${a.b} 替换为 data 中的值。
// data 支持 map[string]string 与嵌套的 map[string]any；路径不存在时保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := lookup(data, strings.Split(path, ".")); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Placeholders returns the distinct placeholder paths used in text, in order.
func Placeholders(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		path := strings.TrimSpace(m[1])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

func lookup(current any, segments []string) (any, bool) {
	for _, segment := range segments {
		switch c := current.(type) {
		case map[string]string:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		case map[string]any:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		default:
			return nil, false
		}
	}
	return current, true
}
