package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体，使用 "embed:<name>" 引用。
var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-medium":  gomedium.TTF,
	"go-bold":    gobold.TTF,
}

// Default font references used when the configuration leaves a font empty.
const (
	DefaultRegular = "embed:go-regular"
	DefaultBold    = "embed:go-bold"
)

// Load 返回字体的字节数据，src 可写为 "embed:go-regular" 或文件系统路径。
func Load(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体路径为空")
	}
	if strings.HasPrefix(src, "embed:") {
		name := strings.TrimPrefix(src, "embed:")
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体 %s（可用: %s）", name, strings.Join(Builtin(), ", "))
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// Builtin lists the names of the embedded fonts.
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
