package structure

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultRefrain is the reserved label of the refrain section.
const DefaultRefrain = "R"

// Resolver turns user supplied structure expressions into the ordered label
// list that is actually rendered.
type Resolver struct {
	refrain string
	logger  zerolog.Logger
}

// NewResolver creates a resolver; an empty refrain falls back to DefaultRefrain.
func NewResolver(refrain string, logger zerolog.Logger) *Resolver {
	if refrain == "" {
		refrain = DefaultRefrain
	}
	return &Resolver{refrain: refrain, logger: logger}
}

// Resolve 解析并展开 expression。表达式为空时返回完整结构；
// 任意错误（语法、未知段落、区间顺序）只记录告警并回退为完整结构，不会中断流程。
func (r *Resolver) Resolve(expression string, full []string) []string {
	if strings.TrimSpace(expression) == "" {
		r.logger.Info().Strs("structure", full).Msg("使用完整歌曲结构")
		return clone(full)
	}

	expr, err := ParseString(expression)
	if err == nil {
		var labels []string
		labels, err = Expand(expr, full, r.refrain)
		if err == nil {
			r.logger.Info().Str("expression", expression).Strs("structure", labels).Msg("已选择歌曲结构")
			return labels
		}
	}

	r.logger.Warn().
		Err(err).
		Str("expression", expression).
		Strs("fallback", full).
		Msg("结构表达式无效，回退为完整结构")
	return clone(full)
}

// Expand 将已解析的表达式按 full 展开，保持书写顺序且不去重。
//
// 区间展开规则：取 start 首次出现位置到其后 end 首次出现位置的闭区间；
// 若区间前一个元素是副歌则向前扩展一位，后一个元素是副歌则向后扩展一位。
func Expand(expr *Expression, full []string, refrain string) ([]string, error) {
	if expr == nil || len(expr.Terms) == 0 {
		return nil, fmt.Errorf("%w: 表达式为空", ErrSyntax)
	}
	if refrain == "" {
		refrain = DefaultRefrain
	}

	var out []string
	for _, term := range expr.Terms {
		start := indexFrom(full, term.Start, 0)
		if start < 0 {
			return nil, fmt.Errorf("%w: 第 %d 列 %q", ErrUnknownLabel, term.Pos.Column, term.Start)
		}
		if !term.IsRange() {
			out = append(out, term.Start)
			continue
		}

		end := indexFrom(full, *term.End, start)
		if end < 0 {
			if indexFrom(full, *term.End, 0) < 0 {
				return nil, fmt.Errorf("%w: 第 %d 列 %q", ErrUnknownLabel, term.Pos.Column, *term.End)
			}
			return nil, fmt.Errorf("%w: 第 %d 列 %s", ErrRangeOrder, term.Pos.Column, term.String())
		}

		if start > 0 && full[start-1] == refrain {
			start--
		}
		if end < len(full)-1 && full[end+1] == refrain {
			end++
		}
		out = append(out, full[start:end+1]...)
	}
	return out, nil
}

func indexFrom(labels []string, label string, from int) int {
	for i := from; i < len(labels); i++ {
		if labels[i] == label {
			return i
		}
	}
	return -1
}

func clone(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}
