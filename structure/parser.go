package structure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 结构表达式的错误分类；Resolve 会把它们统一降级为告警。
var (
	ErrSyntax       = errors.New("结构表达式语法错误")
	ErrUnknownLabel = errors.New("结构中不存在该段落")
	ErrRangeOrder   = errors.New("区间起点必须位于终点之前")
)

var (
	exprLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Label", Pattern: `[^,\-\s]+`},
		{Name: "Symbol", Pattern: `[,-]`},
	})

	expressionParser = participle.MustBuild[Expression](
		participle.Lexer(exprLexer),
		participle.Elide("Whitespace"),
	)
)

// Expression is the root AST node of a structure expression such as "1,R,2-4".
type Expression struct {
	Terms []*Term `parser:"@@ ( ',' @@ )*"`
}

// Term is either a single label or an inclusive label range.
type Term struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Start string         `parser:"@Label"`
	End   *string        `parser:"( '-' @Label )?"`
}

// IsRange reports whether the term was written as start-end.
func (t *Term) IsRange() bool { return t != nil && t.End != nil }

// String renders the term back into expression syntax.
func (t *Term) String() string {
	if t.IsRange() {
		return t.Start + "-" + *t.End
	}
	return t.Start
}

// String renders the expression back into its canonical comma-separated form.
func (e *Expression) String() string {
	parts := make([]string, 0, len(e.Terms))
	for _, term := range e.Terms {
		parts = append(parts, term.String())
	}
	return strings.Join(parts, ",")
}

// ParseString parses a structure expression. Empty input is a syntax error;
// callers that want "empty means whole song" go through Resolve.
func ParseString(input string) (*Expression, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: 表达式为空", ErrSyntax)
	}
	expr, err := expressionParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return expr, nil
}
