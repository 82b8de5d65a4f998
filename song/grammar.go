package song

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// headerRule matches a whole "[label]" line; "[1] text" stays a lyric line.
const headerRule = `[ \t]*\[[^\n]*\][ \t\r]*(?:\n|$)`

var (
	songLexer = lexer.MustStateful(lexer.Rules{
		// 元数据区：key: value，直到第一个段落标题
		"Root": {
			{Name: "BOM", Pattern: `\x{FEFF}`},
			{Name: "Header", Pattern: headerRule, Action: lexer.Push("Body")},
			{Name: "Blank", Pattern: `[ \t\r]*\n`},
			{Name: "Key", Pattern: `[^\s:\[\]]+`},
			{Name: "Sep", Pattern: `: `, Action: lexer.Push("Value")},
			{Name: "Whitespace", Pattern: `[ \t\r]+`},
		},
		"Value": {
			{Name: "Text", Pattern: `[^\r\n]+`},
			{Name: "EOL", Pattern: `\r?\n`, Action: lexer.Pop()},
		},
		// 段落区：进入后不再返回元数据区
		"Body": {
			{Name: "Header", Pattern: headerRule},
			{Name: "Newline", Pattern: `\n`},
			{Name: "Line", Pattern: `[^\n]+`},
		},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(songLexer),
		participle.Elide("BOM", "Blank", "Whitespace"),
	)
)

// File is the root AST node of a song file.
type File struct {
	Entries  []*Entry   `parser:"@@*"`
	Sections []*Section `parser:"@@*"`
}

// Entry is one "key: value" metadata line.
type Entry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Key"`
	Value string         `parser:"Sep @Text EOL?"`
}

// Section is a "[label]" header followed by its lyric lines.
type Section struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Header string         `parser:"@Header"`
	Lines  []*Line        `parser:"@@*"`
}

// Line is one lyric line. A blank line captures only its newline, which trimming removes.
type Line struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Text string         `parser:"( @Line Newline? | @Newline )"`
}
