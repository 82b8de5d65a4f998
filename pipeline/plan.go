// Package pipeline turns a resolved song structure into numbered slide files.
//
// 序号在任何并发工作开始前确定：开始页为 1，歌词页依次为 2..N+1，
// 文件名按最大序号的位数补零，因此输出文件与完成顺序无关。
package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/song"
)

// ErrEmptyStructure is returned for a structure that would produce no song slides.
var ErrEmptyStructure = errors.New("结构为空，没有可渲染的段落")

// Kind distinguishes the start slide from lyric slides.
type Kind string

const (
	KindStart Kind = "start"
	KindSong  Kind = "song"
)

// Task is one slide to render. Payload is nil for the start slide.
type Task struct {
	Ordinal int             `json:"ordinal"`
	Kind    Kind            `json:"kind"`
	File    string          `json:"file"`
	Payload *layout.Payload `json:"payload,omitempty"`
}

// Plan is the ordinal-indexed task list of one song.
type Plan struct {
	Title     string   `json:"title"`
	Structure []string `json:"structure"`
	Tasks     []Task   `json:"tasks"`
}

// SongSlides returns the number of lyric slides, start slide excluded.
func (p *Plan) SongSlides() int { return len(p.Tasks) - 1 }

// Naming builds output file names: BaseName + zero-padded ordinal + "." + Extension.
type Naming struct {
	BaseName  string
	Extension string
}

// FileName formats ordinal padded to width digits.
func (n Naming) FileName(ordinal, width int) string {
	return fmt.Sprintf("%s%0*d.%s", n.BaseName, width, ordinal, n.Extension)
}

// Pattern matches file names produced by n and captures the ordinal.
func (n Naming) Pattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(n.BaseName) + `([0-9]+)\.` + regexp.QuoteMeta(n.Extension) + `$`)
}

// BuildPlan 为 resolved 中的每个段落分页，并分配序号与文件名。
// resolved 中的标签必须都存在于 doc 中。
func BuildPlan(doc *song.Document, resolved []string, maxLines int, naming Naming) (*Plan, error) {
	if len(resolved) == 0 {
		return nil, ErrEmptyStructure
	}

	var payloads []layout.Payload
	for i, label := range resolved {
		text, ok := doc.Section(label)
		if !ok {
			return nil, fmt.Errorf("%w: 段落 %q 不存在", song.ErrMissingSection, label)
		}
		for _, p := range layout.Paginate(text, maxLines) {
			p.Index = i
			p.Label = label
			payloads = append(payloads, p)
		}
	}

	total := len(payloads) + 1
	width := len(strconv.Itoa(total))
	plan := &Plan{
		Title:     doc.Title(),
		Structure: append([]string(nil), resolved...),
		Tasks:     make([]Task, 0, total),
	}
	plan.Tasks = append(plan.Tasks, Task{Ordinal: 1, Kind: KindStart, File: naming.FileName(1, width)})
	for i := range payloads {
		ordinal := i + 2
		plan.Tasks = append(plan.Tasks, Task{
			Ordinal: ordinal,
			Kind:    KindSong,
			File:    naming.FileName(ordinal, width),
			Payload: &payloads[i],
		})
	}
	return plan, nil
}
