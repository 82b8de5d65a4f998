package song

// Metadata keys every song file must declare.
const (
	KeyTitle     = "title"
	KeyBook      = "book"
	KeyText      = "text"
	KeyMelody    = "melody"
	KeyStructure = "structure"
)

// MetadataKeys lists the required metadata keys in their canonical order.
var MetadataKeys = []string{KeyTitle, KeyBook, KeyText, KeyMelody, KeyStructure}

// Document 是解析后的歌曲文件，创建后不可变。
type Document struct {
	title         string
	book          string
	textAuthor    string
	melodyAuthor  string
	fullStructure []string
	sections      map[string]string
}

// NewDocument builds a document from already validated parts. The inputs are
// copied so later mutation by the caller cannot leak into the document.
func NewDocument(title, book, textAuthor, melodyAuthor string, structure []string, sections map[string]string) *Document {
	s := make([]string, len(structure))
	copy(s, structure)
	m := make(map[string]string, len(sections))
	for k, v := range sections {
		m[k] = v
	}
	return &Document{
		title:         title,
		book:          book,
		textAuthor:    textAuthor,
		melodyAuthor:  melodyAuthor,
		fullStructure: s,
		sections:      m,
	}
}

func (d *Document) Title() string        { return d.title }
func (d *Document) Book() string         { return d.book }
func (d *Document) TextAuthor() string   { return d.textAuthor }
func (d *Document) MelodyAuthor() string { return d.melodyAuthor }

// FullStructure returns a copy of the declared section order.
func (d *Document) FullStructure() []string {
	out := make([]string, len(d.fullStructure))
	copy(out, d.fullStructure)
	return out
}

// Section returns the body text of a section label.
func (d *Document) Section(label string) (string, bool) {
	text, ok := d.sections[label]
	return text, ok
}

// Fields exposes the metadata as a flat map, used for attribution templates.
func (d *Document) Fields() map[string]string {
	return map[string]string{
		KeyTitle:  d.title,
		KeyBook:   d.book,
		KeyText:   d.textAuthor,
		KeyMelody: d.melodyAuthor,
	}
}
