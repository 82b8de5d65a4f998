package layout

import "strings"

// Lines 按换行切分文本，每行保留自己的换行符，末尾的空串不计为一行。
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// SlideCount 返回一个段落需要的幻灯片数量。
func SlideCount(lineCount, maxLines int) int {
	if maxLines < 1 {
		maxLines = 1
	}
	if lineCount <= maxLines {
		return 1
	}
	return lineCount/maxLines + 1
}

// Paginate 把一段歌词拆成若干张幻灯片。
//
// 行数不超过 maxLines 时整段作为一张；否则分成 lineCount/maxLines+1 张，
// 每张先分到 lineCount/张数 行，余数依次补给最前面的几张，
// 因此任意两张的行数最多相差一行。除最后一张外都标记 Continues。
// Index 与 Label 由调用方填写。
func Paginate(text string, maxLines int) []Payload {
	lines := Lines(text)
	count := SlideCount(len(lines), maxLines)
	if count == 1 {
		return []Payload{{Text: text, Part: 1, Parts: 1}}
	}

	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = len(lines) / count
	}
	for i := 0; i < len(lines)%count; i++ {
		sizes[i]++
	}

	payloads := make([]Payload, 0, count)
	offset := 0
	for i, n := range sizes {
		payloads = append(payloads, Payload{
			Text:      strings.Join(lines[offset:offset+n], ""),
			Continues: i < count-1,
			Part:      i + 1,
			Parts:     count,
		})
		offset += n
	}
	return payloads
}

// CountSlides 返回若干段落总共需要的幻灯片数量（不含开始页）。
func CountSlides(sections []string, maxLines int) int {
	total := 0
	for _, text := range sections {
		total += SlideCount(len(Lines(text)), maxLines)
	}
	return total
}
