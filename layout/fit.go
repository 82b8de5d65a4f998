package layout

import (
	"fmt"
	"image"
	"sort"
)

// Candidates 返回从 max 到 min（含）按 step 递减的字号列表。
// step 非正或 max < min 时只返回 max，保证列表非空。
func Candidates(max, min, step int) []int {
	if step <= 0 || max < min {
		return []int{max}
	}
	sizes := make([]int, 0, (max-min)/step+1)
	for size := max; size >= min; size -= step {
		sizes = append(sizes, size)
	}
	return sizes
}

// Fit 依次尝试 sizes 中的字号（从大到小），光栅化并裁掉留白后，
// 返回第一个宽高都不超过 box 的结果。全部放不下时返回 Size 为 0 的空结果而不是错误；
// 只有光栅化后端本身失败时才返回 error。
func Fit(r Rasterizer, content string, box Box, sizes []int, style TextStyle) (Fitted, error) {
	if r == nil {
		return Fitted{}, fmt.Errorf("layout: 缺少光栅化后端 Rasterizer")
	}
	ordered := append([]int(nil), sizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	for _, size := range ordered {
		if size <= 0 {
			continue
		}
		style.Size = float64(size)
		img, err := r.RasterizeText(content, style)
		if err != nil {
			return Fitted{}, fmt.Errorf("光栅化 %dpx 文本失败: %w", size, err)
		}
		trimmed := Trim(img)
		if box.Fits(trimmed.Bounds()) {
			return Fitted{Image: trimmed, Size: size}, nil
		}
	}
	return EmptyFit(), nil
}

// EmptyFit is the zero-size result used when no candidate fits.
func EmptyFit() Fitted {
	return Fitted{Image: image.NewRGBA(image.Rect(0, 0, 0, 0)), Size: 0}
}
