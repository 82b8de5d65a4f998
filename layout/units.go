package layout

// 渲染器以毫米作为画布单位并按 1px/mm 光栅化，因此像素值可以直接当作毫米使用，
// 只有字体面需要 pt。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt converts a pixel font size into the point size expected by font faces.
func PxToPt(px float64) float64 { return px * MmToPt }
