package layout

import (
	"math"
	"testing"
)

// TestPxToPt 验证 px→pt 换算：1 英寸 = 25.4mm = 72pt，画布上 1px 即 1mm。
func TestPxToPt(t *testing.T) {
	if got := PxToPt(25.4); math.Abs(got-72) > 1e-3 {
		t.Fatalf("expected 25.4px to be 72pt, got %g", got)
	}
	if got := PxToPt(0); got != 0 {
		t.Fatalf("expected 0pt, got %g", got)
	}
}
