package fonts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	for _, src := range []string{DefaultRegular, DefaultBold, "embed:go-medium"} {
		data, err := Load(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s: empty font data", src)
		}
	}
	if _, err := Load("embed:century-gothic"); err == nil {
		t.Fatalf("expected error for unknown builtin font")
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty font reference")
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, []byte("not really a font"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := Load(path)
	if err != nil || string(data) != "not really a font" {
		t.Fatalf("unexpected result %q, %v", data, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
