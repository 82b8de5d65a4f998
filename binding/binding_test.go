package binding

import (
	"reflect"
	"testing"
)

func TestInterpolateFlatMap(t *testing.T) {
	data := map[string]string{"text": "Ignaz Franz", "melody": "Wien 1774"}
	got := Interpolate("Text: ${text}\nMelodie: ${ melody }", data)
	if got != "Text: Ignaz Franz\nMelodie: Wien 1774" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestInterpolateNestedAndMissing(t *testing.T) {
	data := map[string]any{"song": map[string]any{"book": "RG 247"}}
	got := Interpolate("${song.book} ${song.title} ${}", data)
	if got != "RG 247 ${song.title} ${}" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := Interpolate("${x}", nil); got != "${x}" {
		t.Fatalf("nil data should keep placeholders, got %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${text} & ${melody} / ${text}")
	if !reflect.DeepEqual(got, []string{"text", "melody"}) {
		t.Fatalf("unexpected placeholders %v", got)
	}
}
