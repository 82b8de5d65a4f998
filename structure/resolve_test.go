package structure_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ByLCY/slidegen/structure"
)

var fullSong = []string{"1", "R", "2", "R", "3"}

func newResolver(buf *bytes.Buffer) *structure.Resolver {
	return structure.NewResolver("R", zerolog.New(buf))
}

func TestResolveEmptyReturnsFullStructure(t *testing.T) {
	var buf bytes.Buffer
	got := newResolver(&buf).Resolve("  ", fullSong)
	if !reflect.DeepEqual(got, fullSong) {
		t.Fatalf("expected full structure, got %v", got)
	}
	got[0] = "changed"
	if fullSong[0] != "1" {
		t.Fatalf("resolver must not alias the input slice")
	}
}

func TestResolveRangePullsInNeighbouringRefrains(t *testing.T) {
	var buf bytes.Buffer
	r := newResolver(&buf)

	if got, want := r.Resolve("2-2", fullSong), []string{"R", "2", "R"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("2-2: got %v want %v", got, want)
	}
	if got, want := r.Resolve("1-1", fullSong), []string{"1", "R"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("1-1: got %v want %v", got, want)
	}
	if got, want := r.Resolve("1-3", fullSong), fullSong; !reflect.DeepEqual(got, want) {
		t.Fatalf("1-3: got %v want %v", got, want)
	}
	if strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("valid expressions must not warn: %s", buf.String())
	}
}

func TestResolveKeepsTermOrderAndDuplicates(t *testing.T) {
	var buf bytes.Buffer
	got := newResolver(&buf).Resolve("1, R ,1,2-3", fullSong)
	want := []string{"1", "R", "1", "R", "2", "R", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestResolveFallsBackWithWarning(t *testing.T) {
	cases := []string{"9-10", "3-1", "1,,2", "1-", "-2", "1-2-3", "4", "1;2"}
	for _, expr := range cases {
		var buf bytes.Buffer
		got := newResolver(&buf).Resolve(expr, fullSong)
		if !reflect.DeepEqual(got, fullSong) {
			t.Fatalf("%q: expected fallback to full structure, got %v", expr, got)
		}
		if !strings.Contains(buf.String(), `"level":"warn"`) {
			t.Fatalf("%q: expected a warning, log was %q", expr, buf.String())
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	r := newResolver(&buf)
	for _, expr := range []string{"", "2-2", "1,R", "9-10", "2-3,1"} {
		first := r.Resolve(expr, fullSong)
		second := r.Resolve(expr, fullSong)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%q: resolution not stable: %v vs %v", expr, first, second)
		}
	}
}

func TestExpandErrors(t *testing.T) {
	expr, err := structure.ParseString("3-1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := structure.Expand(expr, fullSong, "R"); !errors.Is(err, structure.ErrRangeOrder) {
		t.Fatalf("expected ErrRangeOrder, got %v", err)
	}

	expr, err = structure.ParseString("1-7")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := structure.Expand(expr, fullSong, "R"); !errors.Is(err, structure.ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}

	if _, err := structure.ParseString("1,"); !errors.Is(err, structure.ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}

func TestExpandErrorNamesTermColumn(t *testing.T) {
	expr, err := structure.ParseString("1,R,9")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = structure.Expand(expr, fullSong, "R")
	if !errors.Is(err, structure.ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
	if !strings.Contains(err.Error(), "第 5 列") {
		t.Fatalf("expected column of the bad term, got %q", err.Error())
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	expr, err := structure.ParseString(" 1 - 3 ,R")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(expr.Terms) != 2 || !expr.Terms[0].IsRange() || expr.Terms[1].IsRange() {
		t.Fatalf("unexpected terms: %+v", expr.Terms)
	}
	if got := expr.String(); got != "1-3,R" {
		t.Fatalf("unexpected canonical form %q", got)
	}
}
