package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/slidegen/config"
	"github.com/ByLCY/slidegen/pipeline"
)

func writeSong(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("title: Morning Has Broken\nbook: Hymnal 5\ntext: Eleanor Farjeon\nmelody: Traditional\nstructure: 1,R,2\n")
	b.WriteString("[1]\nMorning has broken\nLike the first morning\nBlackbird has spoken\n")
	b.WriteString("[R]\nPraise for the singing\nPraise for the morning\n")
	b.WriteString("[2]\n")
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "Sweet the rain's new fall %d\n", i)
	}
	path := filepath.Join(dir, "morning.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	root := newApp().rootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStructureCommand(t *testing.T) {
	songPath := writeSong(t, t.TempDir())
	out, err := execute(t, "structure", songPath)
	require.NoError(t, err)
	require.Equal(t, "1,R,2\n", out)
}

func TestCountCommand(t *testing.T) {
	songPath := writeSong(t, t.TempDir())

	out, err := execute(t, "count", songPath)
	require.NoError(t, err)
	require.Contains(t, out, "song slides: 5\n")
	require.Contains(t, out, "total: 6\n")

	out, err = execute(t, "count", songPath, "2-2", "--log-level", "error")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "R,2\n"), "unexpected output %q", out)
}

func TestRenderCommandWritesNumberedSlidesAndPlan(t *testing.T) {
	dir := t.TempDir()
	songPath := writeSong(t, dir)
	outDir := filepath.Join(dir, "out")
	planPath := filepath.Join(dir, "plan.json")

	_, err := execute(t, "render", songPath, outDir, "--sequential", "--plan", planPath, "--log-level", "error")
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{
		"slide-1.jpg", "slide-2.jpg", "slide-3.jpg", "slide-4.jpg", "slide-5.jpg", "slide-6.jpg",
	}, names)

	data, err := os.ReadFile(planPath)
	require.NoError(t, err)
	var plan pipeline.Plan
	require.NoError(t, json.Unmarshal(data, &plan))
	require.Equal(t, "Morning Has Broken", plan.Title)
	require.Len(t, plan.Tasks, 6)
}

func TestRenderCommandFailsForMissingSong(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.txt"), t.TempDir())
	require.Error(t, err)
}

func TestConfigInitWritesLoadableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "slidegen.yaml")
	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestParseBatchItem(t *testing.T) {
	require.Equal(t, batchItem{Song: "songs/a.txt"}, parseBatchItem("songs/a.txt"))
	require.Equal(t, batchItem{Song: "songs/a.txt", Structure: "1,R"}, parseBatchItem("songs/a.txt= 1,R"))
}

func TestEnsureMinSubdirs(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(subdir(out, "song-", 2), 0o755))
	require.NoError(t, ensureMinSubdirs(out, "song-", 3))

	for n := 1; n <= 3; n++ {
		info, err := os.Stat(filepath.Join(out, fmt.Sprintf("song-%d", n)))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
	_, err := os.Stat(filepath.Join(out, "song-4"))
	require.True(t, os.IsNotExist(err))
}

func TestBatchRequiresOut(t *testing.T) {
	songPath := writeSong(t, t.TempDir())
	_, err := execute(t, "batch", songPath)
	require.Error(t, err)
}

func slideNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWatchReRendersOnChange(t *testing.T) {
	t.Chdir(t.TempDir())
	songPath := writeSong(t, t.TempDir())
	outDir := filepath.Join(t.TempDir(), "out")

	a := newApp()
	a.logger = zerolog.Nop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.watch(ctx, songPath, outDir, "") }()

	require.Eventually(t, func() bool {
		return len(slideNames(t, outDir)) == 6
	}, 60*time.Second, 50*time.Millisecond)

	data, err := os.ReadFile(songPath)
	require.NoError(t, err)
	edited := strings.Replace(string(data), "structure: 1,R,2", "structure: 1", 1)
	require.NoError(t, os.WriteFile(songPath, []byte(edited), 0o644))

	require.Eventually(t, func() bool {
		names := slideNames(t, outDir)
		return len(names) == 2 && names[0] == "slide-1.jpg" && names[1] == "slide-2.jpg"
	}, 60*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not return after cancellation")
	}
}
