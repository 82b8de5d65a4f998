package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "slidegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: png\n  extension: png\nbody:\n  max_lines: 6\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "png", cfg.Output.Format)
	require.Equal(t, 6, cfg.Body.MaxLines)
	// 未在文件中出现的字段保持默认值
	require.Equal(t, "slide-", cfg.Output.BaseName)
	require.Equal(t, 55, cfg.Body.MaxSize)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SLIDEGEN_BODY_MAX_LINES", "4")
	t.Setenv("SLIDEGEN_RENDER_SEQUENTIAL", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Body.MaxLines)
	require.True(t, cfg.Render.Sequential)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SLIDEGEN_OUTPUT_BASE_NAME=folie\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SLIDEGEN_OUTPUT_BASE_NAME") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "folie", cfg.Output.BaseName)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("body:\n  max_lines: 0\n  min_size: 80\noutput:\n  format: gif\n"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)
	require.Contains(t, err.Error(), "max_lines")
	require.Contains(t, err.Error(), "gif")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWriteFileRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "slidegen.yaml")
	cfg := Default()
	cfg.Arrow.Color = "#ff0000"
	require.NoError(t, WriteFile(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestValidateRejectsUnknownAttributionField(t *testing.T) {
	cfg := Default()
	cfg.Metadata.SplitAuthor = "Text: ${text}\nArr.: ${arranger}"
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	require.Contains(t, err.Error(), "arranger")
}

func TestLoadPicksFormatFromExtension(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	toml := filepath.Join(dir, "slidegen.toml")
	require.NoError(t, os.WriteFile(toml, []byte("[body]\nmax_lines = 5\n\n[output]\nbase_name = \"folie-\"\n"), 0o644))
	cfg, err := Load(toml)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Body.MaxLines)
	require.Equal(t, "folie-", cfg.Output.BaseName)

	json := filepath.Join(dir, "slidegen.json")
	require.NoError(t, os.WriteFile(json, []byte(`{"render": {"workers": 3}}`), 0o644))
	cfg, err = Load(json)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Render.Workers)

	bare := filepath.Join(dir, "slidegen")
	require.NoError(t, os.WriteFile(bare, []byte("body:\n  max_lines: 7\n"), 0o644))
	cfg, err = Load(bare)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Body.MaxLines)

	conf := filepath.Join(dir, "slidegen.conf")
	require.NoError(t, os.WriteFile(conf, []byte("body:\n  max_lines: 7\n"), 0o644))
	_, err = Load(conf)
	require.Error(t, err, "unsupported extensions must not be read as YAML")
}
