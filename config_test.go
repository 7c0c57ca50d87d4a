package sol

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("debug: true\nlog_categories: [classify, dispatch]\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, []LogCategory{CatClassify, CatDispatch}, cfg.LogCategories)
	assert.Equal(t, "script", cfg.ChunkName)
	assert.True(t, cfg.ShowErrorContext)
	assert.Equal(t, 2, cfg.ContextLines)
	assert.Equal(t, os.Stdout, cfg.Stdout)
}

func TestParseConfigRejectsUnknownNames(t *testing.T) {
	tests := map[string]string{
		"category": "log_categories: [classify, telemetry]",
		"library":  "libraries: [base, ffi]",
		"context":  "context_lines: -1",
		"syntax":   "libraries: [base",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sol.yaml")
	doc := "chunk_name: main\nlibraries: [base, string]\nshow_error_context: false\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.ChunkName)
	assert.Equal(t, []string{LibBase, LibString}, cfg.Libraries)
	assert.False(t, cfg.ShowErrorContext)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadedConfigDrivesState(t *testing.T) {
	cfg, err := ParseConfig([]byte("libraries: [base]\nchunk_name: loaded\n"))
	require.NoError(t, err)
	cfg.Stdout = io.Discard
	cfg.LogOutput = io.Discard
	s := New(cfg)
	t.Cleanup(s.Close)

	r := s.Script("return type(table)")
	require.True(t, r.Valid(), "%v", r.Err())
	assert.Equal(t, "nil", r.Value(0))

	r = s.Script("error('x')")
	require.False(t, r.Valid())
	var se *ScriptError
	require.ErrorAs(t, r.Err(), &se)
	assert.Equal(t, "loaded", se.Chunk)
}
