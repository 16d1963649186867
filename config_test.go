package lugha_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lugha-lang/lugha"
	"github.com/lugha-lang/lugha/testutils"
)

func TestDefaultConfig(t *testing.T) {
	cfg := lugha.DefaultConfig()
	assert.Equal(t, lugha.DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, lugha.DefaultMaxCallDepth, cfg.MaxCallDepth)
	assert.Equal(t, lugha.DefaultPrompt, cfg.Prompt)
	assert.Equal(t, lugha.DefaultContPrompt, cfg.ContPrompt)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lugha.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_iterations: 50\nprompt: '>> '\n"), 0o644))
	cfg, err := lugha.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxIterations)
	assert.Equal(t, ">> ", cfg.Prompt)
	// Unset fields fall back to defaults.
	assert.Equal(t, lugha.DefaultMaxCallDepth, cfg.MaxCallDepth)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := lugha.LoadConfig(filepath.Join(t.TempDir(), "hakuna.yaml"))
	require.NoError(t, err)
	assert.Equal(t, lugha.DefaultConfig(), cfg)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lugha.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_iterations: [oops\n"), 0o644))
	_, err := lugha.LoadConfig(path)
	assert.Error(t, err)
}

func TestConfiguredIterationBound(t *testing.T) {
	in := lugha.NewWithConfig(&testutils.ScriptHost{}, lugha.Config{MaxIterations: 5})
	_, err := in.RunString("wakati kweli { 1 }", "test")
	re, ok := err.(*lugha.RuntimeError)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, lugha.ErrCallStack, re.Kind)

	// A loop under the bound still completes.
	v, err := in.RunString("kwa i = 0 mpaka 4 { i }", "test")
	require.NoError(t, err)
	assert.Len(t, v.(*lugha.List).Elements, 4)
}

func TestConfiguredCallDepthBound(t *testing.T) {
	in := lugha.NewWithConfig(&testutils.ScriptHost{}, lugha.Config{MaxCallDepth: 8})
	_, err := in.RunString("shughuli f(n) { rudisha f(n + 1) }\nf(0)", "test")
	re, ok := err.(*lugha.RuntimeError)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, lugha.ErrCallStack, re.Kind)
	assert.Equal(t, "Max call stack size exceeded", re.Msg)
}
