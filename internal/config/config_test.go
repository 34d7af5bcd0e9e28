package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/probekit/go-landmark-instrumentation/internal/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "landmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func Test_load(t *testing.T) {
	path := writeProfile(t, `
mode: auto
threads: true
runtime:
  module: my_landmarks
  enter: begin
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeAuto, p.Mode)
	assert.True(t, p.Threads)
	assert.True(t, p.AutoByDefault())

	r := p.SelectRuntime()
	assert.Equal(t, "my_landmarks", r.Module)
	assert.Equal(t, "begin", r.Enter)
	assert.Equal(t, codegen.ExitFunction, r.Exit)
	assert.Equal(t, codegen.RegisterFunction, r.Register)
}

func Test_loadInvalidMode(t *testing.T) {
	path := writeProfile(t, "mode: sometimes\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode must be")
}

func Test_loadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func Test_loadMalformedYaml(t *testing.T) {
	path := writeProfile(t, "mode: [\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func Test_selectRuntimeDefaults(t *testing.T) {
	p := &Profile{}
	assert.Equal(t, codegen.DefaultRuntime(), p.SelectRuntime())
	assert.False(t, p.AutoByDefault())

	p.Threads = true
	assert.Equal(t, codegen.ThreadedRuntime(), p.SelectRuntime())
}

func Test_runtimeApply(t *testing.T) {
	o := Runtime{Exit: "leave", Register: "announce"}

	r := o.Apply(codegen.DefaultRuntime())

	assert.Equal(t, codegen.RuntimeModulePath, r.Module)
	assert.Equal(t, codegen.EnterFunction, r.Enter)
	assert.Equal(t, "leave", r.Exit)
	assert.Equal(t, "announce", r.Register)
}
