package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"craftc/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir, config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInputDir, cfg.InputDir)
	assert.Equal(t, config.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, config.DefaultNamespace, cfg.Namespace)
}

func TestLoad_ProjectFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "craftc.yaml"), "input_dir: src\noutput_dir: dist\nnamespace: myns\n")

	cfg, err := config.Load(dir, config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.InputDir)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, "myns", cfg.Namespace)
}

func TestLoad_ProjectFilePartialLeavesDefaultsForUnsetFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "craftc.yaml"), "namespace: onlyns\n")

	cfg, err := config.Load(dir, config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInputDir, cfg.InputDir)
	assert.Equal(t, config.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "onlyns", cfg.Namespace)
}

func TestLoad_EnvOverridesProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "craftc.yaml"), "namespace: fromyaml\n")
	t.Setenv("CRAFTC_NAMESPACE", "fromenv")

	cfg, err := config.Load(dir, config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Namespace)
}

func TestLoad_DotEnvFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "CRAFTC_OUTPUT_DIR=from_dotenv\n")
	t.Cleanup(func() { os.Unsetenv("CRAFTC_OUTPUT_DIR") })

	cfg, err := config.Load(dir, config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.OutputDir)
}

func TestLoad_OverridesWinOverEveryOtherLayer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "craftc.yaml"), "namespace: fromyaml\ninput_dir: fromyaml_in\n")
	t.Setenv("CRAFTC_NAMESPACE", "fromenv")

	cfg, err := config.Load(dir, config.Overrides{Namespace: "fromflag", InputDir: "fromflag_in"})
	require.NoError(t, err)
	assert.Equal(t, "fromflag", cfg.Namespace)
	assert.Equal(t, "fromflag_in", cfg.InputDir)
}

func TestLoad_MalformedProjectFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "craftc.yaml"), "not: [valid: yaml\n")

	_, err := config.Load(dir, config.Overrides{})
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
