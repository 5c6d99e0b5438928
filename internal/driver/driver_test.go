package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"craftc/internal/config"
	"craftc/internal/driver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanInputs_MapsBaseNameToContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "code.mcl"), "let x = 1;\n")
	writeFile(t, filepath.Join(dir, "util.mcl"), "export function helper() {}\n")

	prepared, err := driver.ScanInputs(dir)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;\n", prepared["code"])
	assert.Equal(t, "export function helper() {}\n", prepared["util"])
	assert.Len(t, prepared, 2)
}

func TestScanInputs_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "code.mcl"), "let x = 1;\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	prepared, err := driver.ScanInputs(dir)
	require.NoError(t, err)
	assert.Len(t, prepared, 1)
	_, ok := prepared["nested"]
	assert.False(t, ok)
}

func TestScanInputs_MissingDirErrors(t *testing.T) {
	_, err := driver.ScanInputs(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestRun_WritesCompiledScopesToOutputDir(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "inputs")
	outputDir := filepath.Join(root, "outputs")
	require.NoError(t, os.Mkdir(inputDir, 0o755))
	writeFile(t, filepath.Join(inputDir, "code.mcl"), "let x = 1;\n")

	cfg := config.Config{InputDir: inputDir, OutputDir: outputDir, Namespace: "test"}
	result, err := driver.Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesWritten)
	assert.Equal(t, 1, result.ScopeCount)
	assert.Equal(t, "test", result.Namespace)

	data, err := os.ReadFile(filepath.Join(outputDir, "code.mcfunction"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "scoreboard objective add v_code_0 dummy")
	assert.Contains(t, string(data), "scoreboard players set value v_code_0 1")
}

func TestRun_MissingEntryScopeErrors(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "inputs")
	require.NoError(t, os.Mkdir(inputDir, 0o755))
	writeFile(t, filepath.Join(inputDir, "util.mcl"), "export function helper() {}\n")

	cfg := config.Config{InputDir: inputDir, OutputDir: filepath.Join(root, "outputs"), Namespace: "test"}
	_, err := driver.Run(cfg)
	assert.Error(t, err)
}

func TestRun_RecreatesOutputDirectoryDiscardingStaleFiles(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "inputs")
	outputDir := filepath.Join(root, "outputs")
	require.NoError(t, os.Mkdir(inputDir, 0o755))
	require.NoError(t, os.Mkdir(outputDir, 0o755))
	writeFile(t, filepath.Join(outputDir, "stale.mcfunction"), "leftover\n")
	writeFile(t, filepath.Join(inputDir, "code.mcl"), "let x = 1;\n")

	cfg := config.Config{InputDir: inputDir, OutputDir: outputDir, Namespace: "test"}
	_, err := driver.Run(cfg)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outputDir, "stale.mcfunction"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_MultiScopeWritesOneFilePerScope(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "inputs")
	outputDir := filepath.Join(root, "outputs")
	require.NoError(t, os.Mkdir(inputDir, 0o755))
	writeFile(t, filepath.Join(inputDir, "code.mcl"), "while item = [1, 2] {\n item;\n}\n")

	cfg := config.Config{InputDir: inputDir, OutputDir: outputDir, Namespace: "test"}
	result, err := driver.Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ScopeCount)

	for _, name := range []string{"code.mcfunction", "code.0.mcfunction", "code.1.mcfunction"} {
		_, err := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}
