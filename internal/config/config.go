// Package config loads craftc's three settings (input directory, output
// directory, namespace) from a layered source: flags, then a .env file
// (github.com/joho/godotenv, used the way the teacher's main.go used a
// hand-rolled .env reader), then a craftc.yaml project file
// (gopkg.in/yaml.v3, used the way abdidvp-openkraft's config.YAMLLoader
// reads .openkraft.yaml), then built-in defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInputDir  = "inputs"
	DefaultOutputDir = "outputs"
	DefaultNamespace = "test"

	projectFileName = "craftc.yaml"
)

// Config is craftc's fully resolved configuration.
type Config struct {
	InputDir  string
	OutputDir string
	Namespace string
}

// projectFile mirrors craftc.yaml's shape.
type projectFile struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Namespace string `yaml:"namespace"`
}

// Overrides carries explicit cobra flag values; a zero value means "not
// set on the command line" and falls through to the next layer.
type Overrides struct {
	InputDir  string
	OutputDir string
	Namespace string
}

// Load resolves the layered configuration rooted at workDir: flags win
// over env vars (CRAFTC_INPUT_DIR, CRAFTC_OUTPUT_DIR, CRAFTC_NAMESPACE,
// loaded from workDir/.env via godotenv.Load if present) which win over
// workDir/craftc.yaml which wins over built-in defaults.
func Load(workDir string, overrides Overrides) (Config, error) {
	cfg := Config{
		InputDir:  DefaultInputDir,
		OutputDir: DefaultOutputDir,
		Namespace: DefaultNamespace,
	}

	if proj, ok, err := loadProjectFile(workDir); err != nil {
		return Config{}, err
	} else if ok {
		applyProjectFile(&cfg, proj)
	}

	envFile := filepath.Join(workDir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	applyOverrides(&cfg, overrides)

	return cfg, nil
}

func loadProjectFile(workDir string) (projectFile, bool, error) {
	data, err := os.ReadFile(filepath.Join(workDir, projectFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return projectFile{}, false, nil
		}
		return projectFile{}, false, err
	}
	var proj projectFile
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return projectFile{}, false, err
	}
	return proj, true, nil
}

func applyProjectFile(cfg *Config, proj projectFile) {
	if proj.InputDir != "" {
		cfg.InputDir = proj.InputDir
	}
	if proj.OutputDir != "" {
		cfg.OutputDir = proj.OutputDir
	}
	if proj.Namespace != "" {
		cfg.Namespace = proj.Namespace
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CRAFTC_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("CRAFTC_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("CRAFTC_NAMESPACE"); v != "" {
		cfg.Namespace = v
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.InputDir != "" {
		cfg.InputDir = o.InputDir
	}
	if o.OutputDir != "" {
		cfg.OutputDir = o.OutputDir
	}
	if o.Namespace != "" {
		cfg.Namespace = o.Namespace
	}
}
