// Package driver implements craftc's orchestration layer (spec §4.6): it
// scans the input directory, drives the tokenizer/parser/compiler
// pipeline for the entry scope, and writes the resulting .mcfunction
// files to the output directory.
package driver

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"craftc/internal/config"
	"craftc/internal/diagnostics"
	"craftc/pkg/compiler"
	"craftc/pkg/lexer"
	"craftc/pkg/parser"
	"craftc/pkg/scope"
)

const entryScopeName = "code"

// Result summarizes one successful compile, for the CLI's summary output.
type Result struct {
	FilesWritten int
	ScopeCount   int
	Namespace    string
}

// Run scans cfg.InputDir for "<scopeName>.<ext>" source files, compiles
// the entry scope named "code", and writes every compiled scope's text
// under cfg.OutputDir, which is recreated clean first.
func Run(cfg config.Config) (Result, error) {
	preparedFiles, err := ScanInputs(cfg.InputDir)
	if err != nil {
		return Result{}, err
	}

	entrySource, ok := preparedFiles[entryScopeName]
	if !ok {
		return Result{}, diagnostics.NewIOError("no %q scope found in %s (expected a file named code.<ext>)", entryScopeName, cfg.InputDir)
	}

	toks, err := lexer.Tokenize(entrySource)
	if err != nil {
		return Result{}, err
	}
	nodes, err := parser.Build(toks)
	if err != nil {
		return Result{}, err
	}

	c := compiler.New(cfg.Namespace, preparedFiles)
	entry := scope.New(entryScopeName, cfg.Namespace, nodes)
	if err := c.Compile(entry); err != nil {
		return Result{}, err
	}

	if err := recreateDir(cfg.OutputDir); err != nil {
		return Result{}, err
	}

	written := 0
	for _, name := range c.OutputOrder() {
		text := collapseBlankLines(c.Outputs()[name])
		path := filepath.Join(cfg.OutputDir, name+".mcfunction")
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return Result{}, diagnostics.NewIOError("writing %s: %v", path, err)
		}
		written++
	}

	return Result{FilesWritten: written, ScopeCount: len(c.OutputOrder()), Namespace: cfg.Namespace}, nil
}

// ScanInputs maps each input file's base name (extension stripped) to its
// source text (spec §4.6, §6: "the extension is stripped to yield the
// scope name used by import").
func ScanInputs(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, diagnostics.NewIOError("reading input directory %s: %v", dir, err)
	}

	prepared := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		scopeName := strings.TrimSuffix(name, filepath.Ext(name))
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, diagnostics.NewIOError("reading %s: %v", name, err)
		}
		prepared[scopeName] = string(content)
	}
	return prepared, nil
}

// recreateDir removes dir (if present) and creates it fresh, so a prior
// partial run leaves no residue (spec §5).
func recreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return diagnostics.NewIOError("clearing output directory %s: %v", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return diagnostics.NewIOError("creating output directory %s: %v", dir, err)
	}
	return nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// collapseBlankLines collapses consecutive blank lines to one and trims
// leading blank lines (spec §6).
func collapseBlankLines(text string) string {
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimLeft(text, "\n")
}
