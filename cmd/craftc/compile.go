package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"craftc/internal/config"
	"craftc/internal/diagnostics"
	"craftc/internal/driver"
	"craftc/pkg/lexer"
	"craftc/pkg/parser"
)

var (
	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	dimSummary   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newCompileCmd() *cobra.Command {
	var (
		inputDir   string
		outputDir  string
		namespace  string
		dumpAST    bool
		dumpTokens bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the input directory into .mcfunction files",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return err
			}

			cfg, err := config.Load(workDir, config.Overrides{
				InputDir:  inputDir,
				OutputDir: outputDir,
				Namespace: namespace,
			})
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			fmt.Fprintf(cmd.ErrOrStderr(), "run=%s compiling %s from %s to %s\n", runID, cfg.Namespace, cfg.InputDir, cfg.OutputDir)

			if dumpAST || dumpTokens {
				if err := dumpEntry(cmd, cfg, dumpTokens, dumpAST); err != nil {
					diagnostics.Render(cmd.ErrOrStderr(), err)
					os.Exit(1)
				}
			}

			result, err := driver.Run(cfg)
			if err != nil {
				diagnostics.Render(cmd.ErrOrStderr(), err)
				os.Exit(1)
			}

			printSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "Input directory (default inputs/)")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (default outputs/)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Minecraft namespace (default test)")
	cmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "Print the entry scope's AST and exit without writing output")
	cmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "Print the entry scope's token stream and exit without writing output")
	_ = cmd.Flags().MarkHidden("dump-ast")
	_ = cmd.Flags().MarkHidden("dump-tokens")

	return cmd
}

func dumpEntry(cmd *cobra.Command, cfg config.Config, dumpTokens, dumpAST bool) error {
	prepared, err := driver.ScanInputs(cfg.InputDir)
	if err != nil {
		return err
	}
	source, ok := prepared["code"]
	if !ok {
		return diagnostics.NewIOError("no %q scope found in %s", "code", cfg.InputDir)
	}

	toks, err := lexer.Tokenize(source)
	if err != nil {
		return err
	}
	if dumpTokens {
		for _, t := range toks {
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
		}
	}
	if dumpAST {
		nodes, err := parser.Build(toks)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			fmt.Fprintln(cmd.OutOrStdout(), n.String())
		}
	}
	os.Exit(0)
	return nil
}

func printSummary(cmd *cobra.Command, r driver.Result) {
	fmt.Fprintln(cmd.OutOrStdout(), summaryStyle.Render(fmt.Sprintf("compiled %d scope(s) into %d file(s)", r.ScopeCount, r.FilesWritten)))
	fmt.Fprintln(cmd.OutOrStdout(), dimSummary.Render(fmt.Sprintf("namespace: %s", r.Namespace)))
}
