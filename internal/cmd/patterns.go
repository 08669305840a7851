package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrison/filematch/internal/pattern"
	"github.com/harrison/filematch/internal/report"
)

// compiledPatterns is the machine readable output of the patterns command
type compiledPatterns struct {
	Root          string               `json:"root" yaml:"root"`
	CaseSensitive bool                 `json:"case_sensitive" yaml:"case_sensitive"`
	Patterns      []pattern.Regex      `json:"patterns" yaml:"patterns"`
	BasePaths     []string             `json:"base_paths" yaml:"base_paths"`
	Invalid       []report.InvalidSpec `json:"invalid" yaml:"invalid"`
}

// NewPatternsCommand creates the 'filematch patterns' command
func NewPatternsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns [root]",
		Short: "Show the regular expressions compiled from the specs",
		Long: `Compile the include and exclude specs against root and print the resulting
regular expressions, the base paths a match would walk, and any spec that
could not be compiled. Nothing is read from disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPatterns,
	}

	addSpecFlags(cmd)
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")

	return cmd
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	cwd, err := workingDirectory()
	if err != nil {
		return err
	}

	set := pattern.Build(slashPath(cfg.Root), cfg.Exclude, cfg.Include, cfg.IsCaseSensitive(), cwd)
	out := compiledPatterns{
		Root:          slashPath(cfg.Root),
		CaseSensitive: set.Comparer.CaseSensitive(),
		Patterns:      set.Regexes(),
		BasePaths:     set.BasePaths,
		Invalid: lo.Map(set.Invalid, func(spec pattern.InvalidSpec, _ int) report.InvalidSpec {
			return report.InvalidSpec{Kind: string(spec.Kind), Index: spec.Index, Spec: spec.Spec, Reason: spec.Reason()}
		}),
	}

	// The configured report format does not apply here
	format, _ := cmd.Flags().GetString("format")
	w := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "text", "":
		printPatterns(w, out)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", report.ErrUnknownFormat, format)
}

// printPatterns formats the compiled set for a terminal
func printPatterns(w io.Writer, out compiledPatterns) {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)
	yellow := color.New(color.FgYellow)

	caseLabel := "case-insensitive"
	if out.CaseSensitive {
		caseLabel = "case-sensitive"
	}

	cyan.Fprintf(w, "Patterns for %s ", out.Root)
	gray.Fprintf(w, "(%s)\n", caseLabel)
	for _, regex := range out.Patterns {
		fmt.Fprintf(w, "  %-20s ", regex.Name)
		if regex.Source == "" {
			gray.Fprintf(w, "(none)\n")
		} else {
			fmt.Fprintf(w, "%s\n", regex.Source)
		}
	}

	cyan.Fprintf(w, "\nBase paths\n")
	for _, basePath := range out.BasePaths {
		fmt.Fprintf(w, "  %s\n", basePath)
	}

	if len(out.Invalid) > 0 {
		cyan.Fprintf(w, "\nIgnored specs\n")
		for _, spec := range out.Invalid {
			yellow.Fprintf(w, "  %s[%d] %q: %s\n", spec.Kind, spec.Index, spec.Spec, spec.Reason)
		}
	}
}
