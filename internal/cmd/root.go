package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for filematch
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filematch",
		Short: "Glob-based file matching over directory trees",
		Long: `Filematch walks a directory tree and selects files with include and
exclude glob specs, an optional extension filter and a case-sensitivity policy.

Results are bucketed by the first include spec that matches each file and can
be rendered as a plain list, JSON, YAML, Markdown or HTML. Directory trees can
be recorded as snapshots and matched later without touching the filesystem.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewMatchCommand())
	cmd.AddCommand(NewPatternsCommand())
	cmd.AddCommand(NewSnapshotCommand())

	return cmd
}
