package cmd

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/harrison/filematch/internal/fileutil"
	"github.com/harrison/filematch/internal/logger"
	"github.com/harrison/filematch/internal/report"
)

// NewMatchCommand creates the 'filematch match' command
func NewMatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [root]",
		Short: "List files selected by include and exclude specs",
		Long: `Walk root (default: the configured root, or ".") and print every file that
matches one of the include specs and none of the exclude specs.

Specs are globs relative to root: "*" and "?" match within one path segment,
"**" matches any number of directories, and a last segment without wildcards
or a dot (e.g. "src") selects everything beneath that directory. Specs that
cannot be compiled are reported and ignored.

Files are grouped by the first include spec they match, in the order the
specs were given.

Examples:
  filematch match --include 'src/**/*.ts' --exclude '**/*.d.ts'
  filematch match ./web --include src --include test --format json
  filematch match --snapshot 6f1c... --include '**/*.go' --output files.md --format markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMatch,
	}

	addSpecFlags(cmd)
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml, markdown, html (default: text)")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().String("snapshot", "", "Match against a stored snapshot instead of the filesystem")
	cmd.Flags().String("db", "", "Snapshot database path (default: $FILEMATCH_HOME/snapshots.db)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Also write a per-run log file into this directory")

	return cmd
}

// runMatch implements the match command logic
func runMatch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	cwd, err := workingDirectory()
	if err != nil {
		return err
	}

	opts := fileutil.MatchOptions{
		Path:             slashPath(cfg.Root),
		Extensions:       cfg.Extensions,
		Excludes:         cfg.Exclude,
		Includes:         cfg.Include,
		CaseSensitive:    cfg.IsCaseSensitive(),
		CurrentDirectory: cwd,
	}

	var lister fileutil.Lister = fileutil.NewOSLister()
	source := ""

	if snapshotID, _ := cmd.Flags().GetString("snapshot"); snapshotID != "" {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Get(ctx, snapshotID)
		if err != nil {
			return err
		}
		snapLister, err := store.Lister(ctx, snap.ID)
		if err != nil {
			return err
		}

		// Snapshots are keyed by absolute path
		if len(args) == 0 {
			opts.Path = snap.Root
		} else if opts.Path, err = absolutePath(args[0]); err != nil {
			return err
		}
		lister = snapLister
		source = "snapshot " + snap.ID
	}

	log.LogMatchStart(logger.MatchStart{
		Root:          opts.Path,
		Includes:      opts.Includes,
		Excludes:      opts.Excludes,
		Extensions:    opts.Extensions,
		CaseSensitive: opts.CaseSensitive,
		Source:        source,
	})

	start := time.Now()
	result, err := fileutil.MatchFiles(opts, lister)
	if err != nil {
		log.LogError(fmt.Sprintf("Matching under %s failed: %v", opts.Path, err))
		return fmt.Errorf("match files: %w", err)
	}

	log.LogInvalidSpecs(result.Invalid)
	log.LogMatchSummary(logger.MatchSummary{
		Root:  opts.Path,
		Files: len(result.Files()),
		BucketSizes: lo.Map(result.Buckets, func(bucket []string, _ int) int {
			return len(bucket)
		}),
		BasePaths: result.BasePaths,
		Invalid:   len(result.Invalid),
		Duration:  time.Since(start),
	})

	r := report.New(opts, result)
	r.Source = source

	if cfg.Output != "" {
		if err := report.WriteFile(cfg.Output, r, format); err != nil {
			return err
		}
		log.LogInfo(fmt.Sprintf("Wrote %s report to %s", format, cfg.Output))
		return nil
	}

	return report.Render(cmd.OutOrStdout(), r, format)
}
