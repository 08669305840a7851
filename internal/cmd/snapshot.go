package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/filematch/internal/fileutil"
	"github.com/harrison/filematch/internal/snapshot"
)

// NewSnapshotCommand creates the 'filematch snapshot' parent command
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record and manage directory tree snapshots",
		Long: `Commands for recording a directory tree into the snapshot database and
managing stored snapshots.

A snapshot stores the immediate files and subdirectories of every directory
below its root. 'filematch match --snapshot <id>' matches against a snapshot
instead of the live filesystem.`,
	}

	cmd.PersistentFlags().String("db", "", "Snapshot database path (default: $FILEMATCH_HOME/snapshots.db)")
	cmd.PersistentFlags().String("config", "", "Path to config file (default: nearest filematch.yaml)")

	cmd.AddCommand(newSnapshotCreateCommand())
	cmd.AddCommand(newSnapshotListCommand())
	cmd.AddCommand(newSnapshotShowCommand())
	cmd.AddCommand(newSnapshotDeleteCommand())

	return cmd
}

func newSnapshotCreateCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "create [root]",
		Short: "Record the directory tree under root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runSnapshotCreate(cmd, root, label)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Name to remember the snapshot by")

	return cmd
}

func runSnapshotCreate(cmd *cobra.Command, root, label string) error {
	root, err := absolutePath(root)
	if err != nil {
		return err
	}

	store, err := openSnapshotStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Create(commandContext(cmd), root, label, fileutil.NewOSLister())
	if err != nil {
		return fmt.Errorf("create snapshot of %s: %w", root, err)
	}

	green := color.New(color.FgGreen)
	green.Fprintf(cmd.OutOrStdout(), "Created snapshot %s\n", snap.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  Root: %s\n  Files: %d in %d directories\n", snap.Root, snap.FileCount, snap.DirectoryCount)
	return nil
}

func newSnapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshotStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			snapshots, err := store.List(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}

			printSnapshotList(cmd.OutOrStdout(), snapshots)
			return nil
		},
	}
}

func printSnapshotList(w io.Writer, snapshots []*snapshot.Snapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintf(w, "No snapshots found\n")
		return
	}

	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "%-36s  %-19s  %7s  %5s  %s\n", "ID", "CREATED", "FILES", "DIRS", "ROOT")
	for _, snap := range snapshots {
		fmt.Fprintf(w, "%-36s  %-19s  %7d  %5d  %s", snap.ID, formatTimestamp(snap.CreatedAt), snap.FileCount, snap.DirectoryCount, snap.Root)
		if snap.Label != "" {
			gray.Fprintf(w, " (%s)", snap.Label)
		}
		fmt.Fprintln(w)
	}
}

func newSnapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a snapshot and the directories it recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshotStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := commandContext(cmd)
			snap, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			directories, err := store.Directories(ctx, snap.ID)
			if err != nil {
				return fmt.Errorf("list snapshot directories: %w", err)
			}

			printSnapshot(cmd.OutOrStdout(), snap, directories)
			return nil
		},
	}
}

func printSnapshot(w io.Writer, snap *snapshot.Snapshot, directories []string) {
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Fprintf(w, "=== Snapshot %s ===\n", snap.ID)
	if snap.Label != "" {
		fmt.Fprintf(w, "Label:       %s\n", snap.Label)
	}
	fmt.Fprintf(w, "Root:        %s\n", snap.Root)
	fmt.Fprintf(w, "Created:     %s\n", formatTimestamp(snap.CreatedAt))
	fmt.Fprintf(w, "Files:       %d\n", snap.FileCount)
	fmt.Fprintf(w, "Directories: %d\n\n", snap.DirectoryCount)

	for _, directory := range directories {
		fmt.Fprintf(w, "  %s\n", directory)
	}
}

func newSnapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshotStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(commandContext(cmd), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", args[0])
			return nil
		},
	}
}

// openSnapshotStore resolves the database from --db and the config file
func openSnapshotStore(cmd *cobra.Command) (*snapshot.Store, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
