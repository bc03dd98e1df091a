package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/service"
)

// parseSelection turns "books,highlights" into a Selection mask. Empty
// selects everything.
func parseSelection(only string) (backup.Selection, error) {
	if only == "" {
		return backup.SelectAll(), nil
	}

	var sel backup.Selection
	for _, name := range strings.Split(only, ",") {
		switch strings.TrimSpace(name) {
		case "books":
			sel.Books = true
		case "collections":
			sel.Collections = true
		case "highlights":
			sel.Highlights = true
		case "progress":
			sel.Progress = true
		case "challenges":
			sel.Challenges = true
		case "settings":
			sel.Settings = true
		default:
			return sel, fmt.Errorf("unknown entity type %q (valid: books, collections, highlights, progress, challenges, settings)", name)
		}
	}
	return sel, nil
}

var exportFlags struct {
	output  string
	only    string
	noFiles bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to a backup archive",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		backups := do.MustInvoke[*service.BackupService](a.injector)

		sel, err := parseSelection(exportFlags.only)
		if err != nil {
			return err
		}

		result, err := backups.ExportArchive(ctx, backup.ExportOptions{
			Selection:    sel,
			IncludeFiles: !exportFlags.noFiles,
			OutputPath:   exportFlags.output,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Exported to %s (%d bytes)\n", result.Path, result.Size)
		fmt.Printf("  books %d, collections %d, highlights %d, progress %d, challenges %d, files %d\n",
			result.Counts.Books, result.Counts.Collections, result.Counts.Highlights,
			result.Counts.Progress, result.Counts.Challenges, result.Counts.Files)
		fmt.Printf("  sha256 %s\n", result.Checksum)
		return nil
	}),
}

var importFlags struct {
	only   string
	dryRun bool
}

var importCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Merge a backup archive into the library",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		backups := do.MustInvoke[*service.BackupService](a.injector)
		admin := do.MustInvoke[*service.AdminService](a.injector)

		sel, err := parseSelection(importFlags.only)
		if err != nil {
			return err
		}

		result, err := backups.ImportArchiveFile(ctx, args[0], backup.ImportOptions{
			Selection: sel,
			DryRun:    importFlags.dryRun,
		})
		if err != nil {
			return err
		}

		if importFlags.dryRun {
			fmt.Println("Archive is valid; nothing imported (dry run).")
			return nil
		}

		fmt.Printf("Imported %d records", result.ImportedCount)
		if result.Files > 0 {
			fmt.Printf(" and %d book files", result.Files)
		}
		fmt.Println()
		for _, entity := range []string{"books", "collections", "challenges", "highlights", "progress", "settings"} {
			if n, ok := result.Imported[entity]; ok {
				fmt.Printf("  %s: %d\n", entity, n)
			}
		}

		if n, err := admin.RebuildSearchIndex(ctx); err == nil && n > 0 {
			fmt.Printf("Search index rebuilt over %d books\n", n)
		}
		return nil
	}),
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage backup files",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		backups := do.MustInvoke[*service.BackupService](a.injector)

		all, err := backups.List(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No backups. Create one with `inkwell export`.")
			return nil
		}
		for _, b := range all {
			fmt.Printf("%s  %s  %d bytes\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"), b.Size)
		}
		return nil
	}),
}

var backupsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		backups := do.MustInvoke[*service.BackupService](a.injector)

		if err := backups.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	}),
}

var pruneKeep int

var backupsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest backups",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		backups := do.MustInvoke[*service.BackupService](a.injector)

		removed, err := backups.Prune(ctx, pruneKeep)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d backups, kept the newest %d\n", removed, pruneKeep)
		return nil
	}),
}

var validateCmd = &cobra.Command{
	Use:   "validate <archive>",
	Short: "Check an archive without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		backups := do.MustInvoke[*service.BackupService](a.injector)

		result, err := backups.Validate(ctx, args[0])
		if err != nil {
			return err
		}
		if !result.Valid {
			fmt.Println("Archive is NOT valid:")
			for _, e := range result.Errors {
				fmt.Printf("  %s\n", e)
			}
			return fmt.Errorf("validation failed")
		}

		m := result.Manifest
		fmt.Printf("Valid archive (format %s, created %s)\n", m.FormatVersion, m.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  books %d, collections %d, highlights %d, progress %d, challenges %d, files %d\n",
			m.Counts.Books, m.Counts.Collections, m.Counts.Highlights,
			m.Counts.Progress, m.Counts.Challenges, m.Counts.Files)
		return nil
	}),
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "archive path (default: timestamped file in the backup dir)")
	exportCmd.Flags().StringVar(&exportFlags.only, "only", "", "comma-separated entity types to include")
	exportCmd.Flags().BoolVar(&exportFlags.noFiles, "no-files", false, "skip binary book payloads")

	importCmd.Flags().StringVar(&importFlags.only, "only", "", "comma-separated entity types to import")
	importCmd.Flags().BoolVar(&importFlags.dryRun, "dry-run", false, "validate without writing")

	backupsPruneCmd.Flags().IntVar(&pruneKeep, "keep", 5, "number of backups to keep")

	backupsCmd.AddCommand(backupsListCmd, backupsRmCmd, backupsPruneCmd)
	rootCmd.AddCommand(exportCmd, importCmd, backupsCmd, validateCmd)
}
