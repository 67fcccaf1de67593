package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/amonks/quadrant/backup"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/internal/validation"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, import and snapshot todos, categories and identities",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup as JSON (stdout when no file or -)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Read a backup written by export (- for stdin)",
	Long: `Read a backup written by export.

With --mode merge (the default) only records whose id is not present
locally are added. With --mode overwrite the todos, categories,
identities and roles are replaced; a snapshot is taken first.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

var backupImportMode string

var backupSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: fmt.Sprintf("Store a snapshot, dropping snapshots older than %d days", backup.RetentionDays),
	Args:  cobra.NoArgs,
	RunE:  runBackupSnapshot,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

var backupListJSON bool

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd, backupSnapshotCmd, backupListCmd)

	backupImportCmd.Flags().StringVar(&backupImportMode, "mode", string(backup.ModeMerge),
		"Import mode: "+validation.FormatValidValues(backup.ValidModes()))
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output as JSON")
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.Export(cmd.Context())
	if err != nil {
		return err
	}
	if len(args) == 0 || args[0] == "-" {
		return encodeJSONToStdout(data)
	}
	if err := backup.WriteFile(args[0], data); err != nil {
		return err
	}
	fmt.Printf("Exported %s to %s\n", plural(len(data.Todos), "todo"), args[0])
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	mode, err := backup.ParseMode(backupImportMode)
	if err != nil {
		return validation.FormatInvalidValueError(backup.ErrInvalidMode, backup.Mode(backupImportMode), backup.ValidModes())
	}

	data, err := readBackup(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if mode == backup.ModeOverwrite {
		if _, err := a.Snapshot(cmd.Context()); err != nil {
			return fmt.Errorf("snapshot before overwrite: %w", err)
		}
	}
	if err := a.Import(cmd.Context(), data, mode); err != nil {
		return err
	}
	fmt.Printf("Imported %s (%s)\n", plural(len(data.Todos), "todo"), mode)
	return nil
}

func readBackup(path string, stdin io.Reader) (backup.Data, error) {
	if path != "-" {
		return backup.ReadFile(path)
	}
	var data backup.Data
	if err := json.NewDecoder(stdin).Decode(&data); err != nil {
		return backup.Data{}, fmt.Errorf("decode backup from stdin: %w", err)
	}
	return data, nil
}

func runBackupSnapshot(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Stored snapshot of %s\n", plural(len(data.Todos), "todo"))
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snapshots, err := a.Snapshots(cmd.Context())
	if err != nil {
		return err
	}
	if backupListJSON {
		return encodeJSONToStdout(snapshots)
	}
	fmt.Print(formatSnapshots(snapshots, a.Now()))
	return nil
}

func formatSnapshots(snapshots []backup.Data, now time.Time) string {
	if len(snapshots) == 0 {
		return "No snapshots stored.\n"
	}
	builder := ui.NewTableBuilder([]string{"#", "TAKEN", "AGE", "TODOS", "CATEGORIES", "IDENTITIES"}, len(snapshots))
	for i, s := range snapshots {
		builder.AddRow(
			fmt.Sprint(i+1),
			ui.FormatDate(&s.Timestamp),
			ui.FormatTimeAgo(s.Timestamp, now),
			fmt.Sprint(len(s.Todos)),
			fmt.Sprint(len(s.Categories)),
			fmt.Sprint(len(s.Identities)),
		)
	}
	return builder.String()
}

