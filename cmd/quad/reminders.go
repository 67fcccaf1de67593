package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/quadrant/app"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/notify"
	"github.com/spf13/cobra"
)

var errNoSpool = errors.New("reminders are not backed by an alert spool")

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Inspect and deliver due-date reminders",
	Long: `Inspect and deliver due-date reminders.

Creating or updating a todo with a due date schedules an alert in the
spool file. "quad reminders fire" prints the alerts that are due and
removes them; run it from cron or a shell prompt hook.`,
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending alerts",
	Args:  cobra.NoArgs,
	RunE:  runRemindersList,
}

var remindersListJSON bool

var remindersFireCmd = &cobra.Command{
	Use:   "fire",
	Short: "Print and remove alerts that are due",
	Args:  cobra.NoArgs,
	RunE:  runRemindersFire,
}

var remindersFireDryRun bool

func init() {
	rootCmd.AddCommand(remindersCmd)
	remindersCmd.AddCommand(remindersListCmd, remindersFireCmd)

	remindersListCmd.Flags().BoolVar(&remindersListJSON, "json", false, "Output as JSON")
	remindersFireCmd.Flags().BoolVar(&remindersFireDryRun, "dry-run", false, "Print due alerts without removing them")
}

func withSpool(cmd *cobra.Command, fn func(a *app.App, spool *notify.Spool) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	spool, ok := a.Scheduler.(*notify.Spool)
	if !ok {
		return errNoSpool
	}
	return fn(a, spool)
}

func runRemindersList(cmd *cobra.Command, args []string) error {
	return withSpool(cmd, func(a *app.App, spool *notify.Spool) error {
		alerts, err := spool.Pending(cmd.Context())
		if err != nil {
			return err
		}
		if remindersListJSON {
			return encodeJSONToStdout(alerts)
		}
		fmt.Print(formatAlerts(alerts, a.Now()))
		return nil
	})
}

func formatAlerts(alerts []notify.Alert, now time.Time) string {
	if len(alerts) == 0 {
		return "No pending reminders.\n"
	}
	builder := ui.NewTableBuilder([]string{"TODO", "FIRES", "WHEN", "TITLE"}, len(alerts))
	for _, alert := range alerts {
		fireAt := alert.FireAt
		builder.AddRow(alert.ID, ui.FormatDate(&fireAt), ui.FormatDue(&fireAt, now), alert.Title)
	}
	return builder.String()
}

func runRemindersFire(cmd *cobra.Command, args []string) error {
	return withSpool(cmd, func(a *app.App, spool *notify.Spool) error {
		var (
			alerts []notify.Alert
			err    error
		)
		if remindersFireDryRun {
			alerts, err = spool.Due(cmd.Context(), a.Now())
		} else {
			alerts, err = spool.Pop(cmd.Context(), a.Now())
		}
		if err != nil {
			return err
		}
		for _, alert := range alerts {
			fmt.Print(formatAlert(alert))
		}
		a.Logger.Debug("reminders fired", "count", len(alerts), "dry_run", remindersFireDryRun)
		return nil
	})
}

func formatAlert(alert notify.Alert) string {
	var b strings.Builder
	b.WriteString(ui.Heading("Reminder: " + alert.Title))
	b.WriteString("\n")
	if body := strings.TrimSpace(alert.Body); body != "" {
		for _, line := range strings.Split(body, "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}
