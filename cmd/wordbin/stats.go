package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/wordbin/internal/model"
	"github.com/verte-zerg/wordbin/internal/stats"
	"github.com/verte-zerg/wordbin/internal/statsui"
)

var (
	statsList  string
	statsSince string
	statsLast  int
	statsPlain bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsList, "list", "", "list filter (file path, or \"course\" for lessons)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print tables instead of the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation(model.DayLayout, statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	cfg := model.StatsConfig{
		ListID: statsList,
		Since:  sinceTime,
		Last:   statsLast,
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(context.Background(), a.st, cfg, time.Now())
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), report)
	}

	m := statsui.NewModel(a.st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printReport(w io.Writer, report stats.Report) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	today := 0
	if n := len(report.Calendar); n > 0 {
		today = report.Calendar[n-1].Correct
	}
	if _, err := fmt.Fprintf(w, "Streak: %d days (today %d/%d correct)\n\n", report.Streak, today, stats.DailyGoal); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderListTable(w, report.Lists); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderErrorTable(w, report.ErrorProne); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.RenderMissedTable(w, report.Missed)
}
