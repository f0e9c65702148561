// Package main provides the CLI entrypoint for wordbin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/wordbin/internal/config"
	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/drill"
	"github.com/verte-zerg/wordbin/internal/logger"
	"github.com/verte-zerg/wordbin/internal/model"
	"github.com/verte-zerg/wordbin/internal/store"
	"github.com/verte-zerg/wordbin/internal/tui"
	"github.com/verte-zerg/wordbin/internal/wordlist"
)

var (
	drillBins   int
	drillHint   bool
	drillResume bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordbin [file]",
		Short:         "Vocabulary drill with learning bins",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !drillResume {
				return cmd.Help()
			}
			return runDrillCmd(cmd, args)
		},
	}
	addDrillFlags(rootCmd)

	drillCmd := &cobra.Command{
		Use:   "drill [file]",
		Short: "Drill one word list until every word reached the last bin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDrillCmd,
	}
	addDrillFlags(drillCmd)

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(newCourseCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addDrillFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&drillBins, "bins", drill.DefaultBins, "learning bins (2-10)")
	cmd.Flags().BoolVar(&drillHint, "hint", true, "show a hint when an answer belongs to another word")
	cmd.Flags().BoolVar(&drillResume, "resume", false, "resume the interrupted drill")
}

// app bundles what every data command needs.
type app struct {
	file config.FileConfig
	log  *zap.Logger
	st   *store.Store
}

func openApp() (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := logger.DefaultLevel
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	log, err := logger.New(level, os.Stderr)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &app{file: fileCfg, log: log, st: st}, nil
}

func (a *app) close() {
	if cerr := a.st.Close(); cerr != nil {
		a.log.Warn("failed to close db", zap.Error(cerr))
	}
	if err := a.log.Sync(); err != nil {
		// Best-effort flush; stderr may not support sync.
		_ = err
	}
}

func (a *app) drillConfig(cmd *cobra.Command, listBins int) (model.DrillConfig, error) {
	cfg := model.DrillConfig{Bins: listBins, ShowHint: drillHint}
	if a.file.Drill.Bins != nil {
		cfg.Bins = *a.file.Drill.Bins
	}
	if cmd.Flags().Changed("bins") {
		cfg.Bins = drillBins
	}
	applyBoolConfig(cmd, "hint", &cfg.ShowHint, a.file.Drill.Hint)
	if err := drill.ValidateBins(cfg.Bins); err != nil {
		return model.DrillConfig{}, fmt.Errorf("--bins: %w", err)
	}
	return cfg, nil
}

func runDrillCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()

	if drillResume {
		return a.resume(ctx, cmd)
	}
	if len(args) == 0 {
		return fmt.Errorf("a word list file is required")
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	list, err := wordlist.Load(path, wordlist.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	cfg, err := a.drillConfig(cmd, list.Bins)
	if err != nil {
		return err
	}
	if err := a.abandonActive(ctx); err != nil {
		return err
	}
	session, err := drill.NewSession(list.Pairs(),
		drill.WithBins(cfg.Bins),
		drill.WithTemplates(list.Question1, list.Question2),
		drill.WithLogger(a.log),
	)
	if err != nil {
		return fmt.Errorf("failed to start drill: %w", err)
	}
	a.log.Debug("drill started", zap.String("list", path), zap.Int("words", session.WordCount()), zap.Int("bins", cfg.Bins))
	return runTUI(a, session, tui.Config{
		ListID:    path,
		ShowHint:  cfg.ShowHint,
		Question1: list.Question1,
		Question2: list.Question2,
	})
}

func (a *app) resume(ctx context.Context, cmd *cobra.Command) error {
	active, ok, err := a.st.LoadActiveSession(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no interrupted drill to resume")
	}
	session, err := drill.Restore(active.Drill, drill.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("failed to restore drill: %w", err)
	}
	cfg, err := a.drillConfig(cmd, session.Bins())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("bins") {
		if err := session.SetBins(cfg.Bins); err != nil {
			return err
		}
	}
	tcfg := tui.Config{
		ListID:    active.ListID,
		ShowHint:  cfg.ShowHint,
		Question1: active.Drill.Question1,
		Question2: active.Drill.Question2,
		Resume:    &active,
	}
	if active.Course {
		c, err := a.loadCourse(ctx)
		if err != nil {
			return err
		}
		tcfg.Course = c
	}
	return runTUI(a, session, tcfg)
}

// abandonActive records an interrupted drill as unfinished before a new one
// replaces it.
func (a *app) abandonActive(ctx context.Context) error {
	active, ok, err := a.st.LoadActiveSession(ctx)
	if err != nil || !ok {
		return err
	}
	session, err := drill.Restore(active.Drill)
	if err != nil {
		a.log.Warn("dropping unreadable interrupted drill", zap.Error(err))
		return a.st.ClearActiveSession(ctx)
	}
	listID := active.ListID
	if active.Course {
		listID = tui.CourseListID
	}
	stats := model.SessionStats{
		StartedAt: active.StartedAt,
		EndedAt:   time.Now(),
		ListID:    listID,
		Words:     session.WordCount(),
		Bins:      session.Bins(),
		Asked:     active.Asked,
		Correct:   active.Correct,
		Incorrect: active.Asked - active.Correct,
	}
	results := session.Results()
	words := make([]model.WordStats, 0, len(results))
	for _, r := range results {
		if r.Attempts == 0 {
			continue
		}
		words = append(words, model.WordStats{
			Question: r.Pair.Question,
			Answer:   r.Pair.Answer,
			Attempts: r.Attempts,
			Correct:  r.Correct,
			Bin:      r.Bin,
		})
	}
	if _, err := a.st.InsertSession(ctx, stats, words); err != nil {
		return fmt.Errorf("failed to save interrupted drill: %w", err)
	}
	a.log.Info("interrupted drill recorded as unfinished", zap.String("list", listID))
	return a.st.ClearActiveSession(ctx)
}

func runTUI(a *app, session *drill.Session, cfg tui.Config) error {
	cfg.Logger = a.log
	m := tui.NewModel(a.st, session, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return config.Template(
		drill.DefaultBins,
		course.DefaultLessonSize,
		course.DefaultPctErrors,
		course.DefaultPctRepetition,
		course.DefaultDecay,
		logger.DefaultLevel,
	)
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
