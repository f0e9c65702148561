package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/drill"
	"github.com/verte-zerg/wordbin/internal/stats"
	"github.com/verte-zerg/wordbin/internal/tui"
	"github.com/verte-zerg/wordbin/internal/wordlist"
)

var (
	refreshAll bool

	settingsLessonSize    int
	settingsPctErrors     float64
	settingsPctRepetition float64
	settingsDecay         float64
)

func newCourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage the course and drill composed lessons",
	}

	lessonCmd := &cobra.Command{
		Use:   "lesson",
		Short: "Drill lessons composed from the course",
		Args:  cobra.NoArgs,
		RunE:  runCourseLessonCmd,
	}
	lessonCmd.Flags().IntVar(&drillBins, "bins", drill.DefaultBins, "learning bins (2-10)")
	lessonCmd.Flags().BoolVar(&drillHint, "hint", true, "show a hint when an answer belongs to another word")

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Reload lists whose files changed",
		Args:  cobra.NoArgs,
		RunE:  runCourseRefreshCmd,
	}
	refreshCmd.Flags().BoolVar(&refreshAll, "all", false, "reload every list regardless of its modification time")

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change lesson composition settings",
		Args:  cobra.NoArgs,
		RunE:  runCourseSettingsCmd,
	}
	settingsCmd.Flags().IntVar(&settingsLessonSize, "lesson-size", course.DefaultLessonSize, "words per lesson")
	settingsCmd.Flags().Float64Var(&settingsPctErrors, "pct-errors", course.DefaultPctErrors, "share of error-prone words (0-1)")
	settingsCmd.Flags().Float64Var(&settingsPctRepetition, "pct-repetition", course.DefaultPctRepetition, "share of words asked long ago (0-1)")
	settingsCmd.Flags().Float64Var(&settingsDecay, "decay", course.DefaultDecay, "share of the old error rate kept per answer (0-1)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <file>...",
			Short: "Add word lists to the course",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runCourseAddCmd,
		},
		&cobra.Command{
			Use:   "remove <file>...",
			Short: "Remove word lists and their history from the course",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runCourseRemoveCmd,
		},
		refreshCmd,
		&cobra.Command{
			Use:   "show",
			Short: "Show the course lists and settings",
			Args:  cobra.NoArgs,
			RunE:  runCourseShowCmd,
		},
		lessonCmd,
		&cobra.Command{
			Use:   "export <file>",
			Short: "Write the course to a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE:  runCourseExportCmd,
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Replace the course with one read from a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE:  runCourseImportCmd,
		},
		settingsCmd,
	)
	return cmd
}

// courseSettings returns the settings for a new course: defaults overridden
// by the config file.
func (a *app) courseSettings() course.Settings {
	s := course.DefaultSettings()
	if a.file.Course.LessonSize != nil {
		s.LessonSize = *a.file.Course.LessonSize
	}
	if a.file.Course.PctErrors != nil {
		s.PctErrors = *a.file.Course.PctErrors
	}
	if a.file.Course.PctRepetition != nil {
		s.PctRepetition = *a.file.Course.PctRepetition
	}
	if a.file.Course.Decay != nil {
		s.Decay = *a.file.Course.Decay
	}
	return s
}

// loadCourse reads the stored course, or starts an empty one.
func (a *app) loadCourse(ctx context.Context) (*course.Course, error) {
	snap, ok, err := a.st.LoadCourse(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		c, err := course.New(a.courseSettings(), course.WithLogger(a.log))
		if err != nil {
			return nil, fmt.Errorf("invalid course settings in config: %w", err)
		}
		return c, nil
	}
	c, err := course.Restore(snap, course.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("failed to restore course: %w", err)
	}
	return c, nil
}

func loadListFile(a *app, arg string) (course.ListDescriptor, *wordlist.List, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return course.ListDescriptor{}, nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return course.ListDescriptor{}, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	list, err := wordlist.Load(path, wordlist.WithLogger(a.log))
	if err != nil {
		return course.ListDescriptor{}, nil, err
	}
	desc := course.ListDescriptor{
		ID:              path,
		SourceTimestamp: info.ModTime().UTC(),
		ContentHash:     list.ContentHash,
	}
	return desc, list, nil
}

func runCourseAddCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()

	c, err := a.loadCourse(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, arg := range args {
		desc, list, err := loadListFile(a, arg)
		if err != nil {
			return err
		}
		if !c.AddList(desc, list.Pairs()) {
			if _, err := fmt.Fprintf(out, "%s is already part of the course\n", desc.ID); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintf(out, "Added %s (%d questions)\n", desc.ID, len(list.Pairs())); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return a.st.SaveCourse(ctx, c.Snapshot())
}

func runCourseRemoveCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()

	c, err := a.loadCourse(ctx)
	if err != nil {
		return err
	}
	for _, arg := range args {
		id := arg
		if !c.HasList(id) {
			if abs, err := filepath.Abs(arg); err == nil {
				id = abs
			}
		}
		if !c.RemoveList(id) {
			return fmt.Errorf("%w: %s", course.ErrUnknownList, arg)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return a.st.SaveCourse(ctx, c.Snapshot())
}

func runCourseRefreshCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()

	c, err := a.loadCourse(ctx)
	if err != nil {
		return err
	}
	modTimes := map[string]time.Time{}
	for _, desc := range c.Lists() {
		info, err := os.Stat(desc.ID)
		if err != nil {
			a.log.Warn("list source is unavailable", zap.String("list", desc.ID), zap.Error(err))
			continue
		}
		modTimes[desc.ID] = info.ModTime()
	}

	out := cmd.OutOrStdout()
	stale := c.StaleLists(modTimes)
	if refreshAll {
		stale = stale[:0]
		for _, desc := range c.Lists() {
			if _, ok := modTimes[desc.ID]; ok {
				stale = append(stale, desc.ID)
			}
		}
	}
	for _, id := range stale {
		desc, list, err := loadListFile(a, id)
		if err != nil {
			return err
		}
		res, err := c.RefreshList(desc, list.Pairs())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Refreshed %s: %d kept, %d added, %d removed\n", id, res.Kept, res.Added, res.Removed); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if len(stale) == 0 {
		if _, err := fmt.Fprintln(out, "All lists are up to date."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return a.st.SaveCourse(ctx, c.Snapshot())
}

func runCourseShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	c, err := a.loadCourse(context.Background())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := printSettings(out, c.Settings()); err != nil {
		return err
	}
	return stats.RenderListTable(out, c.ListStats())
}

func printSettings(w io.Writer, s course.Settings) error {
	_, err := fmt.Fprintf(w, "Lesson size %d  errors %.0f%%  repetition %.0f%%  decay %.2f\n\n",
		s.LessonSize, s.PctErrors*100, s.PctRepetition*100, s.Decay)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runCourseLessonCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()

	c, err := a.loadCourse(ctx)
	if err != nil {
		return err
	}
	cfg, err := a.drillConfig(cmd, drill.DefaultBins)
	if err != nil {
		return err
	}
	pairs := c.ComposeLesson()
	if len(pairs) == 0 {
		return fmt.Errorf("the course has no words; add lists with: wordbin course add <file>")
	}
	if err := a.abandonActive(ctx); err != nil {
		return err
	}
	session, err := drill.NewSession(pairs, drill.WithBins(cfg.Bins), drill.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("failed to start lesson: %w", err)
	}
	a.log.Debug("lesson composed", zap.Int("words", len(pairs)))
	return runTUI(a, session, tui.Config{
		Course:    c,
		ShowHint:  cfg.ShowHint,
		Question1: drill.DefaultTemplate,
		Question2: drill.DefaultTemplate,
	})
}

func runCourseExportCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	c, err := a.loadCourse(context.Background())
	if err != nil {
		return err
	}
	if err := writeCourseFile(args[0], c.Snapshot()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words to %s\n", c.WordCount(), args[0]); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runCourseImportCmd(cmd *cobra.Command, args []string) error {
	c, err := readCourseFile(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.st.SaveCourse(context.Background(), c.Snapshot()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lists with %d words\n", len(c.Lists()), c.WordCount()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeCourseFile(path string, snap course.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode course: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readCourseFile decodes an exported course and validates it.
func readCourseFile(path string) (*course.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var snap course.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	c, err := course.Restore(snap)
	if err != nil {
		return nil, fmt.Errorf("invalid course in %s: %w", path, err)
	}
	return c, nil
}

func runCourseSettingsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()

	c, err := a.loadCourse(ctx)
	if err != nil {
		return err
	}
	s := c.Settings()
	changed := false
	for _, name := range []string{"lesson-size", "pct-errors", "pct-repetition", "decay"} {
		changed = changed || cmd.Flags().Changed(name)
	}
	if cmd.Flags().Changed("lesson-size") {
		s.LessonSize = settingsLessonSize
	}
	if cmd.Flags().Changed("pct-errors") {
		s.PctErrors = settingsPctErrors
	}
	if cmd.Flags().Changed("pct-repetition") {
		s.PctRepetition = settingsPctRepetition
	}
	if cmd.Flags().Changed("decay") {
		s.Decay = settingsDecay
	}
	if changed {
		if err := c.SetSettings(s); err != nil {
			return err
		}
		if err := a.st.SaveCourse(ctx, c.Snapshot()); err != nil {
			return err
		}
	}
	return printSettings(cmd.OutOrStdout(), c.Settings())
}
