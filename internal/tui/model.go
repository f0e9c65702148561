// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/drill"
	"github.com/verte-zerg/wordbin/internal/model"
	statsPkg "github.com/verte-zerg/wordbin/internal/stats"
	"github.com/verte-zerg/wordbin/internal/store"
)

const (
	binBarWidth    = 24
	difficultWords = 5
)

// CourseListID is the list ID recorded for course lessons.
const CourseListID = "course"

type viewState int

const (
	stateAsking viewState = iota
	stateFinished
	stateFailed
)

// Config holds the settings of a drill run.
type Config struct {
	// ListID names the drilled list; it is empty in course mode.
	ListID string
	// Course is set in course mode. Answers are recorded to it and a
	// finished lesson can be followed by the next one.
	Course    *course.Course
	ShowHint  bool
	Question1 string
	Question2 string
	// Resume carries the counters of an interrupted drill.
	Resume *store.ActiveSession
	Logger *zap.Logger
	Now    func() time.Time
}

type feedback struct {
	question string
	given    string
	answer   string
	correct  bool
	hint     string
}

// Model implements the Bubble Tea drill UI.
type Model struct {
	cfg     Config
	store   *store.Store
	session *drill.Session
	log     *zap.Logger
	now     func() time.Time

	input textinput.Model
	state viewState
	last  *feedback
	err   string

	width  int
	height int

	startedAt time.Time
	asked     int
	correct   int
	lessons   int

	todayCorrect int
	streak       int
	daily        map[string]int
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	rightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a drill TUI model over a prepared session.
func NewModel(st *store.Store, session *drill.Session, cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	m := &Model{
		cfg:     cfg,
		store:   st,
		session: session,
		log:     cfg.Logger,
		now:     cfg.Now,
		daily:   map[string]int{},
	}
	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Focus()

	m.startedAt = m.now()
	if cfg.Resume != nil {
		m.startedAt = cfg.Resume.StartedAt
		m.asked = cfg.Resume.Asked
		m.correct = cfg.Resume.Correct
	}
	m.loadFooterStats()
	if _, ok := session.Current(); !ok || session.Answered() {
		m.selectNext()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, m.contentWidth()-lipgloss.Width(m.input.Prompt)-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.interrupt()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}
		if m.state != stateAsking {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateAsking:
		m.submit()
		return m, nil
	case stateFinished:
		if m.cfg.Course == nil {
			return m, tea.Quit
		}
		m.nextLesson()
		return m, nil
	default:
		return m, tea.Quit
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	width := m.contentWidth()
	content = lipgloss.NewStyle().Width(width).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	width := int(float64(m.width) * 0.70)
	if width < 1 {
		width = 1
	}
	return width
}

func (m *Model) renderContent() string {
	switch m.state {
	case stateFinished:
		return m.renderFinished()
	case stateFailed:
		return incorrectStyle.Render(m.err) + "\n\n" + pendingStyle.Render("Press enter to quit.")
	}
	width := 0
	if m.width > 0 {
		width = m.contentWidth()
	}
	parts := []string{renderBins(m.session.Population(), m.session.Bins(), m.session.WordCount())}
	if fb := m.renderFeedback(width); fb != "" {
		parts = append(parts, fb)
	}
	question := wrapStyledRunes(plainRunes(m.session.Question(), questionStyle), width)
	parts = append(parts, question+"\n"+m.input.View())
	if m.err != "" {
		parts = append(parts, incorrectStyle.Render(m.err))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderFeedback(width int) string {
	if m.last == nil {
		return ""
	}
	if m.last.correct {
		return rightStyle.Render("Correct!")
	}
	lines := []string{
		incorrectStyle.Render("Wrong: ") + wrapStyledRunes(diffAnswer(m.last.given, m.last.answer), width),
		pendingStyle.Render(m.last.question+" -> ") + correctStyle.Render(m.last.answer),
	}
	if m.cfg.ShowHint && m.last.hint != "" {
		lines = append(lines, pendingStyle.Render(m.last.hint))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFinished() string {
	lines := []string{
		rightStyle.Render("Well done! Every word reached the last bin."),
		fmt.Sprintf("%d words, %d answers, %.1f%% correct",
			m.session.WordCount(), m.asked, statsPkg.SessionAccuracy(m.correct, m.asked-m.correct)*100),
	}
	difficult := m.session.MostDifficult(difficultWords)
	if len(difficult) > 0 && difficult[0].Attempts > 1 {
		lines = append(lines, "", pendingStyle.Render("Most difficult:"))
		for _, w := range difficult {
			if w.Attempts <= 1 {
				break
			}
			lines = append(lines, fmt.Sprintf("  %s -> %s (%d attempts)", w.Pair.Question, w.Pair.Answer, w.Attempts))
		}
	}
	help := "Press enter or q to quit."
	if m.cfg.Course != nil {
		help = "Press enter for the next lesson, q to quit."
	}
	lines = append(lines, "", pendingStyle.Render(help))
	return strings.Join(lines, "\n")
}

// renderBins draws one bar per bin, scaled to the number of words.
func renderBins(pop drill.Population, bins, total int) string {
	lines := make([]string, 0, bins)
	for b := 0; b < bins; b++ {
		count := pop[b]
		filled := 0
		if total > 0 {
			filled = count * binBarWidth / total
		}
		if count > 0 && filled == 0 {
			filled = 1
		}
		style := pendingStyle
		if b == bins-1 {
			style = rightStyle
		}
		bar := style.Render(strings.Repeat("█", filled)) + footerStyle.Render(strings.Repeat("░", binBarWidth-filled))
		lines = append(lines, fmt.Sprintf("%d %s %d", b, bar, count))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	total := m.session.WordCount()
	progress := 0
	if total > 0 {
		progress = m.session.BinCount(m.session.Bins()-1) * 100 / total
	}
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if m.asked > 0 {
		acc := statsPkg.SessionAccuracy(m.correct, m.asked-m.correct)
		segments = append(segments, fmt.Sprintf("Answers %d · %.1f%%", m.asked, acc*100))
	}
	segments = append(segments,
		fmt.Sprintf("Today %d/%d", m.todayCorrect, statsPkg.DailyGoal),
		fmt.Sprintf("Streak %dd", m.streak),
	)
	if m.cfg.Course != nil {
		segments = append(segments, fmt.Sprintf("Lesson %d", m.lessons+1))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) submit() {
	given := strings.TrimSpace(m.input.Value())
	if given == "" {
		return
	}
	word, ok := m.session.Current()
	if !ok {
		return
	}
	correct, err := m.session.Evaluate(given)
	if err != nil {
		m.log.Error("failed to evaluate answer", zap.Error(err))
		m.err = err.Error()
		return
	}
	m.err = ""
	m.input.SetValue("")
	m.asked++
	m.last = &feedback{
		question: word.Pair.Question,
		given:    given,
		answer:   word.Pair.Answer,
		correct:  correct,
		hint:     m.session.Hint(),
	}
	if m.cfg.Course != nil {
		m.cfg.Course.Record(word.Pair.Question, correct)
	}
	if correct {
		m.correct++
		m.addDailyCorrect()
	}

	if m.session.IsFinished() {
		m.finishSession()
		return
	}
	m.selectNext()
}

func (m *Model) selectNext() {
	if err := m.session.SelectNext(); err != nil {
		m.log.Error("failed to select question", zap.Error(err))
		m.state = stateFailed
		m.err = err.Error()
		if errors.Is(err, drill.ErrNoCandidate) {
			m.err = "No word can be asked any more."
		}
		return
	}
	m.state = stateAsking
}

func (m *Model) addDailyCorrect() {
	now := m.now()
	if m.store != nil {
		if err := m.store.AddDailyCorrect(context.Background(), now, 1); err != nil {
			m.log.Warn("failed to save daily progress", zap.Error(err))
		}
	}
	m.daily[model.DayKey(now)]++
	m.todayCorrect = m.daily[model.DayKey(now)]
	m.streak = statsPkg.Streak(m.daily, now, statsPkg.DailyGoal)
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	now := m.now()
	daily, err := m.store.ListDaily(context.Background(), now.AddDate(0, 0, -statsPkg.StreakWindow))
	if err != nil {
		m.log.Warn("failed to load daily progress", zap.Error(err))
		return
	}
	m.daily = daily
	m.todayCorrect = daily[model.DayKey(now)]
	m.streak = statsPkg.Streak(daily, now, statsPkg.DailyGoal)
}

func (m *Model) finishSession() {
	m.state = stateFinished
	m.input.Blur()
	if m.store == nil {
		return
	}
	ctx := context.Background()
	results := m.session.Results()
	words := make([]model.WordStats, 0, len(results))
	for _, r := range results {
		words = append(words, model.WordStats{
			Question: r.Pair.Question,
			Answer:   r.Pair.Answer,
			Attempts: r.Attempts,
			Correct:  r.Correct,
			Bin:      r.Bin,
		})
	}
	stats := model.SessionStats{
		StartedAt: m.startedAt,
		EndedAt:   m.now(),
		ListID:    m.listID(),
		Words:     m.session.WordCount(),
		Bins:      m.session.Bins(),
		Asked:     m.asked,
		Correct:   m.correct,
		Incorrect: m.asked - m.correct,
		Finished:  true,
	}
	if _, err := m.store.InsertSession(ctx, stats, words); err != nil {
		m.log.Error("failed to save session", zap.Error(err))
	}
	if err := m.store.ClearActiveSession(ctx); err != nil {
		m.log.Warn("failed to clear active session", zap.Error(err))
	}
	m.saveCourse(ctx)
}

// nextLesson starts a new drill over the next composed course lesson.
func (m *Model) nextLesson() {
	pairs := m.cfg.Course.ComposeLesson()
	session, err := drill.NewSession(pairs,
		drill.WithBins(m.session.Bins()),
		drill.WithTemplates(m.cfg.Question1, m.cfg.Question2),
		drill.WithLogger(m.log),
	)
	if err != nil {
		m.log.Error("failed to start lesson", zap.Error(err))
		m.state = stateFailed
		m.err = fmt.Sprintf("failed to start lesson: %v", err)
		return
	}
	m.session = session
	m.lessons++
	m.last = nil
	m.asked = 0
	m.correct = 0
	m.startedAt = m.now()
	m.input.SetValue("")
	m.input.Focus()
	m.selectNext()
}

// interrupt stores an unfinished drill so that it can be resumed.
func (m *Model) interrupt() {
	if m.store == nil || m.state == stateFinished {
		return
	}
	ctx := context.Background()
	if m.asked > 0 {
		active := store.ActiveSession{
			ListID:    m.cfg.ListID,
			Course:    m.cfg.Course != nil,
			StartedAt: m.startedAt,
			Asked:     m.asked,
			Correct:   m.correct,
			Drill:     m.session.Snapshot(),
		}
		if err := m.store.SaveActiveSession(ctx, active); err != nil {
			m.log.Error("failed to save active session", zap.Error(err))
		}
	}
	m.saveCourse(ctx)
}

func (m *Model) saveCourse(ctx context.Context) {
	if m.cfg.Course == nil {
		return
	}
	if err := m.store.SaveCourse(ctx, m.cfg.Course.Snapshot()); err != nil {
		m.log.Error("failed to save course", zap.Error(err))
	}
}

func (m *Model) listID() string {
	if m.cfg.Course != nil {
		return CourseListID
	}
	return m.cfg.ListID
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
