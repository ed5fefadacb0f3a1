// Package tui provides the Bubble Tea review, import and list interfaces.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/benkyo/internal/grade"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/review"
	"github.com/verte-zerg/benkyo/internal/stats"
)

// StatsSource supplies the daily counters shown in the footer.
type StatsSource interface {
	LoadDailyStats(ctx context.Context) (model.DailyStats, error)
}

// ReviewConfig wires a review screen.
type ReviewConfig struct {
	Reviewer *review.Reviewer
	Stats    StatsSource
	Scope    model.Scope
	Goal     int
	// Pending, when set, is offered for resumption before anything starts.
	Pending *model.SessionState
	// Fresh starts a new session.
	Fresh func(ctx context.Context) (*review.Session, error)
	Now   func() time.Time
}

type phase int

const (
	phasePrompt phase = iota
	phaseAsk
	phaseFeedback
	phaseDone
	phaseFailed
)

// ReviewModel implements the Bubble Tea quiz UI.
type ReviewModel struct {
	ctx     context.Context
	cfg     ReviewConfig
	session *review.Session
	input   textinput.Model

	phase phase
	err   error

	width  int
	height int

	today model.DayStats
}

// NewReview constructs a review screen. Without pending progress the fresh
// session is started immediately.
func NewReview(ctx context.Context, cfg ReviewConfig) *ReviewModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "answer"
	input.CharLimit = 0
	m := &ReviewModel{ctx: ctx, cfg: cfg, input: input}
	if err := m.loadToday(); err != nil {
		m.fail(err)
		return m
	}
	if cfg.Pending != nil && cfg.Pending.Resumable() {
		m.phase = phasePrompt
		return m
	}
	m.startFresh()
	return m
}

// Session returns the active session, if one was started.
func (m *ReviewModel) Session() *review.Session {
	return m.session
}

// Err returns the error that stopped the screen, if any.
func (m *ReviewModel) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *ReviewModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.contentWidth()-4)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.phase {
		case phasePrompt:
			return m.updatePrompt(msg)
		case phaseAsk:
			return m.updateAsk(msg)
		case phaseFeedback:
			return m.updateFeedback(msg)
		default:
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ReviewModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.session = m.cfg.Reviewer.Resume(*m.cfg.Pending)
		m.enterAsk()
	case "n":
		m.startFresh()
	}
	return m, nil
}

func (m *ReviewModel) updateAsk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if _, err := m.session.Grade(m.ctx, m.input.Value()); err != nil {
			m.fail(err)
			return m, nil
		}
		if err := m.loadToday(); err != nil {
			m.fail(err)
			return m, nil
		}
		m.phase = phaseFeedback
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlN:
		m.advance()
		return m, nil
	case tea.KeyCtrlD:
		if err := m.session.Discard(m.ctx); err != nil {
			m.fail(err)
			return m, nil
		}
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ReviewModel) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyCtrlN, tea.KeySpace:
		m.advance()
	case tea.KeyCtrlD:
		if err := m.session.Discard(m.ctx); err != nil {
			m.fail(err)
			return m, nil
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m *ReviewModel) startFresh() {
	sess, err := m.cfg.Fresh(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.session = sess
	m.enterAsk()
}

func (m *ReviewModel) advance() {
	if err := m.session.Advance(m.ctx); err != nil {
		m.fail(err)
		return
	}
	if m.session.Status() == review.Complete {
		m.phase = phaseDone
		return
	}
	m.enterAsk()
}

func (m *ReviewModel) enterAsk() {
	m.phase = phaseAsk
	m.input.SetValue("")
	m.input.Focus()
}

func (m *ReviewModel) fail(err error) {
	m.phase = phaseFailed
	m.err = err
}

func (m *ReviewModel) loadToday() error {
	if m.cfg.Stats == nil {
		return nil
	}
	daily, err := m.cfg.Stats.LoadDailyStats(m.ctx)
	if err != nil {
		return fmt.Errorf("load daily stats: %w", err)
	}
	m.today = daily[model.DayKey(m.now())]
	return nil
}

func (m *ReviewModel) now() time.Time {
	if m.cfg.Now != nil {
		return m.cfg.Now()
	}
	return time.Now()
}

// View implements tea.Model.
func (m *ReviewModel) View() string {
	content := m.renderBody()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	content = lipgloss.NewStyle().Width(m.contentWidth()).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *ReviewModel) contentWidth() int {
	return max(1, int(float64(m.width)*0.70))
}

// wrapWidth is 0, meaning no wrapping, until the terminal size is known.
func (m *ReviewModel) wrapWidth() int {
	if m.width == 0 {
		return 0
	}
	return m.contentWidth()
}

func (m *ReviewModel) renderBody() string {
	switch m.phase {
	case phasePrompt:
		idx, total := m.cfg.Pending.Index, len(m.cfg.Pending.Items)
		return modalStyle.Render(fmt.Sprintf("Unfinished %s session at %d/%d.\n\nResume? [y/n]", m.cfg.Scope.Label(), idx+1, total))
	case phaseFailed:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n\n" + labelStyle.Render("press any key to exit")
	case phaseDone:
		return promptStyle.Render("Session complete.") + "\n\n" + labelStyle.Render("press any key to exit")
	}
	item, ok := m.session.Current()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.cfg.Scope.Label()))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(wrapText(item.Key(), m.wrapWidth())))
	b.WriteString("\n\n")
	if m.phase == phaseAsk {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("enter: check  ctrl+n: skip  ctrl+d: discard  esc: quit"))
		return b.String()
	}
	res, answer, _ := m.session.LastResult()
	b.WriteString(renderFeedback(item, res, answer, m.wrapWidth()))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("enter: next  ctrl+d: discard  esc: quit"))
	return b.String()
}

func renderFeedback(item model.Item, res grade.Result, answer string, width int) string {
	var b strings.Builder
	switch res {
	case grade.Exact:
		b.WriteString(exactStyle.Render("Correct"))
	case grade.Similar:
		b.WriteString(similarStyle.Render("Close"))
	default:
		b.WriteString(incorrectStyle.Render("Wrong"))
	}
	if res != grade.Exact {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("answer: "))
		b.WriteString(wrapStyledRunes(buildDiffRunes([]rune(item.Answer()), []rune(answer)), width))
	}
	if f := extra(item.Record); f.value != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(f.label + ": "))
		b.WriteString(wrapText(f.value, width))
	}
	return b.String()
}

func (m *ReviewModel) renderFooter() string {
	if m.session == nil {
		return ""
	}
	index, total := m.session.Position()
	segments := []string{fmt.Sprintf("Item %d/%d", min(index+1, total), total)}
	if m.cfg.Goal > 0 {
		segments = append(segments, fmt.Sprintf("Today %d/%d · %d%%", m.today.Total, m.cfg.Goal, stats.GoalPercent(m.today.Total, m.cfg.Goal)))
	}
	segments = append(segments, fmt.Sprintf("Correct %d", m.today.Correct))
	return footerStyle.Render(strings.Join(segments, "  "))
}
