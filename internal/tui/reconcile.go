package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/stats"
)

var resolutionKeys = map[string]importer.Resolution{
	"c": importer.Cover,
	"s": importer.Skip,
	"C": importer.CoverAll,
	"S": importer.SkipAll,
}

// ReconcileModel asks how each duplicate of an import should be resolved.
type ReconcileModel[R model.Record] struct {
	rec     *importer.Reconciler[R]
	total   int
	aborted bool
	errMsg  string

	width  int
	height int
}

// NewReconcile constructs a duplicate resolution screen for rec.
func NewReconcile[R model.Record](rec *importer.Reconciler[R]) *ReconcileModel[R] {
	return &ReconcileModel[R]{rec: rec, total: rec.Remaining()}
}

// Aborted reports whether the user left before resolving every duplicate.
func (m *ReconcileModel[R]) Aborted() bool {
	return m.aborted
}

// Init implements tea.Model.
func (m *ReconcileModel[R]) Init() tea.Cmd {
	if m.rec.Done() {
		return tea.Quit
	}
	return nil
}

// Update implements tea.Model.
func (m *ReconcileModel[R]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.aborted = !m.rec.Done()
			return m, tea.Quit
		}
		res, ok := resolutionKeys[msg.String()]
		if !ok {
			return m, nil
		}
		if err := m.rec.Decide(res); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		if m.rec.Done() {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *ReconcileModel[R]) View() string {
	cand, cur, ok := m.rec.Pending()
	if !ok {
		return ""
	}
	var b strings.Builder
	done := m.total - m.rec.Remaining()
	b.WriteString(promptStyle.Render(fmt.Sprintf("Duplicate %d/%d: %s", done+1, m.total, cand.Key())))
	b.WriteString("\n\n")
	b.WriteString(compareFields(cur, cand))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("c: cover  s: skip  C: cover all  S: skip all  q: cancel import"))
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	content := modalStyle.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// compareFields renders the stored and imported values side by side, marking
// the ones the import would change.
func compareFields(current, candidate model.Record) string {
	cf, nf := fields(current), fields(candidate)
	rows := make([][]string, 0, len(nf))
	for i, f := range nf {
		old := ""
		if i < len(cf) {
			old = cf[i].value
		}
		mark := ""
		if old != f.value {
			mark = "*"
		}
		rows = append(rows, []string{mark + f.label, old, f.value})
	}
	return strings.Join(stats.FormatTable([]string{"", "current", "imported"}, rows, nil), "\n")
}
