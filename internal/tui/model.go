package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barqfleet/dispatch-core/internal/grid"
	"github.com/barqfleet/dispatch-core/internal/reposition"
)

const refreshInterval = 2 * time.Second

// Snapshot is everything one dashboard refresh needs, decoupled from the
// engine package so this view never imports its orchestration internals.
type Snapshot struct {
	Coverage grid.Report
	History  []reposition.CycleResult
	Active   map[string]reposition.ActiveEntry
	Err      error
}

// Poller supplies a fresh Snapshot on every tick.
type Poller func() Snapshot

type tickMsg time.Time

type snapshotMsg Snapshot

// Model is the bubbletea program backing `barqctl top`.
type Model struct {
	poll   Poller
	width  int
	height int
	last   Snapshot
}

// New builds the dashboard model around a Poller callback.
func New(poll Poller) Model {
	return Model{poll: poll}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) }))
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg { return snapshotMsg(m.poll()) }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) }))

	case snapshotMsg:
		m.last = Snapshot(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading fleet status..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("BARQ / BULLET fleet dashboard") + "\n\n")

	if m.last.Err != nil {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("fleet status unavailable: %v", m.last.Err)) + "\n")
	} else {
		b.WriteString(m.renderCoverage())
		b.WriteString("\n")
		b.WriteString(m.renderActive())
		b.WriteString("\n")
		b.WriteString(m.renderHistory())
	}

	b.WriteString("\n" + statusBarStyle.Render("[q] quit"))
	return b.String()
}

func (m Model) renderCoverage() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Coverage") + "\n")
	b.WriteString(fmt.Sprintf("overall %.0f%%  barq %.0f%%  bullet %.0f%%\n",
		m.last.Coverage.OverallCoverage*100, m.last.Coverage.BarqCoverage*100, m.last.Coverage.BulletCoverage*100))

	for _, c := range m.last.Coverage.Cells {
		label := lipgloss.NewStyle().Foreground(coverageColor(string(c.Classification))).Render(string(c.Classification))
		b.WriteString(fmt.Sprintf("  %s  %-12s barq=%d bullet=%d\n", c.Cell.ID, label, c.BarqDrivers, c.BulletDrivers))
	}
	return panelStyle.Render(b.String())
}

func (m Model) renderActive() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Active repositioning (%d)", len(m.last.Active))) + "\n")
	for driverID, entry := range m.last.Active {
		b.WriteString(fmt.Sprintf("  %s -> %s (%s, started %s ago)\n",
			driverID, entry.Action.GridID, entry.Status, time.Since(entry.StartedAt).Round(time.Second)))
	}
	return panelStyle.Render(b.String())
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent rebalance cycles") + "\n")
	for _, cycle := range m.last.History {
		b.WriteString(fmt.Sprintf("  %s  success=%.0f%%  ok=%d failed=%d declined=%d\n",
			cycle.Timestamp.Format(time.Kitchen), cycle.SuccessRate*100,
			len(cycle.Successful), len(cycle.Failed), len(cycle.Declined)))
	}
	return panelStyle.Render(b.String())
}
