package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/bacalhau-project/convergence/pkg/lifecycle"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type DisplayColumn struct {
	Title string
	Width int
}

var WatchColumns = []DisplayColumn{
	{Title: "Resource", Width: 30},
	{Title: "State", Width: 14},
	{Title: "Attempts", Width: 10},
	{Title: "Elapsed", Width: 10},
	{Title: "Budget", Width: 24},
	{Title: "Last Error", Width: 40},
}

// AttemptMsg carries a poll attempt into the watch model.
type AttemptMsg poller.Attempt

// ResultMsg carries the final result of one resource.
type ResultMsg lifecycle.Result

type watchRow struct {
	id       string
	attempts int
	elapsed  time.Duration
	lastErr  string
	finished bool
	outcome  poller.Outcome
}

func (r *watchRow) state() string {
	if r.finished {
		return r.outcome.String()
	}
	if r.attempts == 0 {
		return "waiting"
	}
	return "polling"
}

// WatchModel renders one row per resource while AwaitAll runs and quits once
// every resource has a result.
type WatchModel struct {
	Title    string
	MaxWait  time.Duration
	Quitting bool
	// Cancel is called when the user quits early.
	Cancel func()

	rows    map[string]*watchRow
	order   []string
	spinner spinner.Model
}

func NewWatchModel(title string, ids []string, maxWait time.Duration) *WatchModel {
	m := &WatchModel{
		Title:   title,
		MaxWait: maxWait,
		rows:    make(map[string]*watchRow, len(ids)),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	for _, id := range ids {
		if _, ok := m.rows[id]; ok {
			continue
		}
		m.rows[id] = &watchRow{id: id}
		m.order = append(m.order, id)
	}
	return m
}

func (m *WatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			if m.Cancel != nil {
				m.Cancel()
			}
			return m, tea.Quit
		}
	case AttemptMsg:
		if row, ok := m.rows[msg.ResourceID]; ok {
			row.attempts = msg.Number
			row.elapsed = msg.Elapsed
			if msg.Err != nil {
				row.lastErr = fmt.Sprintf("%s: %v", msg.Class, msg.Err)
			} else {
				row.lastErr = ""
			}
		}
		return m, nil
	case ResultMsg:
		if row, ok := m.rows[msg.ID]; ok {
			row.finished = true
			row.outcome = msg.Outcome
		}
		if m.allFinished() {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *WatchModel) allFinished() bool {
	for _, row := range m.rows {
		if !row.finished {
			return false
		}
	}
	return true
}

func (m *WatchModel) View() string {
	tableStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))
	cellStyle := lipgloss.NewStyle().
		PaddingLeft(1)
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)

	var tableStr string
	var headerRow string
	for _, col := range WatchColumns {
		headerRow += headerStyle.Width(col.Width).MaxWidth(col.Width).Render(col.Title)
	}
	tableStr += headerRow + "\n"

	for _, id := range m.order {
		row := m.rows[id]
		state := row.state()
		if !row.finished {
			state = m.spinner.View() + state
		}
		rowData := []string{
			row.id,
			state,
			fmt.Sprintf("%d", row.attempts),
			row.elapsed.Truncate(time.Second).String(),
			renderProgressBar(row.elapsed, m.MaxWait, WatchColumns[4].Width-2),
			row.lastErr,
		}

		var rowStr string
		for i, cell := range rowData {
			rowStr += cellStyle.
				Width(WatchColumns[i].Width).
				MaxWidth(WatchColumns[i].Width).
				Render(cell)
		}
		tableStr += rowStr + "\n"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(m.Title),
		tableStyle.Render(strings.TrimSuffix(tableStr, "\n")),
		infoStyle.Render("Press 'q' or Ctrl+C to stop waiting"),
	)
}

func renderProgressBar(elapsed, budget time.Duration, width int) string {
	if budget <= 0 || width <= 0 {
		return ""
	}
	ratio := float64(elapsed) / float64(budget)
	if ratio > 1 {
		ratio = 1
	}
	filledWidth := int(ratio * float64(width))
	emptyWidth := width - filledWidth

	filled := lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Render(strings.Repeat("█", filledWidth))
	empty := lipgloss.NewStyle().
		Foreground(lipgloss.Color("237")).
		Render(strings.Repeat("░", emptyWidth))

	return filled + empty
}
