package timeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
	"github.com/rahimnathwani/mathacademy-stats/internal/ui/theme"
)

const recentDays = 28

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Timeline(ctx context.Context, filter statsdto.Filter) ([]statsdto.TimelinePointOutput, error)
	Transitions(ctx context.Context) ([]statsdto.TransitionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type TimelineLoadedMsg struct {
	Points []statsdto.TimelinePointOutput
	Err    error
}

type TransitionsLoadedMsg struct {
	Transitions []statsdto.TransitionOutput
	Err         error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        StatsPort
	body        viewport.Model
	spinner     spinner.Model
	points      []statsdto.TimelinePointOutput
	transitions []statsdto.TransitionOutput
	loading     bool
	loadErr     error
	width       int
	height      int
}

func New(port StatsPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	return Model{port: port, body: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.loadTransitionsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = m.width - 4
		m.body.Height = m.height - 4
		m.body.SetContent(m.renderBody())

	case TimelineLoadedMsg:
		m.loading = false
		m.points = msg.Points
		m.loadErr = msg.Err
		m.body.SetContent(m.renderBody())

	case TransitionsLoadedMsg:
		if msg.Err == nil {
			m.transitions = msg.Transitions
			m.body.SetContent(m.renderBody())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var vCmd tea.Cmd
		m.body, vCmd = m.body.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading timeline…")
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(m.body.View())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderBody() string {
	if m.loadErr != nil {
		return theme.Muted.Render("timeline: " + m.loadErr.Error())
	}
	if len(m.points) == 0 {
		return theme.Muted.Render("No cached activity yet. Run `mastats sync` first.")
	}

	recent := m.points
	if len(recent) > recentDays {
		recent = recent[len(recent)-recentDays:]
	}

	var sb strings.Builder
	last := m.points[len(m.points)-1]
	sb.WriteString(theme.Title.Render("XP timeline") + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d days  ·  %.0f xp total  ·  %d activities\n\n",
		len(m.points), last.CumulativeXP, last.CumulativeCount)))

	sb.WriteString(" " + sparkline(dailyValues(recent)) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf(" last %d days\n\n", len(recent))))

	sb.WriteString(fmt.Sprintf(" %-10s  %8s  %8s  %8s\n", "date", "xp", "avg7", "earn7%"))
	for i := len(recent) - 1; i >= 0; i-- {
		p := recent[i]
		sb.WriteString(fmt.Sprintf(" %-10s  %8.1f  %8.1f  %7.1f%%\n",
			p.Date, p.DailyXP, p.RollingAvgXP, p.RollingPctEarned))
	}

	if len(m.transitions) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Course transitions") + "\n")
		for _, tr := range m.transitions {
			sb.WriteString(fmt.Sprintf(" %s  %s\n", tr.At.Format("2006-01-02"), tr.Label))
		}
	}
	return sb.String()
}

func dailyValues(points []statsdto.TimelinePointOutput) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.DailyXP
	}
	return out
}

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	runes := make([]rune, 0, len(values))
	for _, v := range values {
		idx := 0
		if max > 0 {
			idx = int(v / max * float64(len(sparkRunes)-1))
		}
		if idx < 0 {
			idx = 0
		}
		runes = append(runes, sparkRunes[idx])
	}
	return string(runes)
}

// Reload fetches the full timeline from the cache.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return TimelineLoadedMsg{}
		}
		points, err := m.port.Timeline(context.Background(), statsdto.Filter{})
		return TimelineLoadedMsg{Points: points, Err: err}
	}
}

func (m Model) loadTransitionsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return TransitionsLoadedMsg{}
		}
		transitions, err := m.port.Transitions(context.Background())
		return TransitionsLoadedMsg{Transitions: transitions, Err: err}
	}
}
