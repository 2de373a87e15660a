package courses

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
	"github.com/rahimnathwani/mathacademy-stats/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Courses(ctx context.Context, filter statsdto.Filter) ([]statsdto.CourseStatsOutput, error)
	TypeCounts(ctx context.Context, filter statsdto.Filter) (statsdto.TypeCountsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type CoursesLoadedMsg struct {
	Courses []statsdto.CourseStatsOutput
	Period  string
	Err     error
}

type TypeCountsLoadedMsg struct {
	Counts statsdto.TypeCountsOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type courseItem struct {
	stats statsdto.CourseStatsOutput
}

func (i courseItem) Title() string { return i.stats.Course }
func (i courseItem) Description() string {
	return fmt.Sprintf("%d activities  ·  median %.2f xp/min", i.stats.Count, i.stats.P50)
}
func (i courseItem) FilterValue() string { return i.stats.Course }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    StatsPort
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	counts  statsdto.TypeCountsOutput
	period  string
	loading bool
	width   int
	height  int
}

func New(port StatsPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Courses"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(""), m.loadTypeCountsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case CoursesLoadedMsg:
		m.loading = false
		m.period = msg.Period
		if msg.Err != nil {
			m.list.Title = "Courses — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = coursesTitle(msg.Period)
		items := make([]list.Item, len(msg.Courses))
		for i, c := range msg.Courses {
			items[i] = courseItem{stats: c}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case TypeCountsLoadedMsg:
		if msg.Err == nil {
			m.counts = msg.Counts
			m.detail.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if msg.String() == "enter" {
			m.detail.SetContent(m.renderDetail())
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)

		// Selection may have moved; keep the detail pane in step.
		m.detail.SetContent(m.renderDetail())

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading course stats…")
	}

	listW := m.width * 40 / 100
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 40 / 100
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(courseItem)
	if !ok {
		return theme.Muted.Render("No cached activity yet. Run `mastats sync` first.")
	}
	s := item.stats

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Course) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d timed activities\n\n", s.Count)))
	sb.WriteString(fmt.Sprintf(" p25  %6.2f xp/min\n", s.P25))
	sb.WriteString(fmt.Sprintf(" p50  %6.2f xp/min\n", s.P50))
	sb.WriteString(fmt.Sprintf(" p75  %6.2f xp/min\n\n", s.P75))

	thresholds := make([]float64, 0, len(s.PctThreshold))
	for t := range s.PctThreshold {
		thresholds = append(thresholds, t)
	}
	sort.Float64s(thresholds)
	for _, t := range thresholds {
		sb.WriteString(fmt.Sprintf(" ≥%.2f xp/min  %5.1f%%\n", t, s.PctThreshold[t]))
	}

	sb.WriteString("\n" + theme.Title.Render("Activity mix") + "\n")
	sb.WriteString(fmt.Sprintf(" lessons %d  reviews %d  multistep %d\n",
		m.counts.Lesson, m.counts.Review, m.counts.Multistep))
	sb.WriteString(fmt.Sprintf(" quizzes %d  diagnostics %d\n",
		m.counts.Quiz, m.counts.Diagnostic))
	return sb.String()
}

func coursesTitle(period string) string {
	if period == "" || period == "all" {
		return "Courses"
	}
	return "Courses (" + period + ")"
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload fetches course stats for the given period. An empty period means
// the whole cache.
func (m Model) Reload(period string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return CoursesLoadedMsg{Period: period}
		}
		courses, err := m.port.Courses(context.Background(), statsdto.Filter{Period: period})
		return CoursesLoadedMsg{Courses: courses, Period: period, Err: err}
	}
}

func (m Model) loadTypeCountsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return TypeCountsLoadedMsg{}
		}
		counts, err := m.port.TypeCounts(context.Background(), statsdto.Filter{})
		return TypeCountsLoadedMsg{Counts: counts, Err: err}
	}
}
