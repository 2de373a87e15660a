package frontier

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	frontierdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/dto"
	"github.com/rahimnathwani/mathacademy-stats/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type FrontierPort interface {
	Rank(ctx context.Context, input frontierdto.RankInput) ([]frontierdto.RankedTopicOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type FrontierLoadedMsg struct {
	Topics []frontierdto.RankedTopicOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type topicItem struct {
	topic frontierdto.RankedTopicOutput
}

func (i topicItem) Title() string { return i.topic.Name }
func (i topicItem) Description() string {
	if !i.topic.HasKey {
		return "no prerequisite data"
	}
	return fmt.Sprintf("key %.2f  ·  %d prereqs", i.topic.SortKey, len(i.topic.Prereqs))
}
func (i topicItem) FilterValue() string { return i.topic.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    FrontierPort
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port FrontierPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Frontier"
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
	return tea.Batch(m.Reload(0), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case FrontierLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Frontier — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Frontier"
		items := make([]list.Item, len(msg.Topics))
		for i, t := range msg.Topics {
			items[i] = topicItem{topic: t}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)

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
			m.spinner.View()+" Ranking frontier topics…")
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
	item, ok := m.list.SelectedItem().(topicItem)
	if !ok {
		return theme.Muted.Render("No frontier topics. Check student and course ids in config.")
	}
	t := item.topic

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(t.Name) + "\n")
	if t.HasKey {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("priority key %.2f\n\n", t.SortKey)))
		sb.WriteString(fmt.Sprintf(" reps       min %.1f  median %.1f  mean %.1f  max %.1f\n",
			t.RepMin, t.RepMedian, t.RepMean, t.RepMax))
		sb.WriteString(fmt.Sprintf(" half-life  min %.1f  median %.1f  mean %.1f  max %.1f\n\n",
			t.HLMin, t.HLMedian, t.HLMean, t.HLMax))
	} else {
		sb.WriteString(theme.Muted.Render("no prerequisite repetition data\n\n"))
	}

	sb.WriteString(theme.Title.Render("Prerequisites") + "\n")
	if len(t.Prereqs) == 0 {
		sb.WriteString(theme.Muted.Render(" none\n"))
	}
	for _, p := range t.Prereqs {
		if p.Missing {
			sb.WriteString(fmt.Sprintf(" ✗  %d %s\n", p.ID, theme.Muted.Render("(missing from graph)")))
			continue
		}
		reps := "—"
		if p.Reps != nil {
			reps = fmt.Sprintf("%.1f", *p.Reps)
		}
		hl := "—"
		if p.HalfLife != nil {
			hl = fmt.Sprintf("%.1f", *p.HalfLife)
		}
		sb.WriteString(fmt.Sprintf(" ○  %s  reps %s  hl %s\n", p.Name, reps, hl))
	}
	return sb.String()
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload re-ranks the frontier. A non-positive limit keeps every topic.
func (m Model) Reload(limit int) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return FrontierLoadedMsg{}
		}
		topics, err := m.port.Rank(context.Background(), frontierdto.RankInput{Limit: limit})
		return FrontierLoadedMsg{Topics: topics, Err: err}
	}
}
