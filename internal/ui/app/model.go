package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	activitydto "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/dto"
	statsdto "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/dto"
	"github.com/rahimnathwani/mathacademy-stats/internal/ui/components"
	"github.com/rahimnathwani/mathacademy-stats/internal/ui/theme"
	coursesview "github.com/rahimnathwani/mathacademy-stats/internal/ui/views/courses"
	frontierview "github.com/rahimnathwani/mathacademy-stats/internal/ui/views/frontier"
	timelineview "github.com/rahimnathwani/mathacademy-stats/internal/ui/views/timeline"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type activityPort interface {
	Sync(ctx context.Context) (activitydto.SyncOutput, error)
}

type overviewPort interface {
	Overview(ctx context.Context) (statsdto.OverviewOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabCourses tabID = iota
	tabTimeline
	tabFrontier
	tabCount
)

var tabLabels = [tabCount]string{
	"Courses", "Timeline", "Frontier",
}

// ─── async messages ───────────────────────────────────────────────────────────

type overviewLoadedMsg struct {
	overview statsdto.OverviewOutput
	err      error
}

type syncFinishedMsg struct {
	out activitydto.SyncOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Sync    key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Sync:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sync")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Sync, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the overview
// line, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering is delegated to
// sub-views.
type Model struct {
	activity activityPort
	stats    overviewPort

	// sub-views (one per tab)
	coursesView  coursesview.Model
	timelineView timelineview.Model
	frontierView frontierview.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	overview  statsdto.OverviewOutput
	hasCache  bool
	syncing   bool
	period    string
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	activity activityPort,
	stats coursesview.StatsPort,
	timeline timelineview.StatsPort,
	overview overviewPort,
	frontier frontierview.FrontierPort,
) Model {
	return Model{
		activity:     activity,
		stats:        overview,
		coursesView:  coursesview.New(stats),
		timelineView: timelineview.New(timeline),
		frontierView: frontierview.New(frontier),
		activeTab:    tabCourses,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.coursesView.Init(),
		m.timelineView.Init(),
		m.frontierView.Init(),
		m.loadOverviewCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case overviewLoadedMsg:
		if msg.err != nil {
			m.hasCache = false
			m.status = "no cached data yet, press S to sync"
		} else {
			m.hasCache = true
			m.overview = msg.overview
			m.status = "ready"
		}

	case syncFinishedMsg:
		m.syncing = false
		if msg.err != nil {
			m.status = "sync failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("sync done (%s): %d cached, %d new",
				msg.out.StopReason, msg.out.TotalCached, msg.out.NewRecords)
			cmds = append(cmds, m.reloadAll()...)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "S":
			if !m.syncing {
				m.syncing = true
				m.status = "syncing…"
				cmds = append(cmds, m.syncCmd())
			}
		case "r":
			m.status = "refreshing"
			cmds = append(cmds, m.reloadAll()...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabCourses:
		m.coursesView, tabCmd = m.coursesView.Update(msg)
	case tabTimeline:
		m.timelineView, tabCmd = m.timelineView.Update(msg)
	case tabFrontier:
		m.frontierView, tabCmd = m.frontierView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabCourses:
		return m.coursesView.View()
	case tabTimeline:
		return m.timelineView.View()
	case tabFrontier:
		return m.frontierView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "mastats  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasCache {
		left = theme.Hot.Render(fmt.Sprintf("● %s  %.0f xp", m.overview.CurrentCourse, m.overview.TotalXP)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "sync":
		if m.syncing {
			m.status = "sync already running"
			return m, nil
		}
		m.syncing = true
		m.status = "syncing…"
		return m, m.syncCmd()

	case "refresh":
		m.status = "refreshing"
		return m, tea.Batch(m.reloadAll()...)

	case "stats:period":
		if len(parts) < 2 {
			m.status = "usage: stats:period <all|7d|30d|90d|365d>"
			return m, nil
		}
		period := parts[1]
		if period == "all" {
			period = ""
		}
		m.period = period
		m.activeTab = tabCourses
		return m, m.coursesView.Reload(period)

	case "frontier:limit":
		if len(parts) < 2 {
			m.status = "usage: frontier:limit <n>"
			return m, nil
		}
		limit, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid limit"
			return m, nil
		}
		m.activeTab = tabFrontier
		return m, m.frontierView.Reload(limit)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabCourses:
		return m.coursesView.Filtering()
	case tabFrontier:
		return m.frontierView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.coursesView, _ = m.coursesView.Update(sz)
	m.timelineView, _ = m.timelineView.Update(sz)
	m.frontierView, _ = m.frontierView.Update(sz)
}

func (m Model) reloadAll() []tea.Cmd {
	return []tea.Cmd{
		m.coursesView.Reload(m.period),
		m.timelineView.Reload(),
		m.frontierView.Reload(0),
		m.loadOverviewCmd(),
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadOverviewCmd() tea.Cmd {
	return func() tea.Msg {
		if m.stats == nil {
			return overviewLoadedMsg{err: fmt.Errorf("stats port not configured")}
		}
		overview, err := m.stats.Overview(context.Background())
		return overviewLoadedMsg{overview: overview, err: err}
	}
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		if m.activity == nil {
			return syncFinishedMsg{err: fmt.Errorf("activity port not configured")}
		}
		out, err := m.activity.Sync(context.Background())
		return syncFinishedMsg{out: out, err: err}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
