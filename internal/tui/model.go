package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bgproc/internal/app"
)

const (
	rpcTimeout             = 4 * time.Second
	DefaultRefreshInterval = 2 * time.Second
)

// Options tunes the TUI at startup.
type Options struct {
	Refresh     time.Duration // poll interval, DefaultRefreshInterval when zero
	AllSessions bool          // start in all-sessions scope
}

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Status() (app.DaemonStatus, error)
	StartDaemon() (*app.DaemonHandle, error)
	List(context.Context, app.ListParams) ([]app.Process, error)
	Get(ctx context.Context, id string, timeout time.Duration) (app.Process, error)
	Kill(context.Context, app.KillParams) (app.KillResult, error)
}

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller
	daemon     *app.DaemonHandle // set when the TUI started the daemon itself

	list      list.Model
	processes []app.Process
	selected  map[string]bool

	detail *app.Process // full output of the process under the cursor

	daemonStatus app.DaemonStatus
	statusMsg    string

	err     error
	loading bool

	width  int
	height int

	filters app.ListFilters
	refresh time.Duration

	lastUpdated time.Time
}

// New constructs a TUI model with default styles.
func New(ctrl Controller, opts Options) *Model {
	delegate := list.NewDefaultDelegate()
	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Background processes"
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}

	return &Model{
		controller: ctrl,
		list:       lst,
		statusMsg:  "Checking daemon status…",
		loading:    true,
		selected:   make(map[string]bool),
		filters:    app.ListFilters{AllSessions: opts.AllSessions},
		refresh:    refresh,
	}
}

// Run spins up the Bubble Tea program. A daemon started from the TUI is
// shut down, with its processes, when the program exits.
func Run(ctrl Controller, opts Options) error {
	m := New(ctrl, opts)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	if cerr := m.daemon.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(checkDaemonStatusCmd(m.controller), loadProcessesCmd(m.controller, m.filters), tickCmd(m.refresh))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 16 {
			m.list.SetSize(msg.Width, msg.Height-16)
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refresh)}
		if m.daemonStatus.Running && !m.loading {
			cmds = append(cmds, loadProcessesCmd(m.controller, m.filters))
		}
		return m, tea.Batch(cmds...)

	case daemonStatusMsg:
		m.daemonStatus = msg.status
		if msg.status.Running {
			if msg.status.PID > 0 {
				m.statusMsg = fmt.Sprintf("Daemon running (pid %d).", msg.status.PID)
			} else {
				m.statusMsg = "Daemon running."
			}
		} else {
			m.statusMsg = fmt.Sprintf("Daemon is not running on %s. Press s to start it.", valueOrDash(msg.status.Socket))
			m.processes = nil
			m.list.SetItems(nil)
		}

	case processesLoadedMsg:
		m.loading = false
		m.err = nil
		m.setProcesses(msg.processes)
		m.lastUpdated = time.Now()

	case detailLoadedMsg:
		if cur := m.currentProcess(); cur != nil && cur.ID == msg.process.ID {
			p := msg.process
			m.detail = &p
		}

	case killedMsg:
		if len(msg.ids) == 0 {
			m.statusMsg = "Nothing to terminate."
		} else {
			m.statusMsg = fmt.Sprintf("Terminated %d process(es).", len(msg.ids))
		}
		for _, id := range msg.ids {
			delete(m.selected, id)
		}
		m.loading = true
		return m, loadProcessesCmd(m.controller, m.filters)

	case daemonStartedMsg:
		m.daemon = msg.handle
		m.statusMsg = "Daemon started."
		return m, tea.Batch(checkDaemonStatusCmd(m.controller), loadProcessesCmd(m.controller, m.filters))

	case errMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, tea.Batch(checkDaemonStatusCmd(m.controller), loadProcessesCmd(m.controller, m.filters))
		case "s":
			if !m.daemonStatus.Running {
				m.statusMsg = "Starting daemon…"
				return m, startDaemonCmd(m.controller)
			}
		case "a":
			m.filters.AllSessions = !m.filters.AllSessions
			m.loading = true
			return m, loadProcessesCmd(m.controller, m.filters)
		case "enter":
			if cur := m.currentProcess(); cur != nil {
				return m, loadDetailCmd(m.controller, cur.ID)
			}
		case " ":
			m.toggleCurrentSelection()
			return m, nil
		case "c":
			if len(m.selected) > 0 {
				m.clearSelection()
			}
		case "k":
			if cur := m.currentProcess(); cur != nil && !cur.Terminal() {
				m.statusMsg = fmt.Sprintf("Terminating %s…", cur.ID)
				return m, killCmd(m.controller, []string{cur.ID})
			}
			return m, nil
		case "x":
			if ids := m.selectedIDs(); len(ids) > 0 {
				m.statusMsg = fmt.Sprintf("Terminating %d marked process(es)…", len(ids))
				return m, killCmd(m.controller, ids)
			}
			return m, nil
		}
	}

	prev := m.list.Index()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.list.Index() != prev {
		m.detail = nil
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true)
	if !m.daemonStatus.Running {
		headerStyle = headerStyle.Foreground(lipgloss.Color("203"))
	} else {
		headerStyle = headerStyle.Foreground(lipgloss.Color("42"))
	}
	b.WriteString(headerStyle.Render(m.statusMsg))
	b.WriteByte('\n')

	if m.loading && len(m.processes) == 0 {
		b.WriteString("Loading processes…\n")
	} else if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	if len(m.list.Items()) == 0 && !m.loading && m.err == nil && m.daemonStatus.Running {
		b.WriteString("No processes found.\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteByte('\n')
	}

	if current := m.currentProcess(); current != nil {
		b.WriteString(m.renderDetail(*current))
		b.WriteByte('\n')
	}

	scope := "session"
	if m.filters.AllSessions {
		scope = "all sessions"
	}
	help := fmt.Sprintf("q quit • r reload • s start daemon • enter output • k kill • space mark • x kill marked • c clear • a scope (%s)", scope)
	if count := len(m.selected); count > 0 {
		help += fmt.Sprintf(" • marked=%d", count)
	}
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.Kitchen))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) renderDetail(p app.Process) string {
	output := p.Output
	if m.detail != nil && m.detail.ID == p.ID {
		output = m.detail.Output
	}
	header := fmt.Sprintf("id=%s pid=%d session=%s status=%s runtime=%s\ncmd=%s\ntags=[%s]",
		p.ID, p.PID, p.SessionID, statusStyle(p.Status).Render(p.Status),
		p.Runtime(time.Now()).Truncate(time.Second), p.Command, strings.Join(p.Tags, ","))
	if p.Error != "" {
		header += "\nerror=" + p.Error
	}
	body := "(no output)"
	if len(output) > 0 {
		body = strings.Join(output, "\n")
	}
	if len(output) < p.OutputLines {
		body = fmt.Sprintf("… %d earlier line(s)\n%s", p.OutputLines-len(output), body)
	}
	detailStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginBottom(1)
	if m.width > 4 {
		detailStyle = detailStyle.Width(m.width - 4)
	}
	return detailStyle.Render(header + "\n\n" + body)
}

func statusStyle(status string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch status {
	case "running":
		return s.Foreground(lipgloss.Color("42"))
	case "completed":
		return s.Foreground(lipgloss.Color("39"))
	case "failed":
		return s.Foreground(lipgloss.Color("203"))
	case "cancelled":
		return s.Foreground(lipgloss.Color("214"))
	default:
		return s.Foreground(lipgloss.Color("244"))
	}
}

// processItem adapts app.Process to the bubbles list item interface.
type processItem struct {
	Process  app.Process
	Selected bool
}

func (p processItem) Title() string {
	mark := " "
	if p.Selected {
		mark = "✓"
	}
	return fmt.Sprintf("[%s] %s (%s)", mark, valueOrDash(p.Process.Name), p.Process.Status)
}

func (p processItem) Description() string {
	return fmt.Sprintf("id=%s pid=%d | tags=[%s]", p.Process.ID, p.Process.PID, strings.Join(p.Process.Tags, ","))
}

func (p processItem) FilterValue() string {
	return fmt.Sprintf("%s %d %s %s", p.Process.ID, p.Process.PID, p.Process.Name, strings.Join(p.Process.Tags, " "))
}

func (m *Model) setProcesses(procs []app.Process) {
	m.processes = procs
	newSelected := make(map[string]bool)
	items := make([]list.Item, 0, len(procs))
	for _, proc := range procs {
		selected := m.selected[proc.ID]
		if selected {
			newSelected[proc.ID] = true
		}
		items = append(items, processItem{Process: proc, Selected: selected})
	}
	m.selected = newSelected
	m.list.SetItems(items)
	if m.detail != nil {
		if cur := m.currentProcess(); cur == nil || cur.ID != m.detail.ID {
			m.detail = nil
		}
	}
}

func (m *Model) toggleCurrentSelection() {
	if len(m.processes) == 0 {
		return
	}
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.processes) {
		return
	}
	item, ok := m.list.Items()[idx].(processItem)
	if !ok {
		return
	}
	if item.Selected {
		delete(m.selected, item.Process.ID)
	} else {
		m.selected[item.Process.ID] = true
	}
	item.Selected = !item.Selected
	m.list.SetItem(idx, item)
}

func (m *Model) clearSelection() {
	m.selected = make(map[string]bool)
	items := m.list.Items()
	for i, it := range items {
		if pi, ok := it.(processItem); ok && pi.Selected {
			pi.Selected = false
			m.list.SetItem(i, pi)
		}
	}
}

func (m *Model) selectedIDs() []string {
	ids := make([]string, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Model) currentProcess() *app.Process {
	if len(m.processes) == 0 {
		return nil
	}
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.processes) {
		return nil
	}
	return &m.processes[idx]
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type daemonStatusMsg struct {
	status app.DaemonStatus
}

type processesLoadedMsg struct {
	processes []app.Process
}

type detailLoadedMsg struct {
	process app.Process
}

type killedMsg struct {
	ids []string
}

type daemonStartedMsg struct {
	handle *app.DaemonHandle
}

type tickMsg time.Time

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func checkDaemonStatusCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		status, err := ctrl.Status()
		if err != nil {
			return errMsg{err}
		}
		return daemonStatusMsg{status: status}
	}
}

func loadProcessesCmd(ctrl Controller, filters app.ListFilters) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		procs, err := ctrl.List(ctx, app.ListParams{
			Filters: filters,
			Timeout: rpcTimeout,
		})
		if err != nil {
			return errMsg{err}
		}
		return processesLoadedMsg{processes: procs}
	}
}

func loadDetailCmd(ctrl Controller, id string) tea.Cmd {
	return func() tea.Msg {
		p, err := ctrl.Get(context.Background(), id, rpcTimeout)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{process: p}
	}
}

func killCmd(ctrl Controller, ids []string) tea.Cmd {
	return func() tea.Msg {
		var killed []string
		for _, id := range ids {
			res, err := ctrl.Kill(context.Background(), app.KillParams{ID: id, Timeout: rpcTimeout})
			if err != nil {
				return errMsg{fmt.Errorf("kill %s: %w", id, err)}
			}
			killed = append(killed, res.IDs...)
		}
		return killedMsg{ids: killed}
	}
}

func startDaemonCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		handle, err := ctrl.StartDaemon()
		if err != nil {
			return errMsg{err}
		}
		// Give the daemon a moment to bind the socket.
		time.Sleep(300 * time.Millisecond)
		return daemonStartedMsg{handle: handle}
	}
}
