// Package tui is the interactive system log viewer.
package tui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/camtap/internal/syslog"
)

// Model is the bubbletea model for the log viewer. It renders one
// fetched log snapshot; entries are held oldest first.
type Model struct {
	host        string
	generatedAt time.Time
	entries     []syslog.Entry
	parseErrors int

	// current view after severity filtering
	lines    []syslog.Entry
	minLevel syslog.Level

	scrollOff int

	// search
	searching   bool
	searchInput string
	searchRegex *regexp.Regexp
	searchIdx   int
	matches     []int

	// gg detection
	lastGPress time.Time

	width  int
	height int

	quitting bool
}

// NewModel creates a viewer over a parsed log snapshot.
func NewModel(host string, entries *syslog.Entries) Model {
	ordered, errs := entries.Chronological()
	m := Model{
		host:        host,
		generatedAt: entries.GeneratedAt(),
		entries:     ordered,
		parseErrors: len(errs),
		minLevel:    syslog.Debug,
		width:       80,
		height:      24,
	}
	m.applyFilter()
	m.scrollToBottom()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollOff = clamp(m.scrollOff, 0, m.maxScroll())
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		m.scrollOff = clamp(m.scrollOff+1, 0, m.maxScroll())

	case "k", "up":
		m.scrollOff = clamp(m.scrollOff-1, 0, m.maxScroll())

	case "d":
		m.scrollOff = clamp(m.scrollOff+m.logPaneHeight()/2, 0, m.maxScroll())

	case "u":
		m.scrollOff = clamp(m.scrollOff-m.logPaneHeight()/2, 0, m.maxScroll())

	case "G":
		m.scrollToBottom()

	case "g":
		now := time.Now()
		if now.Sub(m.lastGPress) < 500*time.Millisecond {
			m.scrollOff = 0
			m.lastGPress = time.Time{}
		} else {
			m.lastGPress = now
		}

	case "l":
		m.cycleLevel()

	case "/":
		m.searching = true
		m.searchInput = ""

	case "n":
		m.nextMatch(1)

	case "N":
		m.nextMatch(-1)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		re, err := regexp.Compile(m.searchInput)
		if err == nil {
			m.searchRegex = re
			m.updateSearchMatches()
			m.searchIdx = 0
			if len(m.matches) > 0 {
				m.scrollOff = clamp(m.matches[0]-m.logPaneHeight()/2, 0, m.maxScroll())
			}
		}

	case "esc":
		m.searching = false
		m.searchInput = ""
		m.searchRegex = nil
		m.matches = nil

	case "backspace":
		if len(m.searchInput) > 0 {
			m.searchInput = m.searchInput[:len(m.searchInput)-1]
		}

	default:
		if len(msg.String()) == 1 {
			m.searchInput += msg.String()
		}
	}

	return m, nil
}

// cycleLevel tightens the minimum severity one step, wrapping from
// Emergency back to showing everything.
func (m *Model) cycleLevel() {
	if m.minLevel == syslog.Emergency {
		m.minLevel = syslog.Debug
	} else {
		m.minLevel--
	}
	m.applyFilter()
	m.updateSearchMatches()
	m.scrollOff = clamp(m.scrollOff, 0, m.maxScroll())
}

func (m *Model) applyFilter() {
	if m.minLevel == syslog.Debug {
		m.lines = m.entries
		return
	}
	m.lines = nil
	for _, e := range m.entries {
		if e.Level <= m.minLevel || e.Level == syslog.Repeated {
			m.lines = append(m.lines, e)
		}
	}
}

func (m *Model) updateSearchMatches() {
	m.matches = nil
	if m.searchRegex == nil {
		return
	}
	for i, entry := range m.lines {
		if m.searchRegex.MatchString(entry.Message) {
			m.matches = append(m.matches, i)
		}
	}
}

func (m *Model) nextMatch(dir int) {
	if len(m.matches) == 0 {
		return
	}
	m.searchIdx = (m.searchIdx + dir + len(m.matches)) % len(m.matches)
	m.scrollOff = clamp(m.matches[m.searchIdx]-m.logPaneHeight()/2, 0, m.maxScroll())
}

func (m *Model) scrollToBottom() {
	m.scrollOff = m.maxScroll()
}

// logPaneHeight leaves room for the header and status bar.
func (m Model) logPaneHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) maxScroll() int {
	max := len(m.lines) - m.logPaneHeight()
	if max < 0 {
		return 0
	}
	return max
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := fmt.Sprintf("camtap view | %s | %d entries | generated %s",
		m.host, len(m.entries), m.generatedAt.Format("2006-01-02 15:04:05"))
	if m.parseErrors > 0 {
		header += fmt.Sprintf(" | %d unparseable", m.parseErrors)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	matchSet := make(map[int]bool, len(m.matches))
	for _, idx := range m.matches {
		matchSet[idx] = true
	}

	paneH := m.logPaneHeight()
	start := m.scrollOff
	end := start + paneH
	if end > len(m.lines) {
		end = len(m.lines)
	}

	for i := start; i < end; i++ {
		entry := m.lines[i]
		line := fmt.Sprintf("%s %s %s",
			entry.Timestamp.String(),
			levelStyle(entry.Level).Render(fmt.Sprintf("%-9s", entry.Level.String())),
			renderSource(entry)+entry.Message,
		)
		if matchSet[i] {
			line = matchStyle.Render(fmt.Sprintf("%s %-9s %s",
				entry.Timestamp.String(), entry.Level.String(), renderSource(entry)+entry.Message))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := end - start; i < paneH; i++ {
		b.WriteString("\n")
	}

	// status bar
	var status strings.Builder
	if m.searching {
		status.WriteString(searchBadge.Render("/" + m.searchInput))
	} else if m.searchRegex != nil {
		status.WriteString(searchBadge.Render(fmt.Sprintf("[%d/%d] /%s", m.searchIdx+1, len(m.matches), m.searchRegex.String())))
	}
	if m.minLevel != syslog.Debug {
		if status.Len() > 0 {
			status.WriteString(" ")
		}
		status.WriteString(levelBadge.Render("≥ " + m.minLevel.String()))
	}
	if status.Len() > 0 {
		b.WriteString(padLeft(status.String(), m.width))
	}

	return b.String()
}

func renderSource(e syslog.Entry) string {
	if e.Source.IsZero() {
		return ""
	}
	return e.Source.String() + ": "
}

// styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	matchStyle  = lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0"))
	searchBadge = lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	levelBadge  = lipgloss.NewStyle().Background(lipgloss.Color("33")).Foreground(lipgloss.Color("15")).Padding(0, 1)

	emergStyle   = lipgloss.NewStyle().Background(lipgloss.Color("196")).Foreground(lipgloss.Color("15")).Bold(true)
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	critStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	infoStyle    = lipgloss.NewStyle()
	debugStyle   = lipgloss.NewStyle().Faint(true)
)

func levelStyle(l syslog.Level) lipgloss.Style {
	switch l {
	case syslog.Emergency:
		return emergStyle
	case syslog.Alert:
		return alertStyle
	case syslog.Critical:
		return critStyle
	case syslog.Error:
		return errStyle
	case syslog.Warning:
		return warningStyle
	case syslog.Notice:
		return noticeStyle
	case syslog.Debug, syslog.Repeated:
		return debugStyle
	}
	return infoStyle
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func padLeft(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	return strings.Repeat(" ", w-n) + s
}
