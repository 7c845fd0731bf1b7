// Package historyui provides the Bubble Tea session history interface.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/session"
	"github.com/verte-zerg/spellbee/internal/stats"
)

const (
	tabSessions = iota
	tabDetails
	tabOverview
)

const troubleWordCount = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	correctStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Sessions is the subset of the session store the history screen needs.
type Sessions interface {
	GetAll(ctx context.Context) ([]model.TestSession, error)
	Delete(ctx context.Context, id string) error
}

// Stats serves the global statistics.
type Stats interface {
	Get(ctx context.Context) (model.SessionStats, error)
}

// Options configures the history screen.
type Options struct {
	ExportDir string // empty means the working directory
	Window    int    // moving-average window of the accuracy trend
	Log       *zap.Logger
}

// Model implements the Bubble Tea history UI.
type Model struct {
	ctx      context.Context
	sessions Sessions
	stats    Stats
	opts     Options
	log      *zap.Logger

	list    []model.TestSession
	summary model.SessionStats
	errMsg  string
	notice  string

	tabs      []string
	activeTab int
	table     table.Model
	viewports []viewport.Model

	width  int
	height int

	confirmDelete bool
	resumeID      string
}

// NewModel constructs a history UI model.
func NewModel(ctx context.Context, sessions Sessions, st Stats, opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Window <= 0 {
		opts.Window = 3
	}
	m := &Model{
		ctx:      ctx,
		sessions: sessions,
		stats:    st,
		opts:     opts,
		log:      log.Named("historyui"),
		tabs:     []string{"Sessions", "Details", "Overview"},
	}
	m.table = table.New(
		table.WithColumns(sessionColumns()),
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)
	m.viewports = []viewport.Model{viewport.New(0, 0), viewport.New(0, 0), viewport.New(0, 0)}
	m.refresh()
	return m
}

// ResumeID returns the session chosen for resuming, if any.
func (m *Model) ResumeID() string {
	return m.resumeID
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		}
		if m.activeTab == tabSessions {
			return m.updateSessions(msg)
		}
		vp := m.viewports[m.activeTab]
		var cmd tea.Cmd
		vp, cmd = vp.Update(msg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateSessions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, ok := m.selected()
	switch msg.String() {
	case "enter":
		if ok {
			m.activeTab = tabDetails
			m.renderTabContents()
		}
		return m, nil
	case "d", "delete":
		if ok {
			m.confirmDelete = true
			m.notice = ""
		}
		return m, nil
	case "e":
		if ok {
			m.export(sel, false)
		}
		return m, nil
	case "x":
		if ok {
			m.export(sel, true)
		}
		return m, nil
	case "r":
		if !ok {
			return m, nil
		}
		if !sel.Resumable() {
			m.errMsg = "This session cannot be resumed."
			return m, nil
		}
		m.resumeID = sel.ID
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.renderTabContents()
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if msg.String() != "y" {
		return m, nil
	}
	sel, ok := m.selected()
	if !ok {
		return m, nil
	}
	if err := m.sessions.Delete(m.ctx, sel.ID); err != nil {
		m.log.Error("failed to delete session", zap.String("id", sel.ID), zap.Error(err))
		m.errMsg = "Failed to delete session: " + err.Error()
		return m, nil
	}
	m.notice = fmt.Sprintf("Deleted %q.", sel.Name)
	m.refresh()
	return m, nil
}

func (m *Model) export(s model.TestSession, asJSON bool) {
	path, err := ExportSession(m.opts.ExportDir, s, asJSON)
	if err != nil {
		m.log.Error("failed to export session", zap.String("id", s.ID), zap.Error(err))
		m.errMsg = "Failed to export session: " + err.Error()
		return
	}
	m.errMsg = ""
	m.notice = "Exported to " + path
}

// ExportSession writes s into dir as a text report or as JSON and returns
// the file path.
func ExportSession(dir string, s model.TestSession, asJSON bool) (path string, err error) {
	name := session.TextFileName(s)
	if asJSON {
		name = session.JSONFileName(s)
	}
	path = filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()
	if asJSON {
		err = session.WriteJSON(f, s)
	} else {
		err = session.WriteText(f, s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func (m *Model) selected() (model.TestSession, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.list) {
		return model.TestSession{}, false
	}
	return m.list[idx], true
}

func (m *Model) refresh() {
	list, err := m.sessions.GetAll(m.ctx)
	if err != nil {
		m.log.Error("failed to load sessions", zap.Error(err))
		m.errMsg = "Failed to load sessions: " + err.Error()
		return
	}
	session.SortByRecency(list)
	m.list = list
	summary, err := m.stats.Get(m.ctx)
	if err != nil {
		m.log.Error("failed to load statistics", zap.Error(err))
		m.errMsg = "Failed to load statistics: " + err.Error()
	} else {
		m.errMsg = ""
		m.summary = summary
	}
	m.table.SetRows(sessionRows(list))
	if m.table.Cursor() >= len(list) {
		m.table.SetCursor(max(0, len(list)-1))
	}
	m.renderTabContents()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	if m.statusLine() != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabSessions {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	m.renderTabContents()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabSessions {
		if len(m.list) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.table.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) statusLine() string {
	switch {
	case m.confirmDelete:
		if sel, ok := m.selected(); ok {
			return errorStyle.Render(fmt.Sprintf("Delete %q? Statistics are kept. (y/n)", sel.Name))
		}
	case m.errMsg != "":
		return errorStyle.Render(m.errMsg)
	case m.notice != "":
		return noticeStyle.Render(m.notice)
	}
	return ""
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down  Quit: q"
	if m.activeTab == tabSessions {
		help = "Nav: left/right  Details: enter  Resume: r  Delete: d  Export: e (text) x (json)  Quit: q"
	}
	help = headerStyle.Render(truncateLine(help, m.width))
	if status := m.statusLine(); status != "" {
		return help + "\n" + status
	}
	return help
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if sel, ok := m.selected(); ok {
		m.viewports[tabDetails].SetContent(renderDetails(sel))
	} else {
		m.viewports[tabDetails].SetContent("No session selected.")
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.summary, m.list, m.opts.Window, width))
}

func renderDetails(s model.TestSession) string {
	correct, incorrect := session.SplitAttempts(s)
	lines := []string{
		cardValueStyle.Render(s.Name),
		headerStyle.Render(fmt.Sprintf("%s · %s · %s", s.WordListName, session.FormatDate(s.StartTime), stats.Status(s))),
		"",
		fmt.Sprintf("Words: %d/%d  Correct: %d  Incorrect: %d  Accuracy: %d%%",
			len(s.Attempts), len(s.WordsAsked), s.CorrectCount, s.IncorrectCount, s.Accuracy()),
		fmt.Sprintf("Duration: %s", session.FormatDuration(s.StartTime, s.EndTime)),
		"",
		correctStyle.Render(fmt.Sprintf("Correctly spelled (%d)", len(correct))),
	}
	lines = append(lines, wordLines(correct)...)
	lines = append(lines, "", incorrectStyle.Render(fmt.Sprintf("Incorrectly spelled (%d)", len(incorrect))))
	for _, a := range s.Attempts {
		if !a.IsCorrect {
			lines = append(lines, fmt.Sprintf("  %s (typed %q)", a.Word, a.UserSpelling))
		}
	}
	if len(incorrect) == 0 {
		lines = append(lines, "  None")
	}
	return strings.Join(lines, "\n")
}

func wordLines(words []string) []string {
	if len(words) == 0 {
		return []string{"  None"}
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = "  " + w
	}
	return out
}

func renderOverview(st model.SessionStats, sessions []model.TestSession, window, width int) string {
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", st.TotalSessions)),
		metricCard("Words", fmt.Sprintf("%d", st.TotalWordsAttempted)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", st.AverageAccuracy)),
		metricCard("Mastered", fmt.Sprintf("%d", len(st.MasteredWords))),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	parts := []string{summary}
	if series := stats.AccuracySeries(sessions); len(series) > 1 {
		parts = append(parts, headerStyle.Render("Accuracy trend")+"\n"+stats.Sparkline(stats.MovingAverage(series, window)))
	}
	var buf bytes.Buffer
	if err := stats.RenderTroubleWords(&buf, stats.TroubleWords(sessions, troubleWordCount)); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render missed words: %v", err))
	} else {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Word List", Width: 18},
		{Title: "Started", Width: 16},
		{Title: "Words", Width: 7},
		{Title: "Accuracy", Width: 8},
		{Title: "Status", Width: 11},
	}
}

func sessionRows(sessions []model.TestSession) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{
			truncateLine(s.Name, 24),
			truncateLine(s.WordListName, 18),
			s.StartTime.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d/%d", len(s.Attempts), len(s.WordsAsked)),
			fmt.Sprintf("%d%%", s.Accuracy()),
			stats.Status(s),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
