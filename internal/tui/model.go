// Package tui provides the Bubble Tea spelling practice screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/dictionary"
	"github.com/verte-zerg/spellbee/internal/model"
)

// Recorder persists the progress of the session being practiced.
type Recorder interface {
	Get(ctx context.Context, id string) (*model.TestSession, error)
	AddAttempt(ctx context.Context, id string, attempt model.WordAttempt) error
	Complete(ctx context.Context, id string) error
}

// Dictionary looks up word details.
type Dictionary interface {
	Lookup(ctx context.Context, apiKey, word string) (dictionary.Entry, error)
}

type phase int

const (
	phaseAsk phase = iota
	phaseChecked
	phaseConfirm
	phaseDone
)

type lookupMsg struct {
	word  string
	entry dictionary.Entry
	err   error
}

// Options configures the practice screen.
type Options struct {
	Dictionary Dictionary
	APIKey     string
	Log        *zap.Logger
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	ctx      context.Context
	recorder Recorder
	dict     Dictionary
	apiKey   string
	log      *zap.Logger

	width  int
	height int

	session model.TestSession
	input   textinput.Model
	phase   phase

	word      string
	entry     *dictionary.Entry
	lookupErr string
	looking   bool

	lastTyped   string
	lastCorrect bool
	errMsg      string
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	missingStyle   = pendingStyle.Underline(true)
	wordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a practice model for an existing session. Resumed
// sessions continue at the first unattempted word.
func NewModel(ctx context.Context, recorder Recorder, sess model.TestSession, opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	ti := textinput.New()
	ti.Placeholder = "type the spelling"
	ti.CharLimit = 64
	ti.Prompt = "> "
	ti.Focus()

	m := &Model{
		ctx:      ctx,
		recorder: recorder,
		dict:     opts.Dictionary,
		apiKey:   opts.APIKey,
		log:      log.Named("tui"),
		session:  sess,
		input:    ti,
	}
	m.advance()
	return m
}

// Session returns the latest known state of the practiced session.
func (m *Model) Session() model.TestSession {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.lookupCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.contentWidth()-4)
		return m, nil
	case lookupMsg:
		m.handleLookup(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	switch m.phase {
	case phaseAsk:
		switch msg.Type {
		case tea.KeyEnter:
			typed := strings.TrimSpace(m.input.Value())
			if typed == "" {
				return m, nil
			}
			m.record(typed, strings.EqualFold(typed, m.word))
			return m, nil
		case tea.KeyCtrlY:
			if m.session.Mode == model.ModeTutor {
				typed := strings.TrimSpace(m.input.Value())
				if typed == "" {
					typed = m.word
				}
				m.record(typed, true)
			}
			return m, nil
		case tea.KeyCtrlN:
			if m.session.Mode == model.ModeTutor {
				m.record(strings.TrimSpace(m.input.Value()), false)
			}
			return m, nil
		case tea.KeyCtrlD:
			return m, m.lookupCmd()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case phaseChecked:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyRight {
			m.advance()
			return m, m.lookupCmd()
		}
	case phaseConfirm:
		if msg.Type == tea.KeyEnter {
			m.complete()
		}
	case phaseDone:
		if msg.Type == tea.KeyEnter || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

// record saves one attempt for the current word and refreshes the session.
func (m *Model) record(typed string, correct bool) {
	attempt := model.WordAttempt{
		Word:         m.word,
		UserSpelling: typed,
		IsCorrect:    correct,
		Timestamp:    time.Now(),
	}
	if err := m.recorder.AddAttempt(m.ctx, m.session.ID, attempt); err != nil {
		m.log.Error("failed to record attempt", zap.String("session", m.session.ID), zap.Error(err))
		m.errMsg = "Failed to save attempt: " + err.Error()
		if errors.Is(err, model.ErrValidation) {
			m.refresh()
			m.advance()
		}
		return
	}
	m.errMsg = ""
	m.lastTyped = typed
	m.lastCorrect = correct
	if !m.refresh() {
		m.session.Attempts = append(m.session.Attempts, attempt)
		if correct {
			m.session.CorrectCount++
		} else {
			m.session.IncorrectCount++
		}
	}
	m.phase = phaseChecked
	m.input.Blur()
}

func (m *Model) refresh() bool {
	sess, err := m.recorder.Get(m.ctx, m.session.ID)
	if err != nil || sess == nil {
		m.log.Warn("failed to reload session", zap.String("session", m.session.ID), zap.Error(err))
		return false
	}
	m.session = *sess
	return true
}

// advance moves to the next unattempted word, or to the completion prompt.
func (m *Model) advance() {
	m.input.Reset()
	m.entry = nil
	m.lookupErr = ""
	if m.session.IsCompleted {
		m.phase = phaseDone
		m.input.Blur()
		return
	}
	word, ok := m.session.NextWord()
	if !ok {
		m.word = ""
		m.phase = phaseConfirm
		m.input.Blur()
		return
	}
	m.word = word
	m.phase = phaseAsk
	m.input.Focus()
}

func (m *Model) complete() {
	if err := m.recorder.Complete(m.ctx, m.session.ID); err != nil {
		m.log.Error("failed to complete session", zap.String("session", m.session.ID), zap.Error(err))
		m.errMsg = "Failed to complete session: " + err.Error()
	}
	m.refresh()
	if m.session.IsCompleted {
		m.phase = phaseDone
	}
}

func (m *Model) lookupCmd() tea.Cmd {
	if m.dict == nil || m.apiKey == "" || m.phase != phaseAsk || m.word == "" {
		return nil
	}
	m.looking = true
	ctx, dict, key, word := m.ctx, m.dict, m.apiKey, m.word
	return func() tea.Msg {
		entry, err := dict.Lookup(ctx, key, word)
		return lookupMsg{word: word, entry: entry, err: err}
	}
}

func (m *Model) handleLookup(msg lookupMsg) {
	if msg.word != m.word {
		return
	}
	m.looking = false
	if msg.err != nil {
		m.log.Warn("dictionary lookup failed", zap.String("word", msg.word), zap.Error(msg.err))
		m.lookupErr = "No dictionary information"
		if errors.Is(msg.err, dictionary.ErrNoEntry) {
			m.lookupErr = "Word not found in dictionary"
		}
		return
	}
	entry := msg.entry
	m.entry = &entry
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.contentWidth()
	var sections []string
	sections = append(sections, wordStyle.Render(m.session.Name))

	switch m.phase {
	case phaseAsk:
		sections = append(sections, m.renderPrompt(width)...)
		sections = append(sections, m.input.View())
	case phaseChecked:
		sections = append(sections, m.renderFeedback(width)...)
	case phaseConfirm:
		sections = append(sections, textStyle.Render("All words attempted. Press Enter to finish the session."))
	case phaseDone:
		sections = append(sections, m.renderResults()...)
	}
	if m.errMsg != "" {
		sections = append(sections, incorrectStyle.Render(m.errMsg))
	}
	sections = append(sections, labelStyle.Render(m.renderHelp()))

	content := strings.Join(sections, "\n\n")
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	content = lipgloss.NewStyle().Width(width).Render(content)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderPrompt(width int) []string {
	var out []string
	if m.session.Mode == model.ModeTutor {
		out = append(out, labelStyle.Render("Read aloud: ")+wordStyle.Render(m.word))
	} else {
		out = append(out, labelStyle.Render(fmt.Sprintf("Spell the %d-letter word", len([]rune(m.word)))))
	}
	switch {
	case m.entry != nil:
		out = append(out, m.renderEntry(width)...)
	case m.looking:
		out = append(out, labelStyle.Render("Looking up word..."))
	case m.lookupErr != "":
		out = append(out, labelStyle.Render(m.lookupErr))
	case m.apiKey == "":
		out = append(out, labelStyle.Render("Set a dictionary API key to see definitions."))
	}
	return out
}

func (m *Model) renderEntry(width int) []string {
	hide := m.session.Mode != model.ModeTutor
	field := func(label, value string) string {
		if value == "" {
			return ""
		}
		if hide {
			value = maskWord(value, m.word)
		}
		return labelStyle.Render(label+": ") + wrapStyledRunes(plainRunes(value, textStyle), max(0, width-len(label)-2))
	}
	var out []string
	for _, line := range []string{
		field("Pronunciation", m.entry.Pronunciation),
		field("Part of speech", m.entry.PartOfSpeech),
		field("Definition", m.entry.Definition),
		field("Example", m.entry.Example),
		field("Origin", m.entry.Etymology),
	} {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (m *Model) renderFeedback(width int) []string {
	compared := wrapStyledRunes(compareRunes([]rune(m.word), []rune(m.lastTyped)), width)
	if m.lastCorrect {
		return []string{correctStyle.Render("Correct! Well done!"), compared}
	}
	lines := []string{
		incorrectStyle.Render(fmt.Sprintf("Incorrect. The correct spelling is %q.", m.word)),
		compared,
	}
	if m.lastTyped != "" {
		lines = append(lines, labelStyle.Render("You typed: ")+textStyle.Render(m.lastTyped))
	}
	return lines
}

func (m *Model) renderResults() []string {
	s := m.session
	return []string{
		correctStyle.Render("Session complete!"),
		textStyle.Render(fmt.Sprintf("Correct %d · Incorrect %d · Accuracy %d%%",
			s.CorrectCount, s.IncorrectCount, s.Accuracy())),
	}
}

func (m *Model) renderHelp() string {
	switch m.phase {
	case phaseAsk:
		help := "enter check · ctrl+d look up · esc quit"
		if m.session.Mode == model.ModeTutor {
			help = "enter check · ctrl+y mark correct · ctrl+n mark incorrect · esc quit"
		}
		return help
	case phaseChecked:
		return "enter next word · esc quit"
	case phaseConfirm:
		return "enter finish · esc quit (resume later)"
	default:
		return "enter quit"
	}
}

func (m *Model) renderFooter() string {
	total := len(m.session.WordsAsked)
	if total == 0 {
		return ""
	}
	done := len(m.session.Attempts)
	segments := []string{
		fmt.Sprintf("Word %d/%d", min(done+1, total), total),
		fmt.Sprintf("Progress %d%%", done*100/total),
		fmt.Sprintf("Correct %d · Accuracy %d%%", m.session.CorrectCount, m.session.Accuracy()),
	}
	if m.session.Mode == model.ModeTutor {
		segments = append(segments, "Tutor mode")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
