package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/dictionary"
	"github.com/verte-zerg/spellbee/internal/generator"
)

const maxIssues = 3

// Dictionary fields a drill can reveal one by one.
const (
	revealPronunciation = iota
	revealPartOfSpeech
	revealDefinition
	revealEtymology
	revealExample
	revealCount
)

var revealLabels = [revealCount]string{"Pronunciation", "Part of speech", "Definition", "Origin", "Example"}

var revealKeys = map[tea.KeyType]int{
	tea.KeyF1: revealPronunciation,
	tea.KeyF2: revealPartOfSpeech,
	tea.KeyF3: revealDefinition,
	tea.KeyF4: revealEtymology,
	tea.KeyF5: revealExample,
}

// DrillOptions configures the drill screen.
type DrillOptions struct {
	Dictionary Dictionary
	APIKey     string
	Randomize  bool
	// Generator shuffles the words. Nil uses a time-seeded generator.
	Generator *generator.Generator
	Log       *zap.Logger
}

// Drill steps freely through a word list. Results are tallied on screen and
// never stored.
type Drill struct {
	ctx    context.Context
	dict   Dictionary
	apiKey string
	gen    *generator.Generator
	log    *zap.Logger

	width  int
	height int

	words     []string
	order     []string
	index     int
	randomize bool
	input     textinput.Model

	checked  bool
	correct  bool
	feedback string

	showWord  bool
	reveal    [revealCount]bool
	entry     *dictionary.Entry
	lookupErr string
	looking   bool

	correctCount   int
	incorrectCount int
}

// NewDrill constructs a drill over words.
func NewDrill(ctx context.Context, words []string, opts DrillOptions) *Drill {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	gen := opts.Generator
	if gen == nil {
		gen = generator.New()
	}
	ti := textinput.New()
	ti.Placeholder = "type the spelling"
	ti.CharLimit = 64
	ti.Prompt = "> "
	ti.Focus()

	d := &Drill{
		ctx:       ctx,
		dict:      opts.Dictionary,
		apiKey:    opts.APIKey,
		gen:       gen,
		log:       log.Named("drill"),
		words:     append([]string{}, words...),
		randomize: opts.Randomize,
		input:     ti,
	}
	d.reorder()
	return d
}

// Tally returns the correct and incorrect counts of this run.
func (d *Drill) Tally() (correct, incorrect int) {
	return d.correctCount, d.incorrectCount
}

// Init implements tea.Model.
func (d *Drill) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (d *Drill) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.input.Width = max(10, d.contentWidth()-4)
		return d, nil
	case lookupMsg:
		d.handleLookup(msg)
		return d, nil
	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *Drill) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return d, tea.Quit
	}
	if len(d.order) == 0 {
		return d, nil
	}
	switch msg.Type {
	case tea.KeyEnter:
		if d.checked {
			d.move(1)
			return d, nil
		}
		typed := strings.TrimSpace(d.input.Value())
		if typed == "" {
			return d, nil
		}
		d.check(typed)
		return d, nil
	case tea.KeyCtrlY:
		if !d.checked {
			d.mark(true)
		}
		return d, nil
	case tea.KeyCtrlN:
		if !d.checked {
			d.mark(false)
		}
		return d, nil
	case tea.KeyTab:
		d.move(1)
		return d, nil
	case tea.KeyShiftTab:
		if d.index > 0 {
			d.move(-1)
		}
		return d, nil
	case tea.KeyCtrlR:
		d.randomize = !d.randomize
		d.reorder()
		return d, nil
	case tea.KeyCtrlW:
		d.showWord = !d.showWord
		return d, nil
	case tea.KeyCtrlD:
		return d, d.lookupCmd()
	}
	if field, ok := revealKeys[msg.Type]; ok {
		d.reveal[field] = !d.reveal[field]
		if d.entry == nil && d.lookupErr == "" {
			return d, d.lookupCmd()
		}
		return d, nil
	}
	if d.checked {
		return d, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *Drill) word() string {
	if d.index >= len(d.order) {
		return ""
	}
	return d.order[d.index]
}

// reorder rebuilds the order and starts over at the first word.
func (d *Drill) reorder() {
	if d.randomize {
		d.order = d.gen.Shuffled(d.words)
	} else {
		d.order = append([]string{}, d.words...)
	}
	d.index = 0
	d.resetWord()
}

// move steps by delta, wrapping past the last word to the first.
func (d *Drill) move(delta int) {
	if len(d.order) == 0 {
		return
	}
	d.index = (d.index + delta + len(d.order)) % len(d.order)
	d.resetWord()
}

func (d *Drill) resetWord() {
	d.input.Reset()
	d.input.Focus()
	d.checked = false
	d.correct = false
	d.feedback = ""
	d.showWord = false
	d.reveal = [revealCount]bool{}
	d.entry = nil
	d.lookupErr = ""
	d.looking = false
}

func (d *Drill) check(typed string) {
	word := d.word()
	d.checked = true
	d.input.Blur()
	if strings.EqualFold(typed, word) {
		d.correct = true
		d.correctCount++
		d.feedback = "Correct! Well done!"
		return
	}
	d.incorrectCount++
	d.feedback = fmt.Sprintf("Incorrect. The correct spelling is %q.", word)
	if issues := SpellingIssues(word, typed); issues != "" {
		d.feedback += " Issues: " + issues
	}
}

func (d *Drill) mark(correct bool) {
	word := d.word()
	d.checked = true
	d.correct = correct
	d.input.Blur()
	if correct {
		d.correctCount++
		d.feedback = "Marked as correct!"
		if strings.TrimSpace(d.input.Value()) == "" {
			d.input.SetValue(word)
		}
		return
	}
	d.incorrectCount++
	d.feedback = fmt.Sprintf("Marked as incorrect. The correct spelling is %q.", word)
}

// SpellingIssues describes where typed differs from target, position by
// position and ignoring case. At most three differences are listed.
func SpellingIssues(target, typed string) string {
	want := []rune(strings.ToLower(target))
	got := []rune(strings.ToLower(strings.TrimSpace(typed)))
	var issues []string
	for i := 0; i < max(len(want), len(got)); i++ {
		switch {
		case i >= len(got):
			issues = append(issues, fmt.Sprintf(`Missing "%c" at position %d`, want[i], i+1))
		case i >= len(want):
			issues = append(issues, fmt.Sprintf(`Extra "%c" at position %d`, got[i], i+1))
		case got[i] != want[i]:
			issues = append(issues, fmt.Sprintf(`"%c" should be "%c" at position %d`, got[i], want[i], i+1))
		}
	}
	if len(issues) <= maxIssues {
		return strings.Join(issues, ", ")
	}
	return strings.Join(issues[:maxIssues], ", ") + fmt.Sprintf(" and %d more...", len(issues)-maxIssues)
}

func (d *Drill) lookupCmd() tea.Cmd {
	word := d.word()
	if word == "" || d.looking {
		return nil
	}
	if d.dict == nil || d.apiKey == "" {
		d.lookupErr = "Set a dictionary API key to see word details."
		return nil
	}
	d.looking = true
	ctx, dict, key := d.ctx, d.dict, d.apiKey
	return func() tea.Msg {
		entry, err := dict.Lookup(ctx, key, word)
		return lookupMsg{word: word, entry: entry, err: err}
	}
}

func (d *Drill) handleLookup(msg lookupMsg) {
	if msg.word != d.word() {
		return
	}
	d.looking = false
	if msg.err != nil {
		d.log.Warn("dictionary lookup failed", zap.String("word", msg.word), zap.Error(msg.err))
		d.lookupErr = "Failed to fetch word data."
		if errors.Is(msg.err, dictionary.ErrNoEntry) {
			d.lookupErr = "Word not found in dictionary"
		}
		return
	}
	entry := msg.entry
	d.entry = &entry
	d.lookupErr = ""
}

func (d *Drill) contentWidth() int {
	if d.width == 0 {
		return 0
	}
	return max(1, int(float64(d.width)*0.70))
}

// View implements tea.Model.
func (d *Drill) View() string {
	if len(d.order) == 0 {
		return "No words to practice. Add a word list or change the letter filter.\n"
	}
	width := d.contentWidth()
	sections := []string{wordStyle.Render("Practice Mode")}

	if d.showWord || d.checked {
		sections = append(sections, labelStyle.Render("Word: ")+wordStyle.Render(d.word()))
	} else {
		sections = append(sections, labelStyle.Render(fmt.Sprintf("Spell the %d-letter word", len([]rune(d.word())))))
	}
	sections = append(sections, d.renderDetails(width)...)
	sections = append(sections, d.input.View())
	if d.checked {
		style := incorrectStyle
		if d.correct {
			style = correctStyle
		}
		feedback := style.Render(d.feedback)
		if typed := strings.TrimSpace(d.input.Value()); typed != "" && !d.correct {
			feedback += "\n" + wrapStyledRunes(compareRunes([]rune(d.word()), []rune(typed)), width)
		}
		sections = append(sections, feedback)
	}
	sections = append(sections, labelStyle.Render(d.renderHelp()))

	content := strings.Join(sections, "\n\n")
	footer := d.renderFooter()
	if d.width == 0 || d.height < 3 {
		return content + "\n" + footer
	}
	content = lipgloss.NewStyle().Width(width).Render(content)
	body := lipgloss.Place(d.width, d.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(d.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (d *Drill) renderDetails(width int) []string {
	switch {
	case d.looking:
		return []string{labelStyle.Render("Looking up word...")}
	case d.lookupErr != "":
		return []string{labelStyle.Render(d.lookupErr)}
	case d.entry == nil:
		return nil
	}
	values := [revealCount]string{
		d.entry.Pronunciation,
		d.entry.PartOfSpeech,
		d.entry.Definition,
		d.entry.Etymology,
		d.entry.Example,
	}
	var out []string
	for i, value := range values {
		if !d.reveal[i] || value == "" {
			continue
		}
		if !d.showWord && !d.checked {
			value = maskWord(value, d.word())
		}
		label := revealLabels[i]
		out = append(out, labelStyle.Render(label+": ")+wrapStyledRunes(plainRunes(value, textStyle), max(0, width-len(label)-2)))
	}
	return out
}

func (d *Drill) renderHelp() string {
	order := "ctrl+r random"
	if d.randomize {
		order = "ctrl+r ordered"
	}
	if d.checked {
		return "enter next · shift+tab previous · " + order + " · esc quit"
	}
	return strings.Join([]string{
		"enter check · ctrl+y/ctrl+n mark · tab skip · shift+tab previous",
		"ctrl+w show word · ctrl+d look up · f1-f5 pronunciation/part of speech/definition/origin/example · " + order + " · esc quit",
	}, "\n")
}

func (d *Drill) renderFooter() string {
	total := d.correctCount + d.incorrectCount
	accuracy := 0
	if total > 0 {
		accuracy = d.correctCount * 100 / total
	}
	segments := []string{
		fmt.Sprintf("Word %d/%d", d.index+1, len(d.order)),
		fmt.Sprintf("Correct %d · Incorrect %d · Accuracy %d%%", d.correctCount, d.incorrectCount, accuracy),
	}
	if d.randomize {
		segments = append(segments, "Random order")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
