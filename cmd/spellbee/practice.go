package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/generator"
	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/session"
	"github.com/verte-zerg/spellbee/internal/tui"
	"github.com/verte-zerg/spellbee/internal/wordlist"
)

var (
	practiceList      string
	practiceLetters   string
	practiceName      string
	practiceRandomize bool
	practiceExclude   bool
	practiceMode      string
)

func newPracticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Start a new practice session",
		Args:  cobra.NoArgs,
		RunE:  runPracticeCmd,
	}
	addPracticeFlags(cmd)
	return cmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceList, "list", "", "word list id (stored or available); default is the selected list")
	cmd.Flags().StringVar(&practiceLetters, "letters", "", "only practice words starting with these letters (e.g. \"a,b,c\")")
	cmd.Flags().StringVar(&practiceName, "name", "", "session name")
	cmd.Flags().BoolVar(&practiceRandomize, "randomize", true, "shuffle the word queue")
	cmd.Flags().BoolVar(&practiceExclude, "exclude-correct", false, "skip words already spelled correctly in a completed session")
	cmd.Flags().StringVar(&practiceMode, "mode", "", "student or tutor (default: remembered mode, else student)")
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBoolConfig(cmd, "randomize", &practiceRandomize, cfg.Practice.Randomize)
	applyBoolConfig(cmd, "exclude-correct", &practiceExclude, cfg.Practice.ExcludeCorrect)
	applyStringConfig(cmd, "mode", &practiceMode, cfg.Practice.Mode)

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := context.Background()

	mode, err := a.resolveMode(ctx, cmd.Flags().Changed("mode"))
	if err != nil {
		return err
	}
	list, err := a.resolveList(ctx, practiceList)
	if err != nil {
		return err
	}
	a.sel.SetLetters(wordlist.ParseLetters(practiceLetters))
	words := a.sel.Filtered()
	if len(words) == 0 {
		if len(a.sel.Letters()) > 0 {
			return fmt.Errorf("no words in %q start with %s", list.Name, strings.Join(a.sel.Letters(), ", "))
		}
		return fmt.Errorf("word list %q is empty", list.Name)
	}

	var mastered []string
	if practiceExclude {
		mastered, err = a.sessions.GetMasteredWords(ctx)
		if err != nil {
			return fmt.Errorf("failed to load mastered words: %w", err)
		}
	}
	queue, err := generator.New().Queue(words, mastered, generator.Options{
		ExcludeMastered: practiceExclude,
		Randomize:       practiceRandomize,
	})
	if errors.Is(err, generator.ErrAllMastered) {
		logErrln("Every word in this selection is mastered. Run again without --exclude-correct to review them.")
		return err
	}
	if err != nil {
		return err
	}

	name := strings.TrimSpace(practiceName)
	if name == "" {
		name = generator.DefaultSessionName(list.Name, time.Now())
	}
	id, err := a.sessions.Create(ctx, session.NewSession{
		Name:                     name,
		WordListID:               list.ID,
		WordListName:             list.Name,
		Words:                    queue,
		ExcludePreviouslyCorrect: practiceExclude,
		Mode:                     mode,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return a.runPractice(ctx, cmd, id)
}

// resolveMode picks the flag or config mode, else the remembered one, and
// remembers an explicit choice.
func (a *app) resolveMode(ctx context.Context, explicit bool) (model.SessionMode, error) {
	if practiceMode == "" {
		remembered, ok, err := a.prefs.Get(ctx, model.PrefTutorMode)
		if err != nil {
			return "", err
		}
		if ok && remembered == "true" {
			return model.ModeTutor, nil
		}
		return model.ModeStudent, nil
	}
	mode, ok := model.ParseMode(practiceMode)
	if !ok {
		return "", fmt.Errorf("--mode must be student or tutor, got %q", practiceMode)
	}
	if explicit {
		if err := a.prefs.Set(ctx, model.PrefTutorMode, fmt.Sprintf("%t", mode == model.ModeTutor)); err != nil {
			return "", err
		}
	}
	return mode, nil
}

// resolveList loads the selection and switches to id when given. Unknown
// stored ids fall back to the available lists of the manifest.
func (a *app) resolveList(ctx context.Context, id string) (*model.WordList, error) {
	if err := a.sel.Load(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		list := a.sel.Current()
		if list == nil {
			return nil, errors.New("no word list selected; add one with: spellbee lists add FILE")
		}
		return list, nil
	}
	list, err := a.sel.Select(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		list, err = a.sel.SelectAvailable(ctx, id)
	}
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("unknown word list %q (see: spellbee lists)", id)
	}
	return list, err
}

func (a *app) runPractice(ctx context.Context, cmd *cobra.Command, id string) error {
	sess, err := a.session(ctx, id)
	if err != nil {
		return err
	}
	m := tui.NewModel(ctx, a.sessions, *sess, tui.Options{
		Dictionary: a.dictionary(),
		APIKey:     a.apiKey(ctx),
		Log:        a.log,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	final := m.Session()
	a.log.Info("practice finished", zap.String("id", final.ID), zap.Bool("completed", final.IsCompleted))
	if final.IsCompleted {
		return printf(cmd, "%s: %d/%d correct (%d%%)\n", final.Name, final.CorrectCount, len(final.Attempts), final.Accuracy())
	}
	return printf(cmd, "Session saved at word %d/%d. Continue with: spellbee resume %s\n",
		len(final.Attempts), len(final.WordsAsked), final.ID)
}

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume [ID]",
		Short: "Resume an incomplete session (default: the most recent)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResumeCmd,
	}
}

func runResumeCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		var id string
		if len(args) == 1 {
			sess, err := a.session(ctx, args[0])
			if err != nil {
				return err
			}
			if !sess.Resumable() {
				return model.NewValidationError("session %q cannot be resumed", sess.Name)
			}
			id = sess.ID
		} else {
			all, err := a.sessions.GetAll(ctx)
			if err != nil {
				return err
			}
			latest, ok := session.LatestResumable(all)
			if !ok {
				return errors.New("no incomplete sessions to resume")
			}
			id = latest.ID
		}
		return a.runPractice(ctx, cmd, id)
	})
}
