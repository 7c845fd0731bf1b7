package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/tui"
	"github.com/verte-zerg/spellbee/internal/wordlist"
)

var (
	drillList      string
	drillLetters   string
	drillRandomize bool
)

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Step freely through a word list without saving results",
		Args:  cobra.NoArgs,
		RunE:  runDrillCmd,
	}
	cmd.Flags().StringVar(&drillList, "list", "", "word list id (stored or available); default is the selected list")
	cmd.Flags().StringVar(&drillLetters, "letters", "", "only drill words starting with these letters (e.g. \"a,b,c\")")
	cmd.Flags().BoolVar(&drillRandomize, "randomize", false, "start in random order")
	return cmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		words, err := a.drillWords(ctx)
		if err != nil {
			return err
		}
		if !interactive() {
			return errors.New("drill needs an interactive terminal")
		}
		d := tui.NewDrill(ctx, words, tui.DrillOptions{
			Dictionary: a.dictionary(),
			APIKey:     a.apiKey(ctx),
			Randomize:  drillRandomize,
			Log:        a.log,
		})
		if _, err := tea.NewProgram(d, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		correct, incorrect := d.Tally()
		a.log.Info("drill finished", zap.Int("correct", correct), zap.Int("incorrect", incorrect))
		if correct+incorrect == 0 {
			return nil
		}
		return printf(cmd, "Drill: %d correct, %d incorrect (%d%%)\n",
			correct, incorrect, correct*100/(correct+incorrect))
	})
}

// drillWords returns the filtered words of the requested or selected list.
func (a *app) drillWords(ctx context.Context) ([]string, error) {
	list, err := a.resolveList(ctx, drillList)
	if err != nil {
		return nil, err
	}
	a.sel.SetLetters(wordlist.ParseLetters(drillLetters))
	words := a.sel.Filtered()
	if len(words) == 0 {
		if len(a.sel.Letters()) > 0 {
			return nil, fmt.Errorf("no words in %q start with %s", list.Name, strings.Join(a.sel.Letters(), ", "))
		}
		return nil, fmt.Errorf("word list %q is empty", list.Name)
	}
	return words, nil
}
