package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/wordlist"
)

var (
	listsAddName     string
	listsShowLetters bool
)

func newListsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show stored word lists",
		Args:  cobra.NoArgs,
		RunE:  runListsCmd,
	}

	addCmd := &cobra.Command{
		Use:   "add FILE",
		Short: "Store a word list from a text file (one word per line)",
		Args:  cobra.ExactArgs(1),
		RunE:  runListsAddCmd,
	}
	addCmd.Flags().StringVar(&listsAddName, "name", "", "list name (default: file name)")

	showCmd := &cobra.Command{
		Use:   "show [ID]",
		Short: "Print the words of a list (default: the selected list)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runListsShowCmd,
	}
	showCmd.Flags().BoolVar(&listsShowLetters, "letters", false, "print how many words start with each letter instead")

	cmd.AddCommand(
		addCmd,
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Rename a stored word list",
			Args:  cobra.ExactArgs(2),
			RunE:  runListsRenameCmd,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a stored word list",
			Args:  cobra.ExactArgs(1),
			RunE:  runListsDeleteCmd,
		},
		&cobra.Command{
			Use:   "select ID",
			Short: "Select the word list used by new sessions",
			Args:  cobra.ExactArgs(1),
			RunE:  runListsSelectCmd,
		},
		&cobra.Command{
			Use:   "available",
			Short: "Show the word lists that can be loaded",
			Args:  cobra.NoArgs,
			RunE:  runListsAvailableCmd,
		},
		showCmd,
	)
	return cmd
}

func runListsCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.sel.Load(ctx); err != nil {
			return err
		}
		lists, err := a.lists.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			return printf(cmd, "No word lists stored. Add one with: spellbee lists add FILE\n")
		}
		selected := ""
		if cur := a.sel.Current(); cur != nil {
			selected = cur.ID
		}
		for _, l := range lists {
			marker := " "
			if l.ID == selected {
				marker = "*"
			}
			if err := printf(cmd, "%s %s  %s (%d words)\n", marker, l.ID, l.Name, l.WordCount); err != nil {
				return err
			}
		}
		return nil
	})
}

func runListsAddCmd(cmd *cobra.Command, args []string) error {
	words, err := wordlist.ReadWords(args[0])
	if err != nil {
		return fmt.Errorf("failed to read word list: %w", err)
	}
	if len(words) == 0 {
		return model.NewValidationError("no valid words found in %s", args[0])
	}
	name := strings.TrimSpace(listsAddName)
	if name == "" {
		name = wordlist.DefaultListName(args[0])
	}
	return withApp(func(ctx context.Context, a *app) error {
		id, err := a.lists.Save(ctx, name, words)
		if err != nil {
			return err
		}
		if _, err := a.sel.Select(ctx, id); err != nil {
			return err
		}
		return printf(cmd, "Saved %q with %d words as %s (selected).\n", name, len(words), id)
	})
}

func runListsRenameCmd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[1])
	if name == "" {
		return model.NewValidationError("list name must not be empty")
	}
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.lists.Rename(ctx, args[0], name); err != nil {
			return err
		}
		return printf(cmd, "Renamed %s to %q.\n", args[0], name)
	})
}

func runListsDeleteCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		list, err := a.lists.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if list == nil {
			return fmt.Errorf("word list %q: %w", args[0], model.ErrNotFound)
		}
		if err := a.lists.Delete(ctx, list.ID); err != nil {
			return err
		}
		return printf(cmd, "Deleted %q.\n", list.Name)
	})
}

func runListsSelectCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		list, err := a.resolveList(ctx, args[0])
		if err != nil {
			return err
		}
		return printf(cmd, "Selected %q (%d words).\n", list.Name, list.WordCount)
	})
}

func runListsAvailableCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		available := a.lists.LoadAvailableLists(ctx)
		if len(available) == 0 {
			return printf(cmd, "No word lists available.\n")
		}
		for _, l := range available {
			line := fmt.Sprintf("%s  %s", l.ID, l.Name)
			if l.Description != "" {
				line += " - " + l.Description
			}
			if err := printf(cmd, "%s\n", line); err != nil {
				return err
			}
		}
		return nil
	})
}

func runListsShowCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		var (
			list *model.WordList
			err  error
		)
		if id == "" {
			list, err = a.resolveList(ctx, "")
		} else {
			list, err = a.lists.Get(ctx, id)
			if err == nil && list == nil {
				err = fmt.Errorf("word list %q: %w", id, model.ErrNotFound)
			}
		}
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("unknown word list %q (see: spellbee lists)", id)
		}
		if err != nil {
			return err
		}
		if listsShowLetters {
			return printLetterCounts(cmd, list.Words)
		}
		return printf(cmd, "%s\n", strings.Join(list.Words, "\n"))
	})
}

func printLetterCounts(cmd *cobra.Command, words []string) error {
	counts := wordlist.LetterCounts(words)
	letters := make([]rune, 0, len(counts))
	for r := range counts {
		letters = append(letters, r)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	for _, r := range letters {
		if err := printf(cmd, "%c  %d\n", r, counts[r]); err != nil {
			return err
		}
	}
	return nil
}
