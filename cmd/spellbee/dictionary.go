package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/spellbee/internal/dictionary"
	"github.com/verte-zerg/spellbee/internal/model"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the dictionary API key",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set KEY",
			Short: "Store the dictionary API key",
			Args:  cobra.ExactArgs(1),
			RunE:  runAPIKeySetCmd,
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the stored key, masked",
			Args:  cobra.NoArgs,
			RunE:  runAPIKeyShowCmd,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored key",
			Args:  cobra.NoArgs,
			RunE:  runAPIKeyClearCmd,
		},
	)
	return cmd
}

func runAPIKeySetCmd(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])
	if key == "" {
		return model.NewValidationError("API key must not be empty")
	}
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.prefs.Set(ctx, model.PrefAPIKey, key); err != nil {
			return err
		}
		return printf(cmd, "Saved API key %s\n", dictionary.MaskKey(key))
	})
}

func runAPIKeyShowCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		key := a.apiKey(ctx)
		if key == "" {
			return printf(cmd, "No API key stored.\n")
		}
		return printf(cmd, "%s\n", dictionary.MaskKey(key))
	})
}

func runAPIKeyClearCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.prefs.Remove(ctx, model.PrefAPIKey); err != nil {
			return err
		}
		return printf(cmd, "API key removed.\n")
	})
}

func newDefineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "define WORD",
		Short: "Look up a word in the dictionary",
		Args:  cobra.ExactArgs(1),
		RunE:  runDefineCmd,
	}
}

func runDefineCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		entry, err := a.dictionary().Lookup(ctx, a.apiKey(ctx), args[0])
		if errors.Is(err, dictionary.ErrNoAPIKey) {
			logErrln("Store a Merriam-Webster collegiate API key with: spellbee apikey set KEY")
			return err
		}
		if err != nil {
			return err
		}
		lines := []string{entry.Word}
		for _, field := range []struct{ label, value string }{
			{"Pronunciation", entry.Pronunciation},
			{"Part of speech", entry.PartOfSpeech},
			{"Definition", entry.Definition},
			{"Origin", entry.Etymology},
			{"Example", entry.Example},
		} {
			if field.value != "" {
				lines = append(lines, field.label+": "+field.value)
			}
		}
		return printf(cmd, "%s\n", strings.Join(lines, "\n"))
	})
}
