package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/spellbee/internal/historyui"
	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/session"
	"github.com/verte-zerg/spellbee/internal/stats"
)

const defaultTrendWindow = 3

var (
	sessionsExportJSON bool
	sessionsExportDir  string
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Browse practice sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}

	exportCmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a session as a text report or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsExportCmd,
	}
	exportCmd.Flags().BoolVar(&sessionsExportJSON, "json", false, "export JSON that can be imported again")
	exportCmd.Flags().StringVar(&sessionsExportDir, "dir", ".", "output directory")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show ID",
			Short: "Print the results of a session",
			Args:  cobra.ExactArgs(1),
			RunE:  runSessionsShowCmd,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a session (statistics are kept)",
			Args:  cobra.ExactArgs(1),
			RunE:  runSessionsDeleteCmd,
		},
		exportCmd,
		&cobra.Command{
			Use:   "import FILE",
			Short: "Import a session exported as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  runSessionsImportCmd,
		},
	)
	return cmd
}

func (a *app) session(ctx context.Context, id string) (*model.TestSession, error) {
	sess, err := a.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session %q: %w", id, model.ErrNotFound)
	}
	return sess, nil
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if !interactive() {
			all, err := a.sessions.GetAll(ctx)
			if err != nil {
				return err
			}
			return stats.RenderSessionTable(cmd.OutOrStdout(), all)
		}

		m := historyui.NewModel(ctx, a.sessions, a.stats, historyui.Options{
			ExportDir: ".",
			Window:    defaultTrendWindow,
			Log:       a.log,
		})
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		if id := m.ResumeID(); id != "" {
			return a.runPractice(ctx, cmd, id)
		}
		return nil
	})
}

func runSessionsShowCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		sess, err := a.session(ctx, args[0])
		if err != nil {
			return err
		}
		if err := session.WriteText(cmd.OutOrStdout(), *sess); err != nil {
			return err
		}
		return printf(cmd, "\n\nDuration: %s\nStatus: %s\n", session.FormatDuration(sess.StartTime, sess.EndTime), stats.Status(*sess))
	})
}

func runSessionsDeleteCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		sess, err := a.session(ctx, args[0])
		if err != nil {
			return err
		}
		if err := a.sessions.Delete(ctx, sess.ID); err != nil {
			return err
		}
		return printf(cmd, "Deleted %q.\n", sess.Name)
	})
}

func runSessionsExportCmd(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		sess, err := a.session(ctx, args[0])
		if err != nil {
			return err
		}
		if err := os.MkdirAll(sessionsExportDir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
		path, err := historyui.ExportSession(sessionsExportDir, *sess, sessionsExportJSON)
		if err != nil {
			return err
		}
		return printf(cmd, "Exported to %s\n", path)
	})
}

func runSessionsImportCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	return withApp(func(ctx context.Context, a *app) error {
		id, err := a.sessions.Import(ctx, data)
		if err != nil {
			return err
		}
		sess, err := a.session(ctx, id)
		if err != nil {
			return err
		}
		return printf(cmd, "Imported %q as %s.\n", sess.Name, id)
	})
}
