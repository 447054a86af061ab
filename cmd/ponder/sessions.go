package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/ponder"
)

var errNoDatabase = errors.New("no archive database configured (set --database-url or PONDER_DATABASE_URL)")

func newSessionsCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect archived thinking sessions",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List the most recently cleared sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withArchive(cfg, func(a ponder.Archive) error {
				return listSessions(cmd.Context(), cmd.OutOrStdout(), a, limit)
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", ponder.DefaultSummaryWindow, "number of sessions to show")

	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the thoughts of an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArchive(cfg, func(a ponder.Archive) error {
				return showSession(cmd.Context(), cmd.OutOrStdout(), a, args[0])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Remove an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArchive(cfg, func(a ponder.Archive) error {
				return deleteSession(cmd.Context(), cmd.OutOrStdout(), a, args[0])
			})
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func withArchive(cfg *config, fn func(ponder.Archive) error) error {
	archive, err := openArchive(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if archive == nil {
		return errNoDatabase
	}
	defer archive.Close()
	return fn(archive)
}

func listSessions(ctx context.Context, w io.Writer, a ponder.Archive, limit int) error {
	sessions, err := a.ListSessions(ctx, limit)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d thoughts\t%d branches\n",
			s.ID, s.ClearedAt.Format(time.RFC3339), s.ThoughtCount, s.BranchCount); err != nil {
			return err
		}
	}
	return nil
}

func showSession(ctx context.Context, w io.Writer, a ponder.Archive, id string) error {
	session, err := a.GetSession(ctx, id)
	if err != nil {
		return err
	}
	rows, err := a.GetThoughts(ctx, id)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "session %s cleared %s\n", session.ID, session.ClearedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	for _, row := range rows {
		t := row.Thought()
		if _, err := fmt.Fprintln(w, ponder.Format(t, max(t.TotalEstimate, t.Number))); err != nil {
			return err
		}
	}
	return nil
}

func deleteSession(ctx context.Context, w io.Writer, a ponder.Archive, id string) error {
	if err := a.DeleteSession(ctx, id); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "deleted %s\n", id)
	return err
}
