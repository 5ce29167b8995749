package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/kalambet/mercuryprefs/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and restore earlier versions of the settings file",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		snaps, err := env.history.ListSnapshots(limit, offset)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			printStep("No snapshots recorded yet")
			return nil
		}

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintf(tw, "ID\tCREATED\tREASON\n")
		for _, s := range snaps {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Reason)
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the document recorded in a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := getSnapshot(env.history, args[0])
		if err != nil {
			return err
		}
		writeDocument(cmd.OutOrStdout(), []byte(snap.Document))
		return nil
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Write a snapshot back to the settings file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			return restoreRemote(cmd.Context(), args[0])
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := getSnapshot(env.history, args[0])
		if err != nil {
			return err
		}
		if err := env.settings.Restore([]byte(snap.Document)); err != nil {
			return fmt.Errorf("restoring snapshot: %w", err)
		}
		printSuccess("Restored settings from %s (%s)", snap.ID, snap.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum snapshots to list")
	historyListCmd.Flags().Int("offset", 0, "snapshots to skip")
	historyRestoreCmd.Flags().Bool("remote", false, "ask the running server to restore")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRestoreCmd)
}

func getSnapshot(history *storage.Store, id string) (storage.Snapshot, error) {
	snap, err := history.GetSnapshot(id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Snapshot{}, fmt.Errorf("no snapshot with id %s (run 'mercuryprefs history list')", id)
	}
	return snap, err
}

func restoreRemote(ctx context.Context, id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	resp, err := client.post(ctx, "/history/"+url.PathEscape(id)+"/restore", nil)
	if err != nil {
		return err
	}
	var result map[string]string
	if err := decodeJSON(resp, &result); err != nil {
		return err
	}
	printSuccess("Server restored settings from %s", result["id"])
	return nil
}
