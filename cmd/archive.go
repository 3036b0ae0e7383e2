/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/phonebook-api/apiserver/config"
	"github.com/phonebook-api/apiserver/internal/services"
	"github.com/phonebook-api/apiserver/internal/storage"
	"github.com/phonebook-api/apiserver/types"
	"github.com/spf13/cobra"
)

// archiveReader is the read side of *storage.Storage.
type archiveReader interface {
	List(ctx context.Context, prefix string) ([]string, error)
	GetJSON(ctx context.Context, key string, v any) error
}

// archiveCmd groups tooling for snapshots of deleted accounts.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect snapshots of deleted accounts",
}

var archiveListCmd = &cobra.Command{
	Use:   "list <account-id>",
	Short: "List the snapshot keys stored for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, err := strconv.Atoi(args[0])
		if err != nil || accountID < 1 {
			return fmt.Errorf("invalid account id %q", args[0])
		}
		objects, err := openArchive(cmd.Context())
		if err != nil {
			return err
		}
		return listArchives(cmd.Context(), objects, accountID, cmd.OutOrStdout())
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print a stored account snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objects, err := openArchive(cmd.Context())
		if err != nil {
			return err
		}
		return showArchive(cmd.Context(), objects, args[0], cmd.OutOrStdout())
	},
}

func openArchive(ctx context.Context) (*storage.Storage, error) {
	cfg := config.LoadConfig()
	objects, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		return nil, errors.New("STORAGE_BACKEND is not configured")
	}
	return objects, nil
}

func listArchives(ctx context.Context, objects archiveReader, accountID int, w io.Writer) error {
	keys, err := objects.List(ctx, services.ArchivePrefix(accountID))
	if err != nil {
		return fmt.Errorf("list archives: %w", err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no archives for account %d", accountID)
	}
	for _, key := range keys {
		if _, err := fmt.Fprintln(w, key); err != nil {
			return err
		}
	}
	return nil
}

func showArchive(ctx context.Context, objects archiveReader, key string, w io.Writer) error {
	var archive types.AccountArchive
	if err := objects.GetJSON(ctx, key, &archive); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("archive %s not found", key)
		}
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(archive)
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd)
}
