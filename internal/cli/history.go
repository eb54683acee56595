// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doover17/chatcli/internal/config"
	"github.com/doover17/chatcli/internal/export"
	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/storage"
)

func (a *App) newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and export saved conversations",
	}
	cmd.PersistentFlags().StringP(config.KeyHistoryFile, "f", config.DefaultHistoryFile, "chat history file")

	cmd.AddCommand(
		a.newHistoryListCommand(),
		a.newHistoryShowCommand(),
		a.newHistoryExportCommand(),
	)
	return cmd
}

func (a *App) newHistoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved conversations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			h, err := store.Load()
			if storage.IsCorrupt(err) {
				a.warnCorrupt()
			} else if err != nil {
				return err
			}
			fmt.Fprintln(a.Stdout, storage.FormatList(h))
			return nil
		},
	}
}

func (a *App) newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|last>",
		Short: "Print a conversation",
		Args:  a.exactArgs(1, "history show needs a conversation id or \"last\""),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findConversation(args[0])
			if err != nil {
				return err
			}
			newRenderer(a.Stdout).conversation(c)
			return nil
		},
	}
}

func (a *App) newHistoryExportCommand() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <id|last>",
		Short: "Export a conversation as Markdown, JSON or YAML",
		Args:  a.exactArgs(1, "history export needs a conversation id or \"last\""),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return &UsageError{Message: err.Error()}
			}
			c, err := a.findConversation(args[0])
			if err != nil {
				return err
			}
			exporter, err := export.New(f, export.DefaultOptions())
			if err != nil {
				return err
			}

			if output == "-" {
				data, err := exporter.Export(c)
				if err != nil {
					return err
				}
				_, err = a.Stdout.Write(data)
				return err
			}
			path, err := export.ExportToFile(c, exporter, output, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Stdout, "Exported to "+path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatMarkdown), "export format (markdown, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout (default conversation_<id>.<ext>)")
	return cmd
}

// findConversation loads the history and looks up id ("last" for the most
// recent conversation). A corrupt file is reported as such.
func (a *App) findConversation(id string) (*model.Conversation, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return store.Conversation(id)
}

// exactArgs is cobra.ExactArgs with a usage error.
func (a *App) exactArgs(n int, msg string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Message: msg}
		}
		return nil
	}
}
