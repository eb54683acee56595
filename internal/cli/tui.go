// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/doover17/chatcli/internal/config"
	"github.com/doover17/chatcli/internal/session"
	"github.com/doover17/chatcli/internal/ui/chat"
)

func (a *App) newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the full-screen chat interface",
		Long: "Launch a full-screen terminal chat that continues the last conversation.\n\n" +
			"Press F1 inside the interface for the keyboard shortcuts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			// The corrupt-file warning is shown inside the UI.
			sess, err := session.Open(store, client, session.Options{
				Model:        a.cfg.Model,
				SystemPrompt: a.cfg.SystemPrompt,
				Interactive:  true,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			changes, err := store.Watch(ctx)
			if err != nil {
				log.Warn().Err(err).Str("path", store.Path()).Msg("history file will not be watched")
			}

			return a.RunTUI(ctx, chat.Options{
				Session: sess,
				Changes: changes,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringP(config.KeyHistoryFile, "f", config.DefaultHistoryFile, "file to store chat history")
	flags.StringP(config.KeyModel, "m", config.DefaultModel, "OpenAI model to use for chat")
	flags.StringP(config.KeySystemPrompt, "s", config.DefaultSystemPrompt, "system prompt for new conversations")
	flags.Int(config.KeyTimeout, 0, "HTTP request timeout in seconds (0 = none)")
	return cmd
}
