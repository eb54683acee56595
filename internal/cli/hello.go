// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doover17/chatcli/internal/config"
	"github.com/doover17/chatcli/internal/model"
)

const greetingSystemPrompt = "You are a friendly assistant."

func (a *App) newHelloCommand() *cobra.Command {
	var (
		name string
		ai   bool
	)
	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Say hello to someone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !ai {
				fmt.Fprintf(a.Stdout, "Hello, %s!\n", name)
				return nil
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			reply, err := client.Complete(cmd.Context(), a.cfg.Model, []model.Message{
				model.NewSystemMessage(greetingSystemPrompt),
				model.NewUserMessage(fmt.Sprintf("Generate a creative greeting for a person named %s.", name)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Stdout, reply)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&name, "name", "n", "world", "name to greet")
	flags.BoolVar(&ai, "ai", false, "use AI to generate the greeting")
	flags.StringP(config.KeyModel, "m", config.DefaultModel, "OpenAI model to use with --ai")
	return cmd
}
