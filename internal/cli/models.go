// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/doover17/chatcli/internal/cloud"
	"github.com/doover17/chatcli/internal/config"
)

func (a *App) newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models available from the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			lister, ok := client.(cloud.ModelLister)
			if !ok {
				return errors.New("the configured backend cannot list models")
			}
			ids, err := lister.ListModels(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(a.Stdout, "Available models:")
			for _, id := range ids {
				fmt.Fprintln(a.Stdout, id)
			}
			return nil
		},
	}
	cmd.Flags().Int(config.KeyTimeout, 0, "HTTP request timeout in seconds (0 = none)")
	return cmd
}
