// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set via ldflags:
//
//	go build -ldflags "-X github.com/doover17/chatcli/internal/cli.Version=1.0.0"
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.Stdout, "chatcli %s\n", Version)
			fmt.Fprintf(a.Stdout, "  Commit:     %s\n", GitCommit)
			fmt.Fprintf(a.Stdout, "  Built:      %s\n", BuildDate)
			fmt.Fprintf(a.Stdout, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.Stdout, "  Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
