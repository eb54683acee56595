// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doover17/chatcli/internal/cloud"
	"github.com/doover17/chatcli/internal/config"
	"github.com/doover17/chatcli/internal/logging"
	"github.com/doover17/chatcli/internal/session"
	"github.com/doover17/chatcli/internal/storage"
	"github.com/doover17/chatcli/internal/ui/chat"
)

// annotationNoConfigFile marks commands that must not read --config.
const annotationNoConfigFile = "chatcli/no-config-file"

// missingKeyHint follows the "not set" error when no API key is configured.
const missingKeyHint = "Please create a .env file with your OpenAI API key or set it in your environment."

// =============================================================================
// APP
// =============================================================================

// App holds the I/O streams and the collaborators of one chatcli invocation.
// Tests build one with NewApp and replace the fields they need.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewClient builds the completion backend from the effective config.
	NewClient func(cfg *config.Config) (cloud.Completer, error)

	// RunTUI runs the full-screen front-end until the user quits.
	RunTUI func(ctx context.Context, opts chat.Options) error

	// EnvFiles are loaded into the environment before configuration is read.
	// Default: .env in the working directory
	EnvFiles []string

	v          *viper.Viper
	cfg        *config.Config
	configFile string
}

// NewApp returns an App wired to the process streams and the OpenAI backend.
func NewApp() *App {
	return &App{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		NewClient: NewOpenAIClient,
		RunTUI:    chat.Run,
	}
}

// NewOpenAIClient builds the default completion backend.
func NewOpenAIClient(cfg *config.Config) (cloud.Completer, error) {
	return cloud.NewOpenAIClient(cloud.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout(),
	})
}

// Execute runs chatcli with the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	return NewApp().Execute(ctx, os.Args[1:])
}

// Execute runs the command tree with args, reports any error on Stderr and
// returns the exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.NewRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		a.printError(err)
	}
	return GetExitCode(err)
}

func (a *App) printError(err error) {
	if errors.Is(err, cloud.ErrNotConfigured) {
		fmt.Fprintln(a.Stderr, ErrorStyle.Render("Error: "+cloud.ErrNotConfigured.Error()+"."))
		fmt.Fprintln(a.Stderr, missingKeyHint)
		return
	}
	fmt.Fprintln(a.Stderr, ErrorStyle.Render("Error: "+err.Error()))
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the chatcli command tree.
func (a *App) NewRootCommand() *cobra.Command {
	a.v = viper.New()

	root := &cobra.Command{
		Use:   "chatcli",
		Short: "Chat with OpenAI models from the command line",
		Long: "An interactive CLI chat application that uses OpenAI models to provide intelligent responses.\n\n" +
			"Conversations are kept in a JSON history file and can be continued from the\n" +
			"line-based chat or the full-screen terminal UI.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	root.SetVersionTemplate("chatcli version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ~/.chatcli/config.toml)")
	flags.String(config.KeyBaseURL, "", "OpenAI-compatible API endpoint")
	flags.String(config.KeyLogLevel, config.DefaultLogLevel, "log level (debug, info, warn, error, fatal)")
	flags.String(config.KeyLogFormat, config.DefaultLogFormat, "log format (text, json)")
	flags.String(config.KeyLogFile, "", "also write logs to this file")
	flags.Bool(config.KeyWithCaller, false, "log source file and line")

	root.AddCommand(
		a.newChatCommand(),
		a.newTUICommand(),
		a.newHelloCommand(),
		a.newModelsCommand(),
		a.newHistoryCommand(),
		a.newConfigCommand(),
		a.newVersionCommand(),
	)
	return root
}

// setup merges every configuration source and initializes logging. Only the
// executing command's flags are bound, so commands can share key names.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.EnvFiles...); err != nil {
		return err
	}
	configFile := a.configFile
	if cmd.Annotations[annotationNoConfigFile] != "" {
		configFile = ""
	}
	if err := config.Init(a.v, configFile); err != nil {
		return err
	}
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := config.FromViper(a.v)
	if err := cfg.Validate(); err != nil {
		return &UsageError{Message: err.Error()}
	}
	a.cfg = cfg

	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		WithCaller: cfg.WithCaller,
		Quiet:      cmd.Name() == "tui",
	}); err != nil {
		return &UsageError{Message: err.Error()}
	}

	log.Debug().
		Str("command", cmd.CommandPath()).
		Str("model", cfg.Model).
		Str("history", cfg.HistoryFile).
		Str("config", a.v.ConfigFileUsed()).
		Msg("configuration loaded")
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// openStore opens the configured history file.
func (a *App) openStore() (*storage.HistoryStore, error) {
	return storage.NewHistoryStore(a.cfg.HistoryFile)
}

// openSession loads the history and resolves the current conversation,
// printing the corrupt-file warning when needed.
func (a *App) openSession(client cloud.Completer, interactive bool) (*session.Session, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return a.openSessionIn(store, client, interactive)
}

func (a *App) openSessionIn(store *storage.HistoryStore, client cloud.Completer, interactive bool) (*session.Session, error) {
	sess, err := session.Open(store, client, session.Options{
		Model:        a.cfg.Model,
		SystemPrompt: a.cfg.SystemPrompt,
		Interactive:  interactive,
	})
	if err != nil {
		return nil, err
	}
	if sess.LoadWarning() != nil {
		a.warnCorrupt()
	}
	return sess, nil
}

func (a *App) warnCorrupt() {
	fmt.Fprintln(a.Stderr, WarningStyle.Render("Warning: History file is corrupt. Starting fresh."))
}

// client builds the completion backend; a missing API key surfaces as
// cloud.ErrNotConfigured.
func (a *App) client() (cloud.Completer, error) {
	if a.cfg.APIKey == "" {
		return nil, cloud.ErrNotConfigured
	}
	return a.NewClient(a.cfg)
}
