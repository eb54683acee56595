// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/doover17/chatcli/internal/config"
	"github.com/doover17/chatcli/internal/session"
	"github.com/doover17/chatcli/internal/storage"
)

type chatOptions struct {
	interactive   bool
	noInteractive bool
	query         string
}

func (a *App) newChatCommand() *cobra.Command {
	opts := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session with an AI assistant",
		Long: "Have a conversation with an OpenAI model from the command line.\n\n" +
			"Interactive mode continues the last conversation in the history file.\n" +
			"With --no-interactive a new conversation is started for the single --query.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChat(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.interactive, "interactive", "i", true, "run in interactive mode")
	flags.BoolVarP(&opts.noInteractive, "no-interactive", "n", false, "process a single query and exit")
	flags.StringVarP(&opts.query, "query", "q", "", "single query to process (non-interactive mode)")
	flags.StringP(config.KeyModel, "m", config.DefaultModel, "OpenAI model to use for chat")
	flags.StringP(config.KeyHistoryFile, "f", config.DefaultHistoryFile, "file to store chat history")
	flags.StringP(config.KeySystemPrompt, "s", config.DefaultSystemPrompt, "system prompt to set the AI behavior")
	flags.Int(config.KeyTimeout, 0, "HTTP request timeout in seconds (0 = none)")
	return cmd
}

func (a *App) runChat(ctx context.Context, opts *chatOptions) error {
	interactive := opts.interactive && !opts.noInteractive
	if !interactive && strings.TrimSpace(opts.query) == "" {
		return &UsageError{Message: "--query/-q is required in non-interactive mode."}
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	sess, err := a.openSession(client, interactive)
	if err != nil {
		return err
	}

	r := newRenderer(a.Stdout)
	if !interactive {
		return a.singleQuery(ctx, sess, r, opts.query)
	}
	return a.repl(ctx, sess, r, newLineReader(a.Stdin, a.Stdout), opts.query)
}

// singleQuery runs one turn and saves. A failed turn is saved too, with the
// user message and no reply, and its error returned.
func (a *App) singleQuery(ctx context.Context, sess *session.Session, r *renderer, query string) error {
	reply, turnErr := sess.Send(ctx, query)
	if turnErr == nil {
		r.reply(reply)
	}
	if err := sess.Save(); err != nil {
		return err
	}
	return turnErr
}

// =============================================================================
// INTERACTIVE LOOP
// =============================================================================

// repl reads user turns until exit, quit, Ctrl+C or end of input. The full
// history is saved after every turn.
func (a *App) repl(ctx context.Context, sess *session.Session, r *renderer, in lineReader, first string) error {
	defer in.Close()

	fmt.Fprintln(a.Stdout, welcomeStyle.Render("Chat session started. Type 'exit', 'quit', or press Ctrl+C to end the conversation."))
	fmt.Fprintln(a.Stdout, infoStyle.Render("Using model: "+sess.Model()))

	pending := strings.TrimSpace(first)
	for {
		var line string
		if pending != "" {
			line, pending = pending, ""
		} else {
			fmt.Fprintln(a.Stdout)
			var err error
			line, err = in.Prompt("You> ")
			if errors.Is(err, errInterrupted) {
				fmt.Fprintln(a.Stdout, "\nChat session ended.")
				break
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if lower := strings.ToLower(text); lower == "exit" || lower == "quit" {
			break
		}
		if strings.HasPrefix(text, "/") {
			a.slashCommand(sess, text)
			continue
		}

		reply, turnErr := sess.Send(ctx, text)
		if turnErr != nil {
			fmt.Fprintln(a.Stderr, ErrorStyle.Render("Error: "+turnErr.Error()))
		} else {
			r.reply(reply)
		}
		if err := sess.Save(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			fmt.Fprintln(a.Stdout, "\nChat session ended.")
			break
		}
	}

	fmt.Fprintln(a.Stdout, infoStyle.Render("Chat history saved to "+sess.HistoryPath()))
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

type slashCommand struct {
	name  string
	args  string
	usage string
}

var slashCommands = []slashCommand{
	{"/help", "", "show this help"},
	{"/new", "", "start a new conversation"},
	{"/model", "[name]", "show or switch the model"},
	{"/history", "", "list saved conversations"},
	{"/clear", "", "clear the screen"},
}

func (a *App) slashCommand(sess *session.Session, text string) {
	fields := strings.Fields(text)
	name, args := strings.ToLower(fields[0]), fields[1:]
	log.Debug().Str("command", name).Msg("slash command")

	switch name {
	case "/help", "/?":
		fmt.Fprintln(a.Stdout, "Commands:")
		for _, c := range slashCommands {
			fmt.Fprintf(a.Stdout, "  %s %s\n", commandStyle.Render(fmt.Sprintf("%-14s", strings.TrimSpace(c.name+" "+c.args))), c.usage)
		}
		fmt.Fprintln(a.Stdout, "  "+commandStyle.Render(fmt.Sprintf("%-14s", "exit, quit"))+" end the session")
	case "/new":
		c := sess.NewConversation()
		fmt.Fprintln(a.Stdout, infoStyle.Render("New chat started ("+c.ID+")."))
	case "/model":
		if len(args) > 0 {
			sess.SetModel(args[0])
		}
		fmt.Fprintln(a.Stdout, infoStyle.Render("Using model: "+sess.Model()))
	case "/history":
		fmt.Fprintln(a.Stdout, storage.FormatList(sess.History()))
	case "/clear":
		clearScreen(a.Stdout)
	default:
		fmt.Fprintln(a.Stdout, WarningStyle.Render("Unknown command: "+name+". Type /help for commands."))
	}
}
