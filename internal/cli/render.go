// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/doover17/chatcli/internal/model"
	"github.com/doover17/chatcli/internal/ui/styles"
)

// renderer prints conversation content to one output. Assistant replies go
// through glamour when the output is a color terminal and are printed as
// plain text otherwise.
type renderer struct {
	out   io.Writer
	width int
	md    *glamour.TermRenderer
}

func newRenderer(out io.Writer) *renderer {
	r := &renderer{out: out, width: terminalWidth(out)}
	if isTerminal(out) && ColorsEnabled() {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(r.width-4),
		)
		if err != nil {
			log.Debug().Err(err).Msg("markdown rendering disabled")
		} else {
			r.md = md
		}
	}
	return r
}

// markdown renders s, falling back to s itself.
func (r *renderer) markdown(s string) string {
	if r.md == nil {
		return s
	}
	out, err := r.md.Render(s)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown")
		return s
	}
	return strings.Trim(out, "\n")
}

// reply prints an assistant reply after a blank line.
func (r *renderer) reply(text string) {
	label := assistantLabelStyle.Render("Assistant>")
	if r.md == nil {
		fmt.Fprintf(r.out, "\n%s %s\n", label, text)
		return
	}
	fmt.Fprintf(r.out, "\n%s\n%s\n", label, r.markdown(text))
}

// panel prints one message as a bordered panel titled with its role.
func (r *renderer) panel(m model.Message) {
	color := styles.RoleColor(string(m.Role))
	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(m.Role.DisplayName())

	content := m.Content
	if m.Role == model.RoleAssistant {
		content = r.markdown(content)
	}
	fmt.Fprintln(r.out, title)
	fmt.Fprintln(r.out, panelStyle(color, r.width-2).Render(content))
}

// conversation prints every message of c as panels.
func (r *renderer) conversation(c *model.Conversation) {
	fmt.Fprintln(r.out, infoStyle.Render(fmt.Sprintf("Conversation %s (%s)", c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04:05"))))
	for _, m := range c.Messages {
		fmt.Fprintln(r.out)
		r.panel(m)
	}
}
