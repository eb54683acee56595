// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strconv"
	"strings"

	"github.com/doover17/chatcli/internal/util"
)

const (
	idColumn      = 18
	createdColumn = 17
	countColumn   = 9
	previewWidth  = 50
)

// FormatList renders h as a table of conversations, oldest first.
func FormatList(h History) string {
	if len(h) == 0 {
		return "No conversations found."
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("ID", idColumn) + " " +
		util.PadRight("CREATED", createdColumn) + " " +
		util.PadRight("MESSAGES", countColumn) + " FIRST PROMPT\n")
	sb.WriteString(strings.Repeat("-", idColumn+createdColumn+countColumn+previewWidth+3) + "\n")

	for _, c := range h {
		preview := "(no messages)"
		if m := c.FirstUserMessage(); m != nil {
			preview = util.TruncateWidth(util.SingleLine(m.Content), previewWidth)
		}
		created := ""
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		sb.WriteString(util.PadRight(util.TruncateWidth(c.ID, idColumn), idColumn) + " " +
			util.PadRight(created, createdColumn) + " " +
			util.PadRight(strconv.Itoa(len(c.Messages)), countColumn) + " " +
			preview + "\n")
	}
	return sb.String()
}
