// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the color palette and lipgloss styles shared by the
line-mode chat and the full-screen TUI.

All colors are lipgloss.AdaptiveColor values, so they switch between the
light and dark variants based on the terminal background.

# Roles

  - UserColor (Emerald) - user labels and prompts
  - AssistantColor (Blue) - assistant labels
  - SystemColor (Amber) - system messages

Message bubbles follow the same split: user turns on a blue background and
assistant turns on a green one.

# Usage

	theme := styles.NewTheme()
	fmt.Println(theme.Label("user").Render("You: ") + theme.Bubble("user").Render(text))
*/
package styles
