// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestRoleColor(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"user", UserColor.Dark},
		{"assistant", AssistantColor.Dark},
		{"system", SystemColor.Dark},
		{"tool", TextSecondary.Dark},
	}
	for _, tt := range tests {
		if got := RoleColor(tt.role).Dark; got != tt.want {
			t.Errorf("RoleColor(%q).Dark = %s, want %s", tt.role, got, tt.want)
		}
	}
}

func TestThemeRendersContent(t *testing.T) {
	theme := NewTheme()
	for _, role := range []string{"user", "assistant", "system"} {
		out := theme.Bubble(role).Render("hello")
		if !strings.Contains(out, "hello") {
			t.Errorf("Bubble(%q) dropped content: %q", role, out)
		}
		if !strings.Contains(theme.Label(role).Render("You: "), "You:") {
			t.Errorf("Label(%q) dropped content", role)
		}
	}
}
