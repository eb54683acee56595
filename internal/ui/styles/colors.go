// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

var (
	// Purple is the primary accent used for titles and the welcome banner.
	Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

	// Cyan is used for info lines and the header brand.
	Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

	// Emerald marks user turns and slash commands.
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

	// Blue marks assistant turns.
	Blue = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

	// Amber is used for warnings and system messages.
	Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

	// Rose is used for errors.
	Rose = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}
)

// =============================================================================
// ROLE AND STATUS COLORS
// =============================================================================

var (
	UserColor      = Emerald
	AssistantColor = Blue
	SystemColor    = Amber
	WarningColor   = Amber
	DangerColor    = Rose
	InfoColor      = Cyan
)

// =============================================================================
// TEXT AND SURFACE COLORS
// =============================================================================

var (
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}

	// SurfaceDim backs the header and status bar.
	SurfaceDim = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}

	// Overlay is the border color of the help box.
	Overlay = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var (
	// User bubble: white text on blue.
	UserBubbleBg     = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#1E40AF"}
	UserBubbleFg     = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#F9FAFB"}
	UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}

	// Assistant bubble: white text on green.
	AssistantBubbleBg     = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#166534"}
	AssistantBubbleFg     = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#F0FDF4"}
	AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#166534", Dark: "#22C55E"}

	// System bubble: plain text with an amber border.
	SystemBubbleFg     = TextSecondary
	SystemBubbleBorder = Amber
)

// RoleColor returns the accent color for a chat role name. Unknown roles
// get the secondary text color.
func RoleColor(role string) lipgloss.AdaptiveColor {
	switch role {
	case "user":
		return UserColor
	case "assistant":
		return AssistantColor
	case "system":
		return SystemColor
	default:
		return TextSecondary
	}
}
