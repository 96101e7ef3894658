package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Status colors as 0xRRGGBB.
const (
	ColorAccepted = 0x3fb950
	ColorRejected = 0xd29922
	ColorQuiet    = 0x8b949e
	ColorFailed   = 0xf85149
	ColorAccent   = 0x58a6ff
)

// Colorize applies the given 0xRRGGBB color to the text using lipgloss.
func Colorize(text string, color int) string {
	hexColor := fmt.Sprintf("#%06x", color)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
	return style.Render(text)
}

// StatusColor picks the color for a pass outcome. Quiet rejections are
// expected by the mod author and are shown muted.
func StatusColor(status string, quiet bool) int {
	switch status {
	case "accepted":
		return ColorAccepted
	case "rejected":
		if quiet {
			return ColorQuiet
		}
		return ColorRejected
	case "failed":
		return ColorFailed
	default:
		return ColorQuiet
	}
}
