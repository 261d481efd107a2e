package utils

import (
	"fmt"
	"strings"
)

// FormatDuration converts seconds to a human-readable form like "2h 15m 30s".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		return "0s"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}

	return strings.Join(parts, " ")
}

// FormatDurationCompact converts seconds to a clock form like "02:15:30".
func FormatDurationCompact(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// appDisplayNames maps common process names to cleaner display names.
var appDisplayNames = map[string]string{
	"chrome":          "Chrome",
	"google-chrome":   "Chrome",
	"firefox":         "Firefox",
	"chromium":        "Chromium",
	"code":            "VS Code",
	"cursor":          "Cursor",
	"discord":         "Discord",
	"spotify":         "Spotify",
	"slack":           "Slack",
	"teams":           "Teams",
	"nautilus":        "Files",
	"gnome-terminal":  "Terminal",
	"konsole":         "Konsole",
	"alacritty":       "Alacritty",
	"kitty":           "Kitty",
	"evince":          "Document Viewer",
	"idle":            "Idle",
}

// SanitizeAppName cleans an application name for display only. Session
// identity always uses the raw name.
func SanitizeAppName(appName string) string {
	name := appName
	if strings.HasSuffix(strings.ToLower(name), ".exe") {
		name = name[:len(name)-4]
	}

	if display, ok := appDisplayNames[strings.ToLower(name)]; ok {
		return display
	}
	return name
}

// Truncate shortens text with an ellipsis when it exceeds maxLength
// runes. Counting runes keeps multi-byte window titles valid UTF-8.
func Truncate(text string, maxLength int) string {
	if maxLength < 4 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}
