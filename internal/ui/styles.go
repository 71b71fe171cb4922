package ui

import (
	"fmt"
	"time"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorOK     = 114 // green
	colorWarn   = 215 // orange
	colorMuted  = 245 // medium gray
)

var noColor = true

// Configure enables color when ShouldUseColor allows it. Call once at startup.
func Configure() {
	noColor = !ShouldUseColor()
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

func render(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderID returns a map ID in the accent color.
func RenderID(s string) string { return render(colorAccent, s) }

// RenderOK returns s in green.
func RenderOK(s string) string { return render(colorOK, s) }

// RenderWarn returns s in orange.
func RenderWarn(s string) string { return render(colorWarn, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// FormatSize renders a byte count the way mapctl prints payload sizes.
func FormatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatTime renders an event timestamp in local time.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
