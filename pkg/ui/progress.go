package ui

import (
	"fmt"
	"strings"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// Bar renders a fixed-width progress bar such as "[████░░░░] 4/10"
func Bar(current, total int) string {
	filled := 0
	if total > 0 {
		filled = current * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, barWidth-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, current, total)
}

// ColorLine colors a progress line by what it reports
func ColorLine(line string) string {
	switch {
	case strings.HasPrefix(line, ">>"):
		return Green(line)
	case strings.HasPrefix(line, "download ") ||
		strings.HasPrefix(line, "error processing page") ||
		strings.HasPrefix(line, "scrape failed"):
		return Red(line)
	case strings.HasPrefix(line, "["):
		return Cyan(line)
	case strings.HasPrefix(line, "Task complete!"):
		return Magenta(line)
	case strings.HasPrefix(line, "Opening"):
		return Yellow(line)
	default:
		return line
	}
}
