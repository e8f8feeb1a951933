// Package progress carries human-readable progress lines from the scraping
// stages to whoever presents them.
//
// Every Reporter must be safe for concurrent use: download tasks emit from
// their own goroutines.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"behancescraper/pkg/ui"
)

// Reporter receives one progress line at a time
type Reporter interface {
	Emit(line string)
}

// Func adapts a function to the Reporter interface. The function must be
// safe for concurrent use.
type Func func(line string)

// Emit calls f(line)
func (f Func) Emit(line string) { f(line) }

// Nop discards every line
var Nop Reporter = Func(func(string) {})

// Console writes each line to a terminal, optionally colored
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsole creates a console reporter writing to out
func NewConsole(out io.Writer, color bool) *Console {
	return &Console{out: out, color: color}
}

// Emit writes line followed by a newline. In color mode a leading
// "[n/m]" counter is drawn as a progress bar.
func (c *Console) Emit(line string) {
	if c.color {
		line = ui.ColorLine(withBar(line))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

// Transcript accumulates lines in order of emission
type Transcript struct {
	mu    sync.Mutex
	lines []string
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Emit appends line to the transcript
func (t *Transcript) Emit(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
}

// Lines returns a copy of the accumulated lines
func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := make([]string, len(t.lines))
	copy(lines, t.lines)
	return lines
}

// String joins the transcript with a trailing newline after every line
func (t *Transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	for _, line := range t.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

type multi []Reporter

func (m multi) Emit(line string) {
	for _, r := range m {
		r.Emit(line)
	}
}

// Multi fans every line out to all non-nil reporters
func Multi(reporters ...Reporter) Reporter {
	var m multi
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

// withBar replaces a leading "[n/m]" counter with a progress bar
func withBar(line string) string {
	var current, total int
	if _, err := fmt.Sscanf(line, "[%d/%d]", &current, &total); err != nil || total <= 0 {
		return line
	}
	end := strings.IndexByte(line, ']')
	return ui.Bar(current, total) + line[end+1:]
}
