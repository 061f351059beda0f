package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar draws a single status line that is rewritten in place
type ProgressBar struct {
	out             io.Writer
	enabled         bool
	total           int
	current         int
	lastRenderWidth int
	label           string
	bar             progress.Model
}

// NewProgressBar creates a bar for total steps. A disabled bar ignores
// every call, so callers do not need to check.
func NewProgressBar(out io.Writer, total int, enabled bool) *ProgressBar {
	if total <= 0 {
		total = 1
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 36

	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		width := cols - 40
		if width < 16 {
			width = 16
		}
		if width > 64 {
			width = 64
		}
		bar.Width = width
	}

	return &ProgressBar{
		out:     out,
		enabled: enabled,
		total:   total,
		bar:     bar,
	}
}

// Set moves the bar to done steps
func (p *ProgressBar) Set(done int, label string) {
	if !p.enabled {
		return
	}
	if done > p.total {
		done = p.total
	}
	p.current = done
	p.label = label
	p.render()
}

// Finish fills the bar and ends its line
func (p *ProgressBar) Finish(label string) {
	if !p.enabled {
		return
	}
	p.current = p.total
	p.label = label
	p.render()
	fmt.Fprint(p.out, "\n")
	p.lastRenderWidth = 0
}

// Break ends the line the bar is drawn on so that other output starts on a
// line of its own. The next Set draws the bar again below it.
func (p *ProgressBar) Break() {
	if !p.enabled || p.lastRenderWidth == 0 {
		return
	}
	fmt.Fprint(p.out, "\n")
	p.lastRenderWidth = 0
}

func (p *ProgressBar) render() {
	percent := float64(p.current) / float64(p.total)
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	line := fmt.Sprintf("%s %3.0f%% %d/%d %s", p.bar.ViewAs(percent), percent*100, p.current, p.total, strings.TrimSpace(p.label))
	pad := ""
	if p.lastRenderWidth > len(line) {
		pad = strings.Repeat(" ", p.lastRenderWidth-len(line))
	}
	fmt.Fprintf(p.out, "\r%s%s", line, pad)
	p.lastRenderWidth = len(line)
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
