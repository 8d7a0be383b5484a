package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	progressWidth    = 40
	progressInterval = 100 * time.Millisecond
)

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// barProgress draws a single redrawn progress line
type barProgress struct {
	w         io.Writer
	total     uint64
	processed uint64
	lastDraw  time.Time
}

func newBarProgress(w io.Writer) *barProgress {
	return &barProgress{w: w}
}

func (p *barProgress) Start(total uint64) {
	p.total = total
	p.processed = 0
	p.draw()
}

func (p *barProgress) Increment() {
	p.processed++
	if time.Since(p.lastDraw) >= progressInterval || p.processed == p.total {
		p.draw()
	}
}

func (p *barProgress) Finish() {
	p.draw()
	fmt.Fprintln(p.w)
}

func (p *barProgress) draw() {
	p.lastDraw = time.Now()
	fmt.Fprintf(p.w, "\rChecking files %s %d/%d", renderBar(p.processed, p.total, progressWidth), p.processed, p.total)
}

// renderBar returns a bar of width cells with the done fraction filled
func renderBar(done, total uint64, width int) string {
	filled := width
	if total > 0 {
		filled = int(done * uint64(width) / total)
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("━", filled) + strings.Repeat("╌", width-filled)
}
