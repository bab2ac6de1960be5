package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	barWidth       = 30
	redrawInterval = 50 * time.Millisecond
)

// progressBar draws a single-line progress bar. Redraws are rate limited; the final 100% always draws.
type progressBar struct {
	w       io.Writer
	enabled bool
	limiter *rate.Limiter
	last    int
	drawn   bool
}

func newProgressBar(w io.Writer, enabled bool) *progressBar {
	return &progressBar{
		w:       w,
		enabled: enabled,
		limiter: rate.NewLimiter(rate.Every(redrawInterval), 1),
		last:    -1,
	}
}

// Update records percent and redraws when allowed.
func (p *progressBar) Update(percent int) {
	if !p.enabled || percent == p.last {
		return
	}
	p.last = percent
	if percent < 100 && !p.limiter.Allow() {
		return
	}
	p.draw(percent)
}

// Finish ends the line started by the bar.
func (p *progressBar) Finish() {
	if !p.enabled || !p.drawn {
		return
	}
	fmt.Fprintln(p.w)
}

func (p *progressBar) draw(percent int) {
	filled := barWidth * percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(p.w, "\rReading contacts %s %3d%%", bar, percent)
	p.drawn = true
}
