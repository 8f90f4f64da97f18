package ui

import (
	"fmt"
	"strings"
)

// ProgressBar renders a horizontal completion bar
type ProgressBar struct {
	width      int
	percentage float64
	eta        string
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) *ProgressBar {
	return &ProgressBar{width: width}
}

// SetProgress sets the fraction done, clamped to [0, 1]
func (p *ProgressBar) SetProgress(percentage float64) {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 1 {
		percentage = 1
	}
	p.percentage = percentage
}

// Progress returns the fraction done
func (p *ProgressBar) Progress() float64 {
	return p.percentage
}

// SetETA sets the estimated time remaining
func (p *ProgressBar) SetETA(eta string) {
	p.eta = eta
}

// SetWidth sets the progress bar width
func (p *ProgressBar) SetWidth(width int) {
	p.width = width
}

// Render renders the progress bar
func (p *ProgressBar) Render() string {
	var b strings.Builder

	// Leave room for the percentage
	barWidth := p.width - 8
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(float64(barWidth) * p.percentage)
	b.WriteString(ProgressFullStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(ProgressEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))

	b.WriteString(" ")
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%5.1f%%", p.percentage*100)))

	if p.eta != "" {
		b.WriteString(" ")
		b.WriteString(InfoStyle.Render("ETA: " + p.eta))
	}

	return b.String()
}

// Spinner shows indeterminate activity
type Spinner struct {
	frame   int
	running bool
}

// Tick advances the animation
func (s *Spinner) Tick() {
	if s.running {
		s.frame = (s.frame + 1) % len(SpinnerChars)
	}
}

// SetRunning starts or stops the animation
func (s *Spinner) SetRunning(running bool) {
	s.running = running
}

// Render renders the current frame
func (s *Spinner) Render() string {
	if !s.running {
		return SuccessStyle.Render("✓")
	}
	return InfoStyle.Render(SpinnerChars[s.frame])
}
