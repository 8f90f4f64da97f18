package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Laplace1814/honggfuzz/internal/generator"
	"github.com/Laplace1814/honggfuzz/internal/mutator"
	"github.com/Laplace1814/honggfuzz/internal/report"
)

func TestProgressBar(t *testing.T) {
	bar := NewProgressBar(50)
	bar.SetProgress(0.5)

	out := bar.Render()
	if !strings.Contains(out, "50.0%") {
		t.Errorf("Expected 50.0%% in output, got %q", out)
	}
}

func TestProgressBar_Bounds(t *testing.T) {
	bar := NewProgressBar(50)

	bar.SetProgress(-0.5)
	if bar.Progress() != 0 {
		t.Errorf("Expected 0, got %v", bar.Progress())
	}

	bar.SetProgress(1.5)
	if bar.Progress() != 1 {
		t.Errorf("Expected 1, got %v", bar.Progress())
	}
	if !strings.Contains(bar.Render(), "100.0%") {
		t.Error("Expected full bar")
	}
}

func TestSpinner(t *testing.T) {
	s := &Spinner{running: true}
	first := s.Render()
	s.Tick()
	if s.Render() == first {
		t.Error("Expected spinner to advance")
	}

	s.SetRunning(false)
	if !strings.Contains(s.Render(), "✓") {
		t.Error("Expected check mark when stopped")
	}
}

func TestProgressModel_TickUntilDone(t *testing.T) {
	stats := generator.Stats{Target: 10, Generated: 4, Running: true, Elapsed: time.Second}
	m := NewProgressModel(func() generator.Stats { return stats })

	_, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("Expected another tick while running")
	}
	if m.bar.Progress() != 0.4 {
		t.Errorf("Expected progress 0.4, got %v", m.bar.Progress())
	}
	if !strings.Contains(m.View(), "4 / 10") {
		t.Errorf("View missing counts:\n%s", m.View())
	}

	stats = generator.Stats{Target: 10, Generated: 10, Elapsed: 2 * time.Second}
	_, cmd = m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.Quit after completion")
	}
	if m.Aborted() {
		t.Error("Completion must not count as abort")
	}
}

func TestProgressModel_Quit(t *testing.T) {
	m := NewProgressModel(func() generator.Stats { return generator.Stats{Target: 5, Running: true} })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.Quit on q")
	}
	if !m.Aborted() {
		t.Error("Expected aborted after q")
	}
}

func TestProgressModel_DoneMsg(t *testing.T) {
	m := NewProgressModel(func() generator.Stats { return generator.Stats{Target: 5, Generated: 2} })

	boom := errors.New("boom")
	_, cmd := m.Update(DoneMsg{Err: boom})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.Quit on DoneMsg")
	}
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Expected campaign error, got %v", m.Err())
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("View should show the campaign error")
	}
}

func TestETA(t *testing.T) {
	s := generator.Stats{Target: 100, Generated: 25, Elapsed: 5 * time.Second}
	if got := eta(s); got != 15*time.Second {
		t.Errorf("Expected 15s, got %v", got)
	}
	if got := eta(generator.Stats{Target: 10}); got != 0 {
		t.Errorf("Expected 0 without progress, got %v", got)
	}
}

func TestRenderSummary(t *testing.T) {
	s := report.NewSummary("Run Summary", mutator.Config{FlipRate: 0.01, MaxFileSize: 1024})
	s.SetStatistics(generator.Stats{Generated: 12, Written: 11, Duplicates: 1, Rounds: 24, Scored: 12, MeanDistance: 20, Elapsed: time.Second})
	for i := 0; i < maxSeedRows+2; i++ {
		s.Seeds = append(s.Seeds, generator.SeedCount{Seed: "seed", Variants: 1})
	}

	out := RenderSummary(s)
	for _, want := range []string{"Run Summary", "Generated", "12", "very_similar", "and 2 more seeds"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged, got %q", got)
	}
	if got := truncate("a-very-long-seed-name.bin", 8); got != "a-very-…" {
		t.Errorf("Unexpected truncation %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{1000000, "1.0M"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.input); got != tt.expected {
			t.Errorf("formatNumber(%d) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{500 * time.Microsecond, "500µs"},
		{150 * time.Millisecond, "150ms"},
		{5 * time.Second, "5.0s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Hour, "2h0m"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.input); got != tt.expected {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}
