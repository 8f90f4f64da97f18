package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Laplace1814/honggfuzz/internal/analyzer"
	"github.com/Laplace1814/honggfuzz/internal/report"
)

// maxSeedRows bounds the per-seed table
const maxSeedRows = 10

// RenderSummary renders the end-of-run table
func RenderSummary(s *report.Summary) string {
	st := s.Statistics
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(s.Title))
	b.WriteString("\n")

	rows := [][2]string{
		{"Flip rate", fmt.Sprintf("%g", s.FlipRate)},
		{"Max file size", fmt.Sprintf("%d", s.MaxFileSize)},
		{"Dictionary", fmt.Sprintf("%d entries", s.DictionarySize)},
		{"Generated", formatNumber(st.Generated)},
		{"Written", formatNumber(st.Written)},
		{"Duplicates", formatNumber(st.Duplicates)},
		{"Mean rounds", fmt.Sprintf("%.2f", st.MeanRounds)},
		{"Duration", formatDuration(st.Duration)},
		{"Variants/sec", fmt.Sprintf("%.1f", st.VariantsPerSec)},
	}
	for _, r := range rows {
		b.WriteString(RenderLabelValue(r[0], r[1]))
		b.WriteString("\n")
	}

	if st.Scored > 0 {
		level := analyzer.ClassifyDistance(int(st.MeanDistance + 0.5))
		b.WriteString(RenderLabelValue("Mean TLSH distance",
			fmt.Sprintf("%.1f (%s)", st.MeanDistance, level)))
		b.WriteString("\n")
	}

	if st.Errors > 0 {
		b.WriteString(LabelStyle.Render("Errors:") + " " + ErrorStyle.Render(formatNumber(st.Errors)))
		b.WriteString("\n")
	}

	if len(s.Seeds) > 0 {
		b.WriteString("\n")
		shown := s.Seeds
		if len(shown) > maxSeedRows {
			shown = shown[:maxSeedRows]
		}
		for _, sc := range shown {
			b.WriteString(RenderLabelValue(truncate(sc.Seed, 17), fmt.Sprintf("%d variants", sc.Variants)))
			b.WriteString("\n")
		}
		if rest := len(s.Seeds) - len(shown); rest > 0 {
			b.WriteString(HelpStyle.Render(fmt.Sprintf("... and %d more seeds", rest)))
			b.WriteString("\n")
		}
	}

	return PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}
