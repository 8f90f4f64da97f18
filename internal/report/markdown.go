package report

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter renders summaries as a Markdown document
type MarkdownFormatter struct{}

// Generate writes the summary as Markdown
func (f *MarkdownFormatter) Generate(s *Summary, w io.Writer) error {
	var b strings.Builder
	st := s.Statistics

	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Settings\n\n")
	b.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Flip rate | %g |\n", s.FlipRate)
	fmt.Fprintf(&b, "| Max file size | %d |\n", s.MaxFileSize)
	fmt.Fprintf(&b, "| Dictionary entries | %d |\n", s.DictionarySize)
	fmt.Fprintf(&b, "| Workers | %d |\n", s.Workers)
	if s.Seed != 0 {
		fmt.Fprintf(&b, "| Seed | %d |\n", s.Seed)
	}

	b.WriteString("\n## Statistics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Generated | %d |\n", st.Generated)
	fmt.Fprintf(&b, "| Written | %d |\n", st.Written)
	fmt.Fprintf(&b, "| Duplicates | %d |\n", st.Duplicates)
	fmt.Fprintf(&b, "| Errors | %d |\n", st.Errors)
	fmt.Fprintf(&b, "| Mean rounds | %.2f |\n", st.MeanRounds)
	fmt.Fprintf(&b, "| Mean TLSH distance | %.1f (%d scored) |\n", st.MeanDistance, st.Scored)
	fmt.Fprintf(&b, "| Duration | %s |\n", st.Duration)
	fmt.Fprintf(&b, "| Variants/sec | %.1f |\n", st.VariantsPerSec)

	if len(s.Seeds) > 0 {
		b.WriteString("\n## Seeds\n\n")
		b.WriteString("| Seed | Size | Variants |\n|---|---|---|\n")
		for _, sc := range s.Seeds {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", escapePipes(sc.Seed), sc.Size, sc.Variants)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Extension returns the file extension
func (f *MarkdownFormatter) Extension() string {
	return "md"
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
