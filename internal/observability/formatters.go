// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/marion/csrd-analyzer/internal/corpus"
	"github.com/marion/csrd-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCorpusSummary outputs the number of regulatory documents loaded per
// category.
func (p *Printer) PrintCorpusSummary(c *corpus.Corpus) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Documents loaded: %d\n", c.Len()))
	for _, category := range corpus.Categories() {
		names := c.DocumentNames(category)
		sb.WriteString(fmt.Sprintf("%-16s %d\n", string(category)+":", len(names)))
	}
	p.printBox("Regulatory Corpus", sb.String())
}

// PrintConsolidated outputs a human-readable summary of a consolidated
// analysis.
func (p *Printer) PrintConsolidated(a *types.ConsolidatedAnalysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:      %s\n", a.Metadata.Company.Name))
	sb.WriteString(fmt.Sprintf("Global score: %.2f/100\n", a.GlobalScore))
	sb.WriteString("\n")

	for _, section := range types.MainSections() {
		score := a.SectionScores[section]
		marker := ""
		if result := a.Sections[section]; result != nil && result.Placeholder {
			marker = " (failed)"
		}
		sb.WriteString(fmt.Sprintf("%-14s %6.1f  (weight %.2f)%s\n", string(section)+":", score.Score, score.Weight, marker))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Non-conformities: %d\n", a.Statistics.TotalNonConforming))
	sb.WriteString(fmt.Sprintf("Recommendations:  %d\n", a.Statistics.TotalRecommendations))

	if len(a.Recommendations) > 0 {
		sb.WriteString("\nTop recommendations:\n")
		for i, rec := range a.Recommendations {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("... and %d more\n", len(a.Recommendations)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	}

	for _, warning := range a.Warnings {
		sb.WriteString(fmt.Sprintf("\nwarning: %s\n", warning))
	}

	p.printBox("CSRD/ESRS Analysis", sb.String())
}
