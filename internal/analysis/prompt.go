package analysis

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/marion/csrd-analyzer/internal/prompts"
	"github.com/marion/csrd-analyzer/internal/rubric"
	"github.com/marion/csrd-analyzer/internal/types"
)

// Truncation caps applied when embedding text into a prompt. These are a
// deliberate cost and context-window control: content beyond the cap is
// dropped, not summarized.
const (
	RegulatoryContextCap = 2000
	ReportTextCap        = 8000
)

// BuildSectionPrompt renders the analysis instruction for one section. It
// embeds the company metadata, a capped excerpt of the regulatory context,
// the evaluation criteria and a capped excerpt of the report text, plus the
// exact JSON response shape expected back. Pure string construction.
func BuildSectionPrompt(section types.Section, company types.CompanyContext, regulatoryContext, reportText string, criteria []rubric.Criterion) string {
	companyJSON, _ := json.MarshalIndent(company, "", "  ")
	criteriaJSON, _ := json.MarshalIndent(criteria, "", "  ")

	template := prompts.MustGet("analysis.json", "analyze-section")
	return prompts.Format(template, map[string]string{
		"Section":           string(section),
		"Company":           string(companyJSON),
		"RegulatoryContext": truncate(regulatoryContext, RegulatoryContextCap),
		"Criteria":          string(criteriaJSON),
		"ReportText":        truncate(reportText, ReportTextCap),
	})
}

// SystemInstruction renders the system message for one section.
func SystemInstruction(section types.Section) string {
	template := prompts.MustGet("analysis.json", "section-system")
	return prompts.Format(template, map[string]string{
		"Section": string(section),
	})
}

// truncate caps s at max bytes without splitting a UTF-8 sequence. The
// regulatory texts are French; cutting mid-rune would corrupt the prompt.
// Only a trailing partial rune is trimmed: invalid bytes earlier in the
// text (PDF extraction artifacts) pass through untouched.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	// Walk back at most one rune width to the nearest start byte. The cap
	// splits a rune only when that rune decodes past max; a stray invalid
	// byte is not a split rune and stays put.
	for i := max - 1; i >= 0 && i >= max-utf8.UTFMax; i-- {
		if !utf8.RuneStart(s[i]) {
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != utf8.RuneError || size != 1 {
			if i+size > max {
				cut = s[:i]
			}
		}
		break
	}
	return cut
}
