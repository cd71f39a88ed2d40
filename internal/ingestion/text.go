// Package ingestion prepares extracted report text for analysis. PDF byte
// extraction is a collaborator concern; this package only receives plain
// text.
package ingestion

import (
	"fmt"
	"os"
	"strings"
)

// CleanText normalizes extracted report text: line endings become LF,
// trailing whitespace is trimmed per line, and runs of blank lines collapse
// to at most two.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 2 {
				continue
			}
			line = ""
		} else {
			blanks = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// LoadReportText reads and cleans a report text file.
func LoadReportText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read report file %s: %w", path, err)
	}
	return CleanText(string(data)), nil
}
