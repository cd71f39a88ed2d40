package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "CRLF normalized to LF",
			input:    "line one\r\nline two\r\n",
			expected: "line one\nline two",
		},
		{
			name:     "Bare CR normalized to LF",
			input:    "line one\rline two",
			expected: "line one\nline two",
		},
		{
			name:     "Trailing whitespace trimmed per line",
			input:    "line one  \t\nline two \n",
			expected: "line one\nline two",
		},
		{
			name:     "Runs of blank lines collapse to two",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\n\nb",
		},
		{
			name:     "Whitespace-only lines count as blank",
			input:    "a\n \t \n  \n\t\nb",
			expected: "a\n\n\nb",
		},
		{
			name:     "Leading and trailing blanks stripped",
			input:    "\n\ntext\n\n",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestLoadReportText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("Report body\r\n\r\n\r\n\r\nEnd  \n"), 0o644))

	text, err := LoadReportText(path)
	require.NoError(t, err)
	assert.Equal(t, "Report body\n\n\nEnd", text)
}

func TestLoadReportTextMissingFile(t *testing.T) {
	_, err := LoadReportText(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read report file")
}
