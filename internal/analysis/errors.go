package analysis

import (
	"fmt"

	"github.com/marion/csrd-analyzer/internal/types"
)

// InputValidationError indicates the analysis request itself is invalid.
// It is fatal for the whole request; no completion call is made.
type InputValidationError struct {
	Message string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("input validation error: %s", e.Message)
}

// SectionFailure records why one section degraded to a placeholder result.
// It is section-local: the analysis continues with the other sections.
type SectionFailure struct {
	Section types.Section
	Stage   string // "completion", "validation" or "decode"
	Cause   error
}

func (e *SectionFailure) Error() string {
	return fmt.Sprintf("section %s failed at %s: %v", e.Section, e.Stage, e.Cause)
}

func (e *SectionFailure) Unwrap() error {
	return e.Cause
}
