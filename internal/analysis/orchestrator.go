// Package analysis orchestrates the per-section evaluation of a
// sustainability report through the completion service.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marion/csrd-analyzer/internal/corpus"
	"github.com/marion/csrd-analyzer/internal/llm"
	"github.com/marion/csrd-analyzer/internal/rubric"
	"github.com/marion/csrd-analyzer/internal/schemas"
	"github.com/marion/csrd-analyzer/internal/types"
)

// DefaultSectionTimeout bounds one completion call. Expiry is treated as a
// per-section failure, not an analysis failure.
const DefaultSectionTimeout = 60 * time.Second

// ProgressEvent reports progress during an analysis run.
type ProgressEvent struct {
	Section types.Section `json:"section"`
	Message string        `json:"message"`
}

// ProgressCallback is called as sections start and finish.
type ProgressCallback func(event ProgressEvent)

// Options configures an Orchestrator.
type Options struct {
	// SectionTimeout bounds each completion call. Zero means
	// DefaultSectionTimeout.
	SectionTimeout time.Duration
	// Concurrent runs the section analyses in parallel. Sections have no
	// ordering dependency on each other; consolidation waits for all.
	Concurrent bool
	// OnProgress, when set, receives progress events.
	OnProgress ProgressCallback
}

// Result holds the per-section outcomes of one analysis run.
type Result struct {
	Sections map[types.Section]*types.SectionResult
	// Warnings lists the section-local failures that were degraded to
	// placeholder results. Empty on a clean run.
	Warnings []*SectionFailure
}

// Orchestrator coordinates one analysis: regulatory context, prompt,
// completion call, schema validation, typed result, per section.
type Orchestrator struct {
	client  llm.Client
	rubric  *rubric.Rubric
	options Options
}

// NewOrchestrator creates an Orchestrator. A nil rubric uses the default
// scoring rubric; a nil options uses defaults.
func NewOrchestrator(client llm.Client, r *rubric.Rubric, options *Options) *Orchestrator {
	if r == nil {
		r = rubric.Default()
	}
	opts := Options{}
	if options != nil {
		opts = *options
	}
	if opts.SectionTimeout <= 0 {
		opts.SectionTimeout = DefaultSectionTimeout
	}
	return &Orchestrator{
		client:  client,
		rubric:  r,
		options: opts,
	}
}

// Analyze runs the per-section evaluation of reportText. Empty report text
// is a precondition violation and fails the whole analysis before any
// completion call. Section failures degrade to placeholder results recorded
// in Result.Warnings; every configured section is always present in the
// returned mapping.
func (o *Orchestrator) Analyze(ctx context.Context, reportText string, company types.CompanyContext, corp *corpus.Corpus) (*Result, error) {
	if strings.TrimSpace(reportText) == "" {
		return nil, &InputValidationError{Message: "report text is empty"}
	}
	if err := company.Validate(); err != nil {
		return nil, &InputValidationError{Message: "company context: " + err.Error()}
	}

	result := &Result{
		Sections: make(map[types.Section]*types.SectionResult, len(types.MainSections())),
	}

	if o.options.Concurrent {
		return o.analyzeConcurrent(ctx, result, reportText, company, corp)
	}

	for _, section := range types.MainSections() {
		sectionResult, failure := o.analyzeSection(ctx, section, reportText, company, corp)
		result.Sections[section] = sectionResult
		if failure != nil {
			result.Warnings = append(result.Warnings, failure)
		}
	}

	return result, nil
}

// analyzeConcurrent runs all sections in parallel and joins before
// returning. Warnings are collected in fixed section order so output stays
// deterministic regardless of completion order.
func (o *Orchestrator) analyzeConcurrent(ctx context.Context, result *Result, reportText string, company types.CompanyContext, corp *corpus.Corpus) (*Result, error) {
	var mu sync.Mutex
	failures := make(map[types.Section]*SectionFailure)

	g, gctx := errgroup.WithContext(ctx)
	for _, section := range types.MainSections() {
		g.Go(func() error {
			sectionResult, failure := o.analyzeSection(gctx, section, reportText, company, corp)
			mu.Lock()
			defer mu.Unlock()
			result.Sections[section] = sectionResult
			if failure != nil {
				failures[section] = failure
			}
			return nil
		})
	}
	// analyzeSection never returns an error; the group is used as a join.
	_ = g.Wait()

	for _, section := range types.MainSections() {
		if failure, ok := failures[section]; ok {
			result.Warnings = append(result.Warnings, failure)
		}
	}

	return result, nil
}

// analyzeSection evaluates one section. Any failure degrades to a
// placeholder result plus a SectionFailure describing the stage that broke.
func (o *Orchestrator) analyzeSection(ctx context.Context, section types.Section, reportText string, company types.CompanyContext, corp *corpus.Corpus) (*types.SectionResult, *SectionFailure) {
	o.emit(section, "analyzing")

	prompt := BuildSectionPrompt(section, company, corp.Context(section), reportText, o.rubric.Criteria)
	system := SystemInstruction(section)

	callCtx, cancel := context.WithTimeout(ctx, o.options.SectionTimeout)
	defer cancel()

	payload, err := o.client.GenerateJSON(callCtx, system, prompt)
	if err != nil {
		o.emit(section, "completion call failed")
		return types.PlaceholderResult(section), &SectionFailure{Section: section, Stage: "completion", Cause: err}
	}

	sectionResult, err := decodeSectionResult(payload)
	if err != nil {
		o.emit(section, "invalid payload")
		stage := "decode"
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			stage = "validation"
		}
		return types.PlaceholderResult(section), &SectionFailure{Section: section, Stage: stage, Cause: err}
	}

	o.emit(section, "done")
	return sectionResult, nil
}

// decodeSectionResult validates the untrusted payload against the response
// schema and converts it to the typed result. Raw maps never travel past
// this boundary.
func decodeSectionResult(payload string) (*types.SectionResult, error) {
	payload = llm.CleanJSONBlock(payload)

	if err := schemas.ValidateSectionResult(payload); err != nil {
		return nil, err
	}

	var result types.SectionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, err
	}

	// The schema already bounds the score; clamp anyway so a schema edit
	// cannot leak out-of-range values into the weighted average.
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	return &result, nil
}

func (o *Orchestrator) emit(section types.Section, message string) {
	if o.options.OnProgress != nil {
		o.options.OnProgress(ProgressEvent{Section: section, Message: message})
	}
}
