// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// CompileStatus records the outcome of the optional compile check.
type CompileStatus string

const (
	CompileSkipped CompileStatus = "skipped"
	CompileOK      CompileStatus = "ok"
	CompileFailed  CompileStatus = "failed"
)

// Report accumulates the diagnostics of one conversion run. The converter
// owns it for the run's lifetime and persists it on every exit path.
// Warnings never stop the pipeline; any entry in Errors marks the run failed.
type Report struct {
	// RunID identifies the run in the history ledger.
	RunID string `json:"run_id" yaml:"run_id"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// SourceMain is the selected source main file, relative to the source root.
	SourceMain string `json:"source_main,omitempty" yaml:"source_main,omitempty"`

	// TemplateMain is the selected template main file, relative to the template root.
	TemplateMain string `json:"template_main,omitempty" yaml:"template_main,omitempty"`

	// BodyLines is a rough size of the transformed body.
	BodyLines int `json:"body_lines" yaml:"body_lines"`

	// CopiedImages lists copied images relative to the output root.
	CopiedImages []string `json:"copied_images" yaml:"copied_images"`

	// MergedBib is the merged bibliography relative to the output root, or
	// empty when no bibliography was written.
	MergedBib string `json:"merged_bib,omitempty" yaml:"merged_bib,omitempty"`

	// Compile is the outcome of the compile check.
	Compile CompileStatus `json:"compile" yaml:"compile"`

	Warnings []string `json:"warnings" yaml:"warnings"`
	Errors   []string `json:"errors" yaml:"errors"`
}

// NewReport returns an empty report for the given run.
func NewReport(runID string) *Report {
	return &Report{
		RunID:        runID,
		StartedAt:    time.Now().UTC(),
		CopiedImages: []string{},
		Compile:      CompileSkipped,
		Warnings:     []string{},
		Errors:       []string{},
	}
}

// Warn records a non-fatal diagnostic.
func (r *Report) Warn(msgs ...string) {
	r.Warnings = append(r.Warnings, msgs...)
}

// Warnf records a formatted non-fatal diagnostic.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Fail records a fatal diagnostic.
func (r *Report) Fail(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Failf records a formatted fatal diagnostic.
func (r *Report) Failf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// OK reports whether the run has no fatal errors.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}
