package render

import "fmt"

// FieldStatus is the outcome of a single field write.
type FieldStatus string

const (
	FieldFilled  FieldStatus = "filled"
	FieldSkipped FieldStatus = "skipped"
)

// FieldResult records what happened to one form field during a render.
// Skips are expected on templates that carry only a subset of the contract's
// fields; they are diagnostics, not errors.
type FieldResult struct {
	Field  string
	Status FieldStatus
	Reason string
}

// Report aggregates per-field results and non-fatal warnings for one render
// call. The caller may log it or discard it.
type Report struct {
	Strategy string // "acroform", "fieldmap" or "passthrough"
	Fields   []FieldResult
	Warnings []string
}

func (r *Report) filled(name string) {
	r.Fields = append(r.Fields, FieldResult{Field: name, Status: FieldFilled})
}

func (r *Report) skipped(name, reason string) {
	r.Fields = append(r.Fields, FieldResult{Field: name, Status: FieldSkipped, Reason: reason})
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// FilledCount returns the number of successful field writes.
func (r *Report) FilledCount() int {
	n := 0
	for _, f := range r.Fields {
		if f.Status == FieldFilled {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of skipped field writes.
func (r *Report) SkippedCount() int {
	return len(r.Fields) - r.FilledCount()
}
