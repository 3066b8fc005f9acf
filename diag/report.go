package diag

import (
	"github.com/dekarrin/rosed"
)

// Listener receives diagnostics as they are raised during a build or a
// parse, in addition to whatever is eventually returned as an error.
// This lets a host surface warnings that did not themselves cause
// failure (e.g. a Warning-severity diagnostic on an otherwise
// successful build).
type Listener interface {
	OnDiagnostic(d Diagnostic)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(d Diagnostic)

// OnDiagnostic calls f(d).
func (f ListenerFunc) OnDiagnostic(d Diagnostic) { f(d) }

// Report collects Diagnostics raised over the course of one build or
// parse, in the order they were raised.
type Report struct {
	diags []Diagnostic
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{}
}

// Add appends d to the report and, if l is non-nil, notifies it.
func (r *Report) Add(d Diagnostic, l Listener) {
	r.diags = append(r.diags, d)
	if l != nil {
		l.OnDiagnostic(d)
	}
}

// Diagnostics returns every diagnostic added so far, in order.
func (r *Report) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// HasErrors reports whether the report contains at least one
// diagnostic at Error severity.
func (r *Report) HasErrors() bool {
	for _, d := range r.diags {
		if d.Severity() == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics collected.
func (r *Report) Len() int {
	return len(r.diags)
}

// String renders the report as an aligned plain-text table, one row
// per diagnostic, using the same rosed table layout the teacher's
// lalr1Table.String() uses for LALR tables.
func (r *Report) String() string {
	if len(r.diags) == 0 {
		return "(no diagnostics)"
	}

	data := [][]string{{"SEVERITY", "CODE", "LOCATION", "MESSAGE"}}
	for _, d := range r.diags {
		loc := d.Location().String()
		if loc == "" {
			loc = "-"
		}
		data = append(data, []string{
			d.Severity().String(),
			string(d.Code()),
			loc,
			d.Error(),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
