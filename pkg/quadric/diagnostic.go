package quadric

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Kind identifies which degeneracy a diagnostic describes
type Kind int

const (
	// InsufficientData: fewer than 10 samples, or a nullspace of dimension
	// greater than one, so the points alone do not pin down a quadric.
	InsufficientData Kind = iota
	// DegenerateNullspace: no eigenvalue of AᵀA fell below the nullspace
	// threshold and the smallest eigenvector was used instead.
	DegenerateNullspace
	// UnderconstrainedNormals: the normals did not fully determine the
	// solution inside the nullspace.
	UnderconstrainedNormals
	// SingularGradient: the fitted gradient vanishes at a sample.
	SingularGradient
	// NumericalInstability: the solve broke down.
	NumericalInstability
)

var kindNames = map[Kind]string{
	InsufficientData:        "InsufficientData",
	DegenerateNullspace:     "DegenerateNullspace",
	UnderconstrainedNormals: "UnderconstrainedNormals",
	SingularGradient:        "SingularGradient",
	NumericalInstability:    "NumericalInstability",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is a non-fatal condition met during a fit
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	// Index is the sample index for per-point diagnostics, -1 otherwise.
	Index int
	// Count carries the size of the condition (nullspace dimension,
	// truncated directions, sample count) when one applies.
	Count int
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", d.Severity, d.Kind, d.Message)
	if d.Index >= 0 {
		fmt.Fprintf(&b, " (sample %d)", d.Index)
	}
	return b.String()
}

func newDiagnostic(kind Kind, severity Severity, count int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Index:    -1,
		Count:    count,
	}
}

// Diagnostics is the ordered list of conditions reported by a fit
type Diagnostics []Diagnostic

// Has reports whether any diagnostic of the given kind is present
func (ds Diagnostics) Has(kind Kind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics of the given kind
func (ds Diagnostics) Filter(kind Kind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// MaxSeverity returns the highest severity present and false when empty
func (ds Diagnostics) MaxSeverity() (Severity, bool) {
	if len(ds) == 0 {
		return Info, false
	}
	highest := ds[0].Severity
	for _, d := range ds[1:] {
		if d.Severity > highest {
			highest = d.Severity
		}
	}
	return highest, true
}
