package linewrap

import "fmt"

// FaultKind classifies API misuse. Faults are programming errors and are
// raised with panic, never returned.
type FaultKind uint8

const (
	FaultAppendAfterClose FaultKind = iota + 1
	FaultIndentUnderflow
	FaultStatementNesting
)

func (k FaultKind) String() string {
	switch k {
	case FaultAppendAfterClose:
		return "append after close"
	case FaultIndentUnderflow:
		return "indent underflow"
	case FaultStatementNesting:
		return "statement nesting"
	default:
		return "unknown fault"
	}
}

// Fault is the panic value for layout contract violations.
type Fault struct {
	Kind   FaultKind
	Detail string
}

func (f Fault) Error() string {
	if f.Detail == "" {
		return "linewrap: " + f.Kind.String()
	}
	return fmt.Sprintf("linewrap: %s: %s", f.Kind, f.Detail)
}

// Raise panics with a Fault.
func Raise(kind FaultKind, format string, args ...any) {
	panic(Fault{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}
