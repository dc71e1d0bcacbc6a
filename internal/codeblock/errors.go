package codeblock

import (
	"fmt"

	"poet/internal/diag"
)

// Sentinels for errors.Is. Each is the diag.Code carried by FormatError.
var (
	ErrUnknownDirective      error = diag.FmtUnknownDirective
	ErrDanglingPercent       error = diag.FmtDanglingPercent
	ErrPercentEscapeHasIndex error = diag.FmtPercentEscapeHasIndex
	ErrMixedIndexing         error = diag.FmtMixedIndexing
	ErrIndexOutOfRange       error = diag.FmtIndexOutOfRange
	ErrMissingArgument       error = diag.FmtMissingArgument
	ErrUnusedArgument        error = diag.FmtUnusedArgument
	ErrArgumentMismatch      error = diag.FmtArgumentMismatch
	ErrBadNamedArgument      error = diag.FmtBadNamedArgument
)

// FormatError reports why a format string could not be compiled.
type FormatError struct {
	Code   diag.Code
	Format string
	// Offset is the byte offset of the offending '%' in Format.
	Offset int
	Msg    string
}

func newFormatError(code diag.Code, format string, offset int, msg string, args ...any) *FormatError {
	return &FormatError{Code: code, Format: format, Offset: offset, Msg: fmt.Sprintf(msg, args...)}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s (offset %d in %q)", e.Code.ID(), e.Msg, e.Offset, e.Format)
}

func (e *FormatError) Unwrap() error { return e.Code }

// DiagCode and DiagOffset let a diag.Bag keep the code of a wrapped FormatError.
func (e *FormatError) DiagCode() diag.Code { return e.Code }

func (e *FormatError) DiagOffset() int { return e.Offset }
