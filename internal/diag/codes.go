package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Template compiler
	FmtInfo                  Code = 1000
	FmtUnknownDirective      Code = 1001
	FmtDanglingPercent       Code = 1002
	FmtPercentEscapeHasIndex Code = 1003
	FmtMixedIndexing         Code = 1004
	FmtIndexOutOfRange       Code = 1005
	FmtMissingArgument       Code = 1006
	FmtUnusedArgument        Code = 1007
	FmtArgumentMismatch      Code = 1008
	FmtBadNamedArgument      Code = 1009

	// Emitter
	EmtInfo           Code = 2000
	EmtNameAllocation Code = 2001
	EmtWrite          Code = 2002

	// Project manifest
	PrjInfo          Code = 3000
	PrjManifestParse Code = 3001
	PrjInvalidField  Code = 3002
	PrjBadReference  Code = 3003
	PrjOpenAPI       Code = 3004

	// Output files and cache
	IOInfo      Code = 4000
	IOWriteFile Code = 4001
	IOCache     Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	FmtInfo:                  "Format information",
	FmtUnknownDirective:      "Unknown directive",
	FmtDanglingPercent:       "Dangling percent sign",
	FmtPercentEscapeHasIndex: "%% may not have an index",
	FmtMixedIndexing:         "Cannot mix indexed and relative arguments",
	FmtIndexOutOfRange:       "Argument index out of range",
	FmtMissingArgument:       "Not enough arguments",
	FmtUnusedArgument:        "Unused argument",
	FmtArgumentMismatch:      "Argument does not fit directive",
	FmtBadNamedArgument:      "Invalid named argument",
	EmtInfo:                  "Emitter information",
	EmtNameAllocation:        "Name allocation failed",
	EmtWrite:                 "Write to output failed",
	PrjInfo:                  "Project information",
	PrjManifestParse:         "Manifest parse error",
	PrjInvalidField:          "Invalid manifest field",
	PrjBadReference:          "Invalid type or member reference",
	PrjOpenAPI:               "OpenAPI document error",
	IOInfo:                   "I/O information",
	IOWriteFile:              "Failed to write file",
	IOCache:                  "Render cache error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Error lets a Code act as a sentinel for errors.Is.
func (c Code) Error() string {
	return c.String()
}
