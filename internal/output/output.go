// Package output handles formatting CLI output as table, JSON, or compact.
package output

import "os"

// EnvVar selects the default output format when no flag is given.
const EnvVar = "TASKDECK_OUTPUT"

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// ParseFormat maps a format name to a Format. Unknown names yield FormatAuto.
func ParseFormat(name string) Format {
	switch name {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}
	return FormatAuto
}

// Detect returns the output format chosen by flags, then by the EnvVar
// environment variable, falling back to a table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f := ParseFormat(os.Getenv(EnvVar)); f != FormatAuto {
		return f
	}
	return FormatTable
}
