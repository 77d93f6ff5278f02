// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols used in human-readable command output.
const (
	// Success marks a completed step.
	Success = "✓"

	// Error marks a failed step.
	Error = "✗"

	// Warning marks a recoverable condition, such as an incomplete snapshot.
	Warning = "!"

	// Missing marks a record not seen in the latest snapshot.
	Missing = "-"

	// Info marks informational lines.
	Info = "i"
)
