// Package constants provides shared constants used throughout the shelf codebase.
// This includes reconciliation thresholds, timeouts, file permissions, and other
// values that should be consistent across the application.
package constants

import "time"

// Completeness gate defaults
const (
	// DefaultMinExistingRatio is the fraction of the existing catalog a snapshot
	// must resolve before it is accepted without retrying
	DefaultMinExistingRatio = 0.95

	// DefaultMinExistingDelta is the absolute shortfall tolerated against the
	// existing catalog size
	DefaultMinExistingDelta = 5

	// DefaultMaxRetries is the number of extra fetch passes after the first
	DefaultMaxRetries = 0

	// MinExpectedFloor is the lower bound for the expected unique count whenever
	// a prior catalog exists
	MinExpectedFloor = 10
)

// Reconciliation constants
const (
	// LegacyKeepRatio is the fraction of the previous catalog an accepted
	// snapshot must cover before unmatched records are marked missing
	LegacyKeepRatio = 0.9

	// LegacyKeepFloor is the lower bound of the legacy-preservation threshold
	LegacyKeepFloor = 10

	// NameIDPrefix marks identities derived from a display name rather than a link
	NameIDPrefix = "name-"
)

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for a single page request
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultStabilityInterval is the pause between content-hash polls of one page
	DefaultStabilityInterval = 500 * time.Millisecond

	// DefaultStabilityPolls is the maximum number of polls per page before the
	// last parse is accepted as-is
	DefaultStabilityPolls = 3

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Source defaults
const (
	// DefaultUserAgent identifies shelf to listing sources
	DefaultUserAgent = "shelf/1.0 (+https://github.com/agentstation/shelf)"

	// DefaultStoreURL is the default location of the catalog document
	DefaultStoreURL = "catalog.json"

	// PagePlaceholder is replaced by the page number in source URLs
	PagePlaceholder = "{page}"

	// PageQueryParam is appended to source URLs without a placeholder
	PageQueryParam = "page"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
