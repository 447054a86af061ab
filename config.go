package ponder

import "time"

// Default configuration for the store and the archive pipeline.
// These can be overridden per-instance using builder methods.
var (
	// DefaultSummaryWindow is the number of trailing thoughts returned by
	// Summarize when no explicit limit is given.
	DefaultSummaryWindow = 10

	// DefaultArchiveAttempts bounds how many times the archiver tries to
	// write a cleared session before giving up.
	DefaultArchiveAttempts = 3

	// DefaultArchiveBaseDelay is the first backoff interval between archive
	// attempts. Subsequent intervals double.
	DefaultArchiveBaseDelay = 100 * time.Millisecond

	// DefaultArchiveTimeout caps the whole archive operation, retries included.
	DefaultArchiveTimeout = 5 * time.Second
)
