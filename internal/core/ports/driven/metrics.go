package driven

import "time"

// Metrics records operational counters.
type Metrics interface {
	// ObserveRequest records a boundary request and its outcome kind.
	// kind is empty for success.
	ObserveRequest(command, kind string, elapsed time.Duration)

	// ObserveParse records a document build.
	ObserveParse(bytes int, failedSections int, elapsed time.Duration)

	// ObserveSnapshot records a snapshot append.
	ObserveSnapshot(created bool)

	// SetCachedDocuments reports the document cache size.
	SetCachedDocuments(n int)
}
