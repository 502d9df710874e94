package loader

import "errors"

var (
	// ErrImportFailed reports that at least one import job failed.
	ErrImportFailed = errors.New("import failed")
	// ErrUnknownFormat is returned for jobs with an unsupported source format.
	ErrUnknownFormat = errors.New("unknown import format")
	// ErrQueueRejected is returned when a job cannot be queued.
	ErrQueueRejected = errors.New("import queue rejected job")
	// ErrEmptyCSV is returned for a CSV source without a header row.
	ErrEmptyCSV = errors.New("csv has no header row")
)
