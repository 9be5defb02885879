package download

import "errors"

var (
	// ErrFetchFailed indicates the external transfer produced no verified
	// output file.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrLedgerWrite indicates a completed transfer could not be recorded.
	// The file exists on disk but the episode is reported failed: an
	// unrecorded success is retried harmlessly on the next run, while a
	// falsely recorded success would never be retried.
	ErrLedgerWrite = errors.New("ledger write failed")
)
