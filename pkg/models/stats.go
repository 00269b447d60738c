package models

import "time"

// TransferResult records the outcome of a single file push.
type TransferResult struct {
	Job      TransferJob
	Size     int64
	Duration time.Duration
	Err      error
}

// DeployStats aggregates results across one deploy run.
type DeployStats struct {
	Results     []TransferResult
	PushedFiles int64
	PushedSize  int64
	FailedFiles int64
	Elapsed     time.Duration
}

// Failed returns the results of transfers that did not complete.
func (s *DeployStats) Failed() []TransferResult {
	var failed []TransferResult
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
