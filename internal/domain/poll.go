package domain

import "time"

// PollStats holds statistics about a single poll cycle.
type PollStats struct {
	Fetched      int
	New          int
	Delivered    int
	SendFailures int
	Skipped      int
	Published    int
	Duration     time.Duration
}
