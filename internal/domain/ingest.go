package domain

import "time"

// IngestStats holds statistics about one ingestion run for a topic.
type IngestStats struct {
	Topic     string
	Fetched   int // candidates returned by the news source
	Added     int // articles that survived the full enrichment chain
	Skipped   int // duplicates rejected before any enrichment work
	Rejected  int // missing fields or unusable full text
	Errors    int // per-item persistence or publish failures
	Published int
	Duration  time.Duration
}
