package core

import "time"

// Flush scheduling
const (
	FlushInterval   = 5 * time.Second
	MaxQueueSize    = 50
	DefaultEndpoint = "/api/watchdog/log"
)

// Capture thresholds
const (
	LongTaskThreshold     = 100 * time.Millisecond
	SlowResourceThreshold = 3 * time.Second
	SlowFetchThreshold    = 5 * time.Second
	SlowPageLoadThreshold = 5 * time.Second
)

// Field bounds, matching the ingest endpoint's sanitizer so nothing is
// silently rewritten server-side.
const (
	MaxMessageLen   = 500
	MaxLabelLen     = 50
	MaxTargetLen    = 100
	MaxDataKeys     = 10
	MaxDataValueLen = 200
)
