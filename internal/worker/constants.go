package worker

import "time"

// Log messages
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgWorkerQueueFull = "Worker queue full, dropping job"
	LogMsgSweepCompleted  = "Sweep completed"
)

// Sweep names, also used as the metrics label
const (
	SweepRaids = "raids"
	SweepDuels = "duels"
)

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 30 * time.Second

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
