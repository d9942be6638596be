package model

// Package model defines domain data structures used across the app: track
// references, acquisition results, and run-level statistics. Structures are
// immutable after creation except RunStats, which is owned by the
// aggregation loop.
