package model

// Package model defines domain data structures shared across the app: background
// tasks and their lifecycle, artifact groups on disk, catalog rows, and the error
// taxonomy surfaced to the interface. Structures favour explicit state
// transitions and stable string keys over object identity.
