package worker

// Package worker runs one long blocking job on its own goroutine and turns its
// outcome into an ordered stream of events: zero or more monotonic progress
// events followed by exactly one terminal event. Cancellation is cooperative;
// the job observes its context and the worker reports Canceled once a cancel
// was requested, whatever the job returned.
