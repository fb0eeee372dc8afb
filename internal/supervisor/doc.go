package supervisor

// Package supervisor owns every running task. It enforces the single active
// download slot and at most one in-flight task per (file, kind), pumps worker
// events onto the interactive goroutine through a Dispatcher, and tears each
// task down in a fixed order on its terminal event: join the worker, release
// the registry entries, then forward the outcome to the Listener.
