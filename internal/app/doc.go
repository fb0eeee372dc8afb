package app

// Package app wires the studio together. Studio turns user actions into
// catalog and supervisor calls and applies task outcomes to the catalog on
// the interactive goroutine. It is shared by the desktop UI and the headless
// command line.
