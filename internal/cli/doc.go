package cli

// Package cli defines the yt-studio command line. Without a subcommand it
// opens the desktop window; scan and fetch work headless.
