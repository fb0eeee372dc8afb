package platform

// Package platform contains OS and filesystem glue: the artifact store that
// classifies downloaded files into stem-keyed groups, directory scanning and
// diffing, thumbnail discovery, and OS open/reveal helpers.
