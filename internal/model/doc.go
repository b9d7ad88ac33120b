package model

// Package model defines the request-scoped data shared by the download
// pipeline: the download request, per-provider attempts, the resolution
// label and the result object emitted on stdout. Nothing here outlives a run.
