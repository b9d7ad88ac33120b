package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, cookie file checks, process execution and the
// pre-flight network probe.
