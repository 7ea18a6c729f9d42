// Package sqlite provides an embedded token store for single-instance
// deployments, over the pure-Go sqlite driver. Use ":memory:" for tests.
package sqlite
