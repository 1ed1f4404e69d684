// Package sqlite provides a SQLite-backed chunk store using the pure-Go
// modernc.org/sqlite driver, so builds stay cgo-free.
package sqlite
