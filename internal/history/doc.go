// Package history keeps a small SQLite ledger of completed runs.
//
// Each finished run is stored with its timing, export format and the
// full set of report counters, so repeated processing of the same
// archive can be traced back later. The ledger lives inside the
// archive's base directory and is optional; disabling it skips the
// package entirely.
package history
