// Package processor provides the data-processing facade the CLI drives.
//
// A Processor bundles the toolkit's operations behind one type: JSON
// parsing, directory scanning, gzip compression, RE2 pattern matching,
// AES-256-CBC encryption, SHA-256 hashing, the SQLite-backed operation log
// and asynchronous hashing through the task dispatcher. Operations record
// their outcomes in shared counters, keep the most recent failure available
// through LastError, and emit operation events for audit handlers.
package processor
