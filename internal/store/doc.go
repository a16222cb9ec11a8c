// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing processing rules to remain
// independent of the embedded SQLite database and its schema details.
package store
