// Package sqlite provides SQLite-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles opening the embedded database, applying schema migrations, and
// data mapping between domain entities and database records.
package sqlite
