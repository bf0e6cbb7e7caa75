// Package sqlite provides the SQLite-backed snapshot store.
//
// Snapshots are append-only: rows are inserted once and never updated.
// The content hash is unique, so recording the same save twice returns
// the stored row. Schema changes live in the embedded migrations package.
package sqlite
