// Package sqlite provides the durable record index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Records live in a single logical collection; each row holds
// the text, a JSON metadata map and a little-endian float32 embedding.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// The database file is records.db inside the index directory supplied at
// startup (INDEX_PATH or index.path).
//
// # Search
//
// Search is an exhaustive cosine scan over the collection. Collections are
// expected to stay in the tens of thousands of records, well within a
// single pass.
//
// # Thread Safety
//
// All operations are thread-safe. The index relies on SQLite's WAL mode and a
// busy timeout for concurrent access.
package sqlite
