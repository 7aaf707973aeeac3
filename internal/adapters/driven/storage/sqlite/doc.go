// Package sqlite provides a SQLite-backed implementation of the
// ProductStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Full-text scoring runs
// on an FTS5 index over name, description and tags; vector search loads the
// stored embeddings and ranks by cosine similarity in process, which is fine
// at the catalogue sizes this tool targets.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.makerlens/data/products.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
