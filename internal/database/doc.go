// Package database provides SQLite-based storage for fragnav.
//
// The Store keeps:
//   - Entities that URL parameters reference by key ("product/34")
//   - The navigation history of every window
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// database is a single file and the driver is CGO-free, which keeps the
// CLI easy to cross-compile. WAL mode lets history reads run while a
// navigation is recorded.
//
// History rows never hold raw URL parameters. Parameters may carry user
// identifiers, so only their SHA3-256 digest and token count are stored.
package database
