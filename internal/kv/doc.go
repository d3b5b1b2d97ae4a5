// Package kv provides the durable key-value storage shared by the
// application stores.
//
// Values are plain strings. Each store owns a disjoint set of keys, so
// backends need no coordination beyond their own internal locking.
//
// Two durable backends are available:
//
//   - FileStore: a TOML document at ~/.local/share/slumber/state.toml,
//     replaced atomically on every write
//   - SQLiteStore: a single kv table at ~/.local/share/slumber/state.db
//
// MemStore keeps values in memory for tests.
//
// Backends return errors for I/O failures; the stores decide how to
// degrade. A missing file or row is not an error, Get reports it through
// its bool result.
package kv
