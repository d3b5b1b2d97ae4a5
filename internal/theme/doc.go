// Package theme owns the UI theme selection.
//
// The Store holds one of two themes, light or dark, and the palette derived
// from it. The selection is written through to the kv store under
// StorageKey and re-read at startup by LoadSavedTheme, which falls back to
// the host preference reported by an Appearance when nothing valid is
// stored.
//
// Persistence is best effort. When a read or write fails the in-memory
// theme still applies, State.Degraded is set and the failure is logged.
// No operation returns an I/O error.
//
// Mutations are serialized, so concurrent Toggle calls strictly alternate.
package theme
