// Package app is the composition root for slumber.
//
// New opens the configured kv backend (TOML file or SQLite), builds the
// device client, and wires one instance of each store to them:
//
//	kv.Backend ──> theme.Store, bootstrap.Store
//	device.Client ──> capability.Store ──> sleep.HealthSource ──> sleep.Store
//
// Load runs the cold-start reads concurrently under an errgroup: the welcome
// flag, the saved theme, and the capability handshake, which is followed by
// the first daily summary fetch when the device is ready.
//
// StartPoller refreshes the daily summary every poll interval. While the
// device is not ready it first reruns the handshake silently (the Checking
// flag stays down so the UI does not flicker). Consecutive failures double
// the wait, capped at maxBackoff.
//
// Run ties it together for the terminal front end: config, file logger,
// runtime, background load, poller, then ui.Run until the user quits.
// The one-shot CLI commands use New, Load and WriteStatus directly.
package app
