// Package capability owns the handshake with the device health subsystem.
//
// # State machine
//
//	UNKNOWN ──Check──> CHECKING ──┬──> AVAILABLE, initialized
//	                              ├──> AVAILABLE, not initialized
//	                              └──> UNAVAILABLE / UNKNOWN
//
// Check queries API.Status and, when the subsystem is available, calls the
// idempotent API.Initialize. Any error or timeout lands in UNAVAILABLE with
// Initialized=false. Checking is cleared on every path before Check returns.
// The state is never persisted because availability can change between
// runs.
//
// # Permissions
//
// HasPermission fails closed: a failed grant query reads as "not granted".
// CheckPermission returns the underlying three-valued result for callers
// that need to tell a denial from a failed query.
//
// Every API call runs under its own timeout (Options.CallTimeout).
package capability
