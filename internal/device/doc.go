// Package device provides an HTTP client for the local health bridge, the
// process that fronts the phone's health data subsystem.
//
// The Client implements capability.API (status, initialize, granted
// permissions) and sleep.SessionReader (sleep session records), so the
// stores never see HTTP.
//
// Endpoints:
//
//   - GET  /api/sdk/status              {"status":"available|unavailable|unknown"}
//   - POST /api/sdk/initialize          {"initialized":true}
//   - GET  /api/permissions             {"granted":[{"recordType":"SleepSession"}]}
//   - GET  /api/records/SleepSession    ?start=&end= (RFC3339)
//
// Every request sets Accept, User-Agent and a fresh X-Request-ID. Errors are
// wrapped with what failed ("execute request", "decode response", or the
// HTTP status). The client does not retry; the stores own timeout and retry
// policy.
package device
