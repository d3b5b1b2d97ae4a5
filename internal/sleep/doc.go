// Package sleep owns the daily sleep summary shown on the dashboard and the
// weekly and monthly session history.
//
// # Data flow
//
//	Source.Daily() ──> Store.FetchDaily() ──> Snapshot ──> subscribers
//
// A Source returns the full summary record or nil when there is no data.
// HealthSource is the local aggregation: it checks the SleepSession
// permission, reads the sessions between 18:00 yesterday and now, and
// scores the one that ended last with Classify and Quality.
//
// # Result states
//
//   - StatusPending: nothing fetched yet
//   - StatusLoading: a fetch is in flight; the previous summary is kept
//   - StatusReady: the last fetch succeeded; Summary may be nil (no data)
//   - StatusFailed: the last fetch failed; the previous summary is kept and
//     Snapshot.Stale reports it
//
// FetchWeekly and FetchMonthly read every session of the last seven days or
// the last calendar month through a RangeSource and keep each period in its
// own RangeSnapshot with the same result states.
//
// The store never turns an absent summary into zero values. Presentation
// code may do that if it wants placeholders.
//
// # Retries
//
// Every fetch retries transient failures with exponential backoff and does
// not retry ErrPermissionDenied. Concurrent calls for the same data share one
// fetch, run under the context of the caller that started it.
package sleep
