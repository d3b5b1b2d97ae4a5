// Package logtail reads back slumber's own JSON log.
//
// The log is written by zap's production encoder, one JSON object per line.
// Tail keeps a ring of the last N entries that pass a Filter (minimum level
// and logger name prefix), so a large log is scanned once without holding it
// in memory. Lines that do not decode as log entries are skipped, which keeps
// the reader usable on a log that was truncated mid-write.
//
// Usage:
//
//	entries, err := logtail.Tail(cfg.LogPath, 50, logtail.Filter{MinLevel: zapcore.WarnLevel})
//	for _, e := range entries {
//		fmt.Println(logtail.Format(e))
//	}
package logtail
