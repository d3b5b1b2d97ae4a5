package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Entry is one decoded line of the JSON log.
type Entry struct {
	Time    time.Time
	Level   zapcore.Level
	Logger  string
	Message string
	Error   string
	Fields  map[string]any
}

// Filter selects entries. The zero value matches everything at info and above.
type Filter struct {
	MinLevel zapcore.Level
	Logger   string // prefix match on the logger name; empty matches all
}

func (f Filter) match(e Entry) bool {
	if e.Level < f.MinLevel {
		return false
	}
	return f.Logger == "" || strings.HasPrefix(e.Logger, f.Logger)
}

// Tail returns the last maxEntries entries of the log at path that pass
// filter, oldest first. A missing file yields no entries. maxEntries <= 0
// returns every match. Lines that are not JSON log entries are skipped.
func Tail(path string, maxEntries int, filter Filter) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	return tail(file, maxEntries, filter)
}

func tail(r io.Reader, maxEntries int, filter Filter) ([]Entry, error) {
	var ring []Entry
	if maxEntries > 0 {
		ring = make([]Entry, 0, maxEntries)
	}
	idx := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		e, ok := Parse(scanner.Bytes())
		if !ok || !filter.match(e) {
			continue
		}
		switch {
		case maxEntries <= 0 || len(ring) < maxEntries:
			ring = append(ring, e)
		default:
			ring[idx] = e
			idx = (idx + 1) % maxEntries
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if idx == 0 {
		return ring, nil
	}
	out := make([]Entry, 0, len(ring))
	out = append(out, ring[idx:]...)
	out = append(out, ring[:idx]...)
	return out, nil
}

// Parse decodes one line written by the production zap encoder.
func Parse(line []byte) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return Entry{}, false
	}
	msg, ok := raw["msg"].(string)
	if !ok {
		return Entry{}, false
	}

	e := Entry{Message: msg}
	if lvl, ok := raw["level"].(string); ok {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			e.Level = parsed
		}
	}
	switch ts := raw["ts"].(type) {
	case string:
		if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			e.Time = t
		} else if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = t
		}
	case float64:
		sec := int64(ts)
		e.Time = time.Unix(sec, int64((ts-float64(sec))*1e9))
	}
	e.Logger, _ = raw["logger"].(string)
	e.Error, _ = raw["error"].(string)

	for _, k := range []string{"msg", "level", "ts", "logger", "error", "caller", "stacktrace"} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		e.Fields = raw
	}
	return e, true
}

// Format renders e on one line: time, level, logger, message, fields.
func Format(e Entry) string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s ", e.Level.CapitalString())
	if e.Logger != "" {
		b.WriteString(e.Logger)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%q", e.Error)
	}
	return b.String()
}
