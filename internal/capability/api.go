package capability

import (
	"context"
	"strings"
)

// Status is the availability of the device health subsystem.
type Status int

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ParseStatus maps the wire form to a Status. Unrecognized values are
// StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return StatusAvailable
	case "unavailable":
		return StatusUnavailable
	default:
		return StatusUnknown
	}
}

// Grant is one permission the user has granted.
type Grant struct {
	RecordType string `json:"recordType"`
	AccessType string `json:"accessType,omitempty"`
}

// API is the device capability subsystem. Initialize is idempotent.
type API interface {
	Status(ctx context.Context) (Status, error)
	Initialize(ctx context.Context) (bool, error)
	GrantedPermissions(ctx context.Context) ([]Grant, error)
}

// RecordSleepSession is the record type guarding sleep data.
const RecordSleepSession = "SleepSession"
