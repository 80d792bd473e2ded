// Defines the Request value type that models a single relief-supply need,
// plus the timestamp normalization performed once at admission.

package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supply categories with a base urgency weight. Anything else scores as
// an unknown category.
const (
	CategoryMedicalKit = "Medical Kit"
	CategoryWater      = "Water"
	CategoryFood       = "Food"
	CategoryBlanket    = "Blanket"
	CategoryTarpaulin  = "Tarpaulin"
)

// ErrMalformedTimestamp is returned when a non-empty submission or expiry
// value cannot be parsed into an absolute instant. Admission fails without
// touching the queue.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Request models a single supply need. Timestamps are normalized to UTC
// exactly once, at admission; after that a Request is treated as immutable
// value data.
type Request struct {
	ID          string     // Unique identifier for the request
	Category    string     // Supply category ("Medical Kit", "Water", ...)
	Quantity    int        // Number of units requested
	Submitted   time.Time  // Submission time, UTC
	Expiry      *time.Time // Optional expiry of the supplies, UTC
	DistanceKM  *float64   // Optional distance to the destination, kilometers
	Destination string     // Optional free-text destination label
}

// timeLayouts are the accepted ISO-ish submission/expiry formats, tried in
// order. Layouts without an offset are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601-like timestamp string and returns the
// instant normalized to UTC. An empty string returns the zero time with no
// error; callers decide what a missing value defaults to.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// ParseDistance parses an optional distance value. Blank input means absent.
// A present but unparseable value also degrades to absent: the distance
// bonus is best-effort and never fails a request.
func ParseDistance(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d < 0 {
		return nil
	}
	return &d
}

// NewRequest builds a normalized Request from raw string-typed timing
// fields. A blank submission timestamp defaults to now; a non-empty value
// that does not parse is rejected with ErrMalformedTimestamp.
func NewRequest(id, category string, quantity int, submitted, expiry string, distanceKM *float64, destination string, now time.Time) (Request, error) {
	ts, err := ParseTimestamp(submitted)
	if err != nil {
		return Request{}, err
	}
	if ts.IsZero() {
		ts = now.UTC()
	}

	req := Request{
		ID:          id,
		Category:    category,
		Quantity:    quantity,
		Submitted:   ts,
		DistanceKM:  distanceKM,
		Destination: destination,
	}

	if expiry != "" {
		exp, err := ParseTimestamp(expiry)
		if err != nil {
			return Request{}, err
		}
		req.Expiry = &exp
	}
	return req, nil
}
