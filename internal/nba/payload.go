package nba

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPayload marks a provider response that cannot be decoded or is
// missing an expected top-level structure. Never retried.
var ErrInvalidPayload = errors.New("invalid provider payload")

// Payload is the stats.nba.com response envelope: a list of named result
// sets, each a header row plus value rows.
type Payload struct {
	Resource   string      `json:"resource"`
	ResultSets []ResultSet `json:"resultSets"`
}

// ResultSet is one named tabular section of a payload
type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// ResultSet returns the named result set's rows as field maps, zipping each
// row with the header list. A missing result set is an invalid payload: the
// whole structure the records should come from is absent, which is distinct
// from an individual field being null.
func (p *Payload) ResultSet(name string) ([]RawRecord, error) {
	for _, rs := range p.ResultSets {
		if rs.Name != name {
			continue
		}

		records := make([]RawRecord, 0, len(rs.RowSet))
		for _, row := range rs.RowSet {
			rec := make(RawRecord, len(rs.Headers))
			for i, header := range rs.Headers {
				if i < len(row) {
					rec[header] = row[i]
				}
			}
			records = append(records, rec)
		}
		return records, nil
	}

	return nil, fmt.Errorf("%w: missing %q result set", ErrInvalidPayload, name)
}

// RawRecord is one provider record: provider field names mapped to values.
// JSON numbers arrive as float64; the accessors coerce missing and null
// values to zero so numeric columns are never null downstream.
type RawRecord map[string]any

// Int returns the field as an int, 0 when absent or null
func (r RawRecord) Int(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float returns the field as a float64, 0 when absent or null
func (r RawRecord) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Str returns the field as a string, "" when absent or null
func (r RawRecord) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Has reports whether the field is present and non-null
func (r RawRecord) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// ClockSeconds converts an "MM:SS" playing-time string into total seconds.
// Values without a colon (including DNP placeholders) are 0.
func (r RawRecord) ClockSeconds(key string) int {
	raw := strings.TrimSpace(r.Str(key))
	if !strings.Contains(raw, ":") {
		return 0
	}

	parts := strings.SplitN(raw, ":", 2)
	mins, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return mins*60 + secs
}

// Date parses the field as a provider date (2006-01-02). Unparsable dates
// return ok=false; callers log and keep the record.
func (r RawRecord) Date(key string) (time.Time, bool) {
	raw := strings.TrimSpace(r.Str(key))
	if raw == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
