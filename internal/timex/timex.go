// Package timex holds time helpers: a config-friendly Duration and the
// stored timestamp format shared by every repository.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can say "90s" or give
// integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New("invalid duration")
	}
	if n, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
		d.Duration = time.Duration(n)
		return nil
	}
	return d.set(node.Value)
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// Format renders t in the stored layout, always in UTC.
func Format(t time.Time) string {
	return t.UTC().Format(common.TimestampLayout)
}

// Parse reads a stored timestamp. Values written by older builds in
// RFC 3339 form are accepted as well.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(common.TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// StartOfDay returns midnight UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Clock is the time source used by services; tests substitute a fixed one.
type Clock func() time.Time

// SystemClock returns the current time with microsecond precision, which is
// what the stored layout keeps.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NullTime scans a nullable stored timestamp column.
type NullTime struct {
	Time  time.Time
	Valid bool
}

func (n *NullTime) Scan(v any) error {
	switch value := v.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = value.UTC(), true
		return nil
	case []byte:
		return n.parse(string(value))
	case string:
		return n.parse(value)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", v)
	}
}

func (n *NullTime) parse(s string) error {
	t, err := Parse(s)
	if err != nil {
		return err
	}
	n.Time, n.Valid = t, true
	return nil
}

// Ptr returns nil for a NULL column.
func (n NullTime) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// FormatPtr formats t, or returns nil so the column is stored as NULL.
func FormatPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return Format(*t)
}
