package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is the wire format for every timestamp in the API.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is a UTC instant that serialises as YYYY-MM-DDTHH:MM:SS.
// The zero value means "not set" and maps to JSON null and SQL NULL.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.UTC().Format(TimestampLayout))), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	*t = Timestamp{Time: parsed}
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC(), nil
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
	case time.Time:
		*t = NewTimestamp(v)
	case string:
		parsed, err := parseTimestamp(v)
		if err != nil {
			return err
		}
		*t = Timestamp{Time: parsed}
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if parsed, err := time.Parse(TimestampLayout, s); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected %s", s, TimestampLayout)
	}
	return parsed.UTC(), nil
}
