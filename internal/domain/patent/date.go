package patent

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/turtacn/mini-spade/pkg/errors"
)

// DateLayout is the wire and query-parameter form of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date in UTC.  It marshals as "YYYY-MM-DD" and accepts
// either that form or an RFC 3339 timestamp when decoding.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar date.
func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date{Time: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD value.  Anything else is an
// InvalidParameter error naming field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, errors.InvalidParam("invalid date").
			WithDetail(field + "=" + value + "; expected YYYY-MM-DD").WithCause(err)
	}
	return t, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return errors.InvalidParam("invalid publication date").WithDetail(s).WithCause(err)
	}
	*d = NewDate(t)
	return nil
}

//Personal.AI order the ending
