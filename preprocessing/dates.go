package preprocessing

import (
	"strings"
	"time"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// DateLayouts are tried in order when parsing a date column.
var DateLayouts = []string{
	"20060102T150405",
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseDate parses s with the first matching entry of DateLayouts.
// Layouts without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, scierrors.NewValueError("ParseDate", "unrecognized date "+s)
}

// ConvertDates returns a new Table in which every date column has been
// replaced by a numeric column of Unix nanoseconds. The receiver is left
// untouched.
func (t *Table) ConvertDates() (*Table, error) {
	out := NewTable()
	for _, c := range t.columns {
		if c.kind == Numeric {
			if err := out.AddNumeric(c.name, c.numeric); err != nil {
				return nil, err
			}
			continue
		}

		values := make([]float64, len(c.raw))
		for i, s := range c.raw {
			ts, err := ParseDate(s)
			if err != nil {
				return nil, scierrors.Wrapf(err, "column %q row %d", c.name, i)
			}
			values[i] = float64(ts.UnixNano())
		}
		if err := out.AddNumeric(c.name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
