package timezone

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate marks report boundary strings that do not parse as any
// supported wall-clock layout.
var ErrInvalidDate = errors.New("invalid date")

// DefaultName is the business operating timezone. The whole system stores UTC
// instants and presents wall-clock time in this zone.
const DefaultName = "Asia/Kuala_Lumpur"

// Clock converts between UTC storage instants and business-local wall-clock
// time. The location is threaded in at startup so the same engine can serve a
// different locale without code changes.
type Clock struct {
	loc *time.Location
}

// New loads the named timezone. An empty name falls back to DefaultName.
func New(name string) (*Clock, error) {
	if name == "" {
		name = DefaultName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &Clock{loc: loc}, nil
}

// Location returns the business-local location.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// StartOfDay returns the UTC instant of the business-local midnight on or
// before t.
func (c *Clock) StartOfDay(t time.Time) time.Time {
	local := t.In(c.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	return midnight.UTC()
}

// EndOfDay returns the UTC instant of 23:59:59.999 business-local on the same
// local day as t.
func (c *Clock) EndOfDay(t time.Time) time.Time {
	local := t.In(c.loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999e6, c.loc)
	return end.UTC()
}

// DateKey formats t as a business-local YYYY-MM-DD day bucket key.
func (c *Clock) DateKey(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02")
}

// WeekKey formats t as a business-local YYYY-Www ISO-8601 week bucket key.
// Week 1 is the week containing the year's first Thursday; weeks start Monday.
func (c *Clock) WeekKey(t time.Time) string {
	year, week := t.In(c.loc).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey formats t as a business-local YYYY-MM month bucket key.
func (c *Clock) MonthKey(t time.Time) string {
	return t.In(c.loc).Format("2006-01")
}

// ParseRange interprets two report boundary strings as business-local
// wall-clock values and returns the corresponding UTC instants. A trailing Z
// is stripped first: callers historically send pseudo-UTC strings whose
// components are really wall-clock MYT. The end boundary is widened to
// 23:59:59.999 local unless it already carries an explicit end-of-day time,
// so the final calendar day is always fully included.
func (c *Clock) ParseRange(start, end string) (time.Time, time.Time, error) {
	startUTC, err := c.parseLocal(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}

	endStr := strings.TrimSuffix(end, "Z")
	endUTC, err := c.parseLocal(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	if !strings.Contains(endStr, "23:59:59") {
		endUTC = c.EndOfDay(endUTC)
	}

	return startUTC, endUTC, nil
}

// parseLocal parses a YYYY-MM-DD[THH:mm[:ss]] string as wall-clock time in
// the business location and returns the UTC instant.
func (c *Clock) parseLocal(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date-time %q", ErrInvalidDate, s)
}
