package analytics

import "time"

// DateLayout is the calendar-day format used for ranges and series keys.
const DateLayout = "2006-01-02"

// ValidateRange checks that both dates are real YYYY-MM-DD days and that
// start is not after end.
func ValidateRange(start, end string) error {
	if start == "" || end == "" {
		return &RangeError{Reason: "Dates are required for this query."}
	}
	s, ok := parseDay(start)
	if !ok {
		return &RangeError{Reason: "Start date must be a valid date in YYYY-MM-DD format."}
	}
	e, ok := parseDay(end)
	if !ok {
		return &RangeError{Reason: "End date must be a valid date in YYYY-MM-DD format."}
	}
	if s.After(e) {
		return &RangeError{Reason: "Start date must not be after end date."}
	}
	return nil
}

// ValidDay reports whether v is a real calendar day in YYYY-MM-DD form.
func ValidDay(v string) bool {
	_, ok := parseDay(v)
	return ok
}

// parseDay accepts exactly YYYY-MM-DD naming a real calendar day.
func parseDay(v string) (time.Time, bool) {
	if len(v) != len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, t.Format(DateLayout) == v
}

// DefaultRange returns the first day of now's month through now.
func DefaultRange(now time.Time) (start, end string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Format(DateLayout), now.Format(DateLayout)
}

// ShiftRange moves both ends of a valid range by days.
func ShiftRange(start, end string, days int) (string, string, error) {
	if err := ValidateRange(start, end); err != nil {
		return start, end, err
	}
	s, _ := parseDay(start)
	e, _ := parseDay(end)
	return s.AddDate(0, 0, days).Format(DateLayout), e.AddDate(0, 0, days).Format(DateLayout), nil
}
