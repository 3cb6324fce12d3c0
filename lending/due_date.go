package lending

import "time"

// DateLayout is the calendar day format used for due dates in documents.
const DateLayout = "2006-01-02"

// DueDate is an optional calendar day. The permanent due date never falls due.
// All comparisons work on UTC calendar days.
type DueDate struct {
	day   time.Time
	isSet bool
}

// DueOn returns a due date on the UTC calendar day of t.
func DueOn(t time.Time) DueDate {
	return DueDate{day: CalendarDay(t), isSet: true}
}

// DueInDays returns the due date days calendar days after now.
func DueInDays(now time.Time, days int) DueDate {
	return DueOn(CalendarDay(now).AddDate(0, 0, days))
}

// PermanentDueDate returns the due date of a loan that never falls due.
func PermanentDueDate() DueDate {
	return DueDate{}
}

// ParseDueDate reads a YYYY-MM-DD or RFC 3339 value. An empty string is permanent.
func ParseDueDate(s string) (DueDate, error) {
	if s == "" {
		return PermanentDueDate(), nil
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		return DueOn(t), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DueDate{}, err
	}

	return DueOn(t), nil
}

// IsPermanent reports whether the due date is absent.
func (d DueDate) IsPermanent() bool {
	return !d.isSet
}

// Day returns the calendar day, or false for a permanent due date.
func (d DueDate) Day() (time.Time, bool) {
	return d.day, d.isSet
}

// IsAfter reports whether the due day is strictly later than the calendar day of now.
// A permanent due date is never after anything.
func (d DueDate) IsAfter(now time.Time) bool {
	return d.isSet && d.day.After(CalendarDay(now))
}

// IsAfterNow is IsAfter evaluated at the wall clock.
func (d DueDate) IsAfterNow() bool {
	return d.IsAfter(time.Now())
}

// HasPassed reports whether a set due day is today or earlier, relative to now.
func (d DueDate) HasPassed(now time.Time) bool {
	return d.isSet && !d.IsAfter(now)
}

// LessThan compares two set due dates by day. Permanent due dates never compare.
func (d DueDate) LessThan(other DueDate) bool {
	return d.isSet && other.isSet && d.day.Before(other.day)
}

// GreaterThan compares two set due dates by day. Permanent due dates never compare.
func (d DueDate) GreaterThan(other DueDate) bool {
	return d.isSet && other.isSet && d.day.After(other.day)
}

// Equal reports whether both are permanent or both fall on the same day.
func (d DueDate) Equal(other DueDate) bool {
	if d.isSet != other.isSet {
		return false
	}

	return !d.isSet || d.day.Equal(other.day)
}

// DaysLate counts whole calendar days between the due day and the day of at, never negative.
func (d DueDate) DaysLate(at time.Time) int64 {
	if !d.isSet {
		return 0
	}

	days := int64(CalendarDay(at).Sub(d.day).Hours() / 24)
	if days < 0 {
		return 0
	}

	return days
}

// String formats the due day as YYYY-MM-DD, or "" when permanent.
func (d DueDate) String() string {
	if !d.isSet {
		return ""
	}

	return d.day.Format(DateLayout)
}

// CalendarDay strips the time of day from t in UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
