package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a time of day expressed as minutes since midnight.
// It marshals as "HH:MM" and is stored as a smallint column.
type ClockTime int

const minutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" string into a ClockTime.
func ParseClock(raw string) (ClockTime, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock time %q out of range", raw)
	}
	return ClockTime(hours*60 + minutes), nil
}

// Valid reports whether the value lies within a single day.
func (t ClockTime) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// Add returns the clock time shifted by the given number of minutes.
// The result may exceed the end of the day; callers enforce the
// no-midnight-rollover constraint.
func (t ClockTime) Add(minutes int) ClockTime {
	return t + ClockTime(minutes)
}

// String renders the value as "HH:MM".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON renders the value as a quoted "HH:MM" string.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts a quoted "HH:MM" string.
func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer for smallint storage.
func (t ClockTime) Value() (driver.Value, error) {
	return int64(t), nil
}

// Scan implements sql.Scanner.
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*t = ClockTime(v)
	case []byte:
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("scan clock time: %w", err)
		}
		*t = ClockTime(n)
	case nil:
		*t = 0
	default:
		return fmt.Errorf("scan clock time: unsupported type %T", src)
	}
	return nil
}

// Days of the week, ISO numbering.
const (
	Monday    = 1
	Sunday    = 7
	DaysInWeek = 7
)

// ValidDay reports whether day falls in the ISO 1..7 range.
func ValidDay(day int) bool {
	return day >= Monday && day <= Sunday
}

var dayNames = [DaysInWeek + 1]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName returns the English day name for an ISO day number.
func DayName(day int) string {
	if !ValidDay(day) {
		return ""
	}
	return dayNames[day]
}

// DefaultLessonDuration is the standard length of one lesson in minutes.
const DefaultLessonDuration = 80

// DefaultLessonStarts maps lesson numbers to the standard bell schedule.
var DefaultLessonStarts = map[int]ClockTime{
	1: 8*60 + 30,
	2: 10*60 + 15,
	3: 12*60 + 15,
	4: 14*60 + 15,
	5: 16 * 60,
	6: 17*60 + 45,
	7: 19*60 + 30,
	8: 21*60 + 15,
}
