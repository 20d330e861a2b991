package calendar

import "fmt"

// MinutesPerDay bounds a ClockTime. The value itself is a valid range
// end ("24:00") but never a valid start.
const MinutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day at minute precision, expressed
// as minutes since midnight. No timezone.
type ClockTime int

// ParseClockTime parses "15:04".
func ParseClockTime(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, &ValidationError{Field: "time", Reason: fmt.Sprintf("invalid time %q", s)}
	}
	if h < 0 || m < 0 || m > 59 || h*60+m > MinutesPerDay {
		return 0, &ValidationError{Field: "time", Reason: fmt.Sprintf("time %q out of range", s)}
	}
	return ClockTime(h*60 + m), nil
}

// MustClockTime parses "15:04" and panics on malformed input. For
// constants and tests.
func MustClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// String formats the time as "15:04".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add returns the time shifted by n minutes. The result may exceed
// 24:00; callers enforce the never-spans-midnight invariant.
func (c ClockTime) Add(minutes int) ClockTime {
	return c + ClockTime(minutes)
}

// Minutes returns the time as minutes since midnight.
func (c ClockTime) Minutes() int {
	return int(c)
}

// MarshalText implements encoding.TextMarshaler.
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeRange is a span of wall-clock time within a single date. Ranges
// never cross midnight.
type TimeRange struct {
	Date  Date      `json:"date"`
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// NewTimeRange validates start < end and end <= 24:00.
func NewTimeRange(date Date, start, end ClockTime) (TimeRange, error) {
	if start < 0 || start >= MinutesPerDay {
		return TimeRange{}, &ValidationError{Field: "startTime", Reason: "start time out of range"}
	}
	if end > MinutesPerDay {
		return TimeRange{}, &ValidationError{Field: "endTime", Reason: "range must not span midnight"}
	}
	if start >= end {
		return TimeRange{}, &ValidationError{Field: "endTime", Reason: "end time must be after start time"}
	}
	return TimeRange{Date: date, Start: start, End: end}, nil
}
