package enums

import "fmt"

// Weekday identifies a schedule row. Values match the vendor dashboard client.
type Weekday string

const (
	WeekdayMonday    Weekday = "LUNES"
	WeekdayTuesday   Weekday = "MARTES"
	WeekdayWednesday Weekday = "MIERCOLES"
	WeekdayThursday  Weekday = "JUEVES"
	WeekdayFriday    Weekday = "VIERNES"
	WeekdaySaturday  Weekday = "SABADO"
	WeekdaySunday    Weekday = "DOMINGO"
)

var validWeekdays = []Weekday{
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
	WeekdaySunday,
}

// String implements fmt.Stringer.
func (v Weekday) String() string {
	return string(v)
}

// IsValid reports whether the value is a known Weekday.
func (v Weekday) IsValid() bool {
	for _, candidate := range validWeekdays {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseWeekday converts raw input into a Weekday.
func ParseWeekday(value string) (Weekday, error) {
	for _, candidate := range validWeekdays {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", value)
}

// Weekdays returns every weekday Monday first. Stores get one schedule row each.
func Weekdays() []Weekday {
	out := make([]Weekday, len(validWeekdays))
	copy(out, validWeekdays)
	return out
}
