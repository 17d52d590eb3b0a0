// Package hijri converts Gregorian dates to the civil tabular Islamic
// calendar. The conversion is pure integer arithmetic over Julian day
// numbers, so the same Gregorian date maps to the same Hijri date on every
// device, offline, regardless of timezone. It intentionally does not track
// the observation-based calendar, which can differ by a day per country.
package hijri

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned for Gregorian dates outside the supported span.
// Conversions outside it would still compute, but the application never
// labels dates there; failing loudly beats a silently dubious statement.
var ErrOutOfRange = errors.New("date outside supported range (1900-2100)")

const (
	minYear = 1900
	maxYear = 2100

	// Julian day number of 1 Muharram 1 AH in the civil tabular calendar.
	epoch = 1948440
)

// Date is a Hijri calendar date.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-30
}

// DateBox carries the three strings the transaction and statement labels
// display together: all derived from a single conversion call.
type DateBox struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
	Day       string `json:"day"`
}

// FromTime converts a Gregorian date to its tabular Hijri date.
func FromTime(t time.Time) (Date, error) {
	if t.Year() < minYear || t.Year() > maxYear {
		return Date{}, ErrOutOfRange
	}
	k := jdn(t.Year(), int(t.Month()), t.Day()) - epoch + 10632
	n := (k - 1) / 10631
	k = k - 10631*n + 354
	j := ((10985-k)/5316)*((50*k)/17719) + (k/5670)*((43*k)/15238)
	k = k - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * k) / 709
	day := k - (709*month)/24
	year := 30*n + j - 30
	return Date{Year: year, Month: month, Day: day}, nil
}

// jdn is the Julian day number of a Gregorian calendar date at noon.
func jdn(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Format renders the date the way statements print it, e.g.
// "19 جمادى الآخرة 1445هـ".
func (d Date) Format() string {
	return fmt.Sprintf("%d %s %dهـ", d.Day, MonthName(d.Month), d.Year)
}

// FormatDateBox builds the compact three-line date label from exactly one
// conversion call.
func FormatDateBox(t time.Time) (DateBox, error) {
	h, err := FromTime(t)
	if err != nil {
		return DateBox{}, err
	}
	return DateBox{
		Gregorian: t.Format("2006/01/02"),
		Hijri:     h.Format(),
		Day:       DayName(t),
	}, nil
}
