package hijri

import (
	"errors"
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestFromTimeReferenceDates(t *testing.T) {
	// Reference values of the civil tabular calendar, spanning different
	// Hijri months including a month boundary and a 30-day Dhu al-Hijjah.
	cases := []struct {
		g    time.Time
		want Date
	}{
		{date(2024, 1, 1), Date{1445, 6, 19}},
		{date(2024, 3, 11), Date{1445, 9, 1}},
		{date(2024, 7, 7), Date{1445, 12, 30}},
		{date(2025, 6, 26), Date{1446, 12, 29}},
		{date(1999, 4, 17), Date{1420, 1, 1}},
		{date(2000, 1, 1), Date{1420, 9, 24}},
		{date(2024, 2, 29), Date{1445, 8, 19}},
		{date(1900, 1, 1), Date{1317, 8, 28}},
		{date(2100, 12, 31), Date{1524, 10, 29}},
	}
	for _, tc := range cases {
		got, err := FromTime(tc.g)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.g.Format("2006-01-02"), err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.g.Format("2006-01-02"), tc.want, got)
		}
	}
}

func TestFromTimeOutOfRange(t *testing.T) {
	for _, g := range []time.Time{date(1899, 12, 31), date(2101, 1, 1)} {
		if _, err := FromTime(g); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("%s: expected ErrOutOfRange, got %v", g.Format("2006-01-02"), err)
		}
	}
}

func TestDayName(t *testing.T) {
	cases := []struct {
		g    time.Time
		want string
	}{
		{date(2024, 1, 1), "الاثنين"}, // Monday
		{date(2024, 1, 5), "الجمعة"},  // Friday
		{date(2024, 1, 6), "السبت"},   // Saturday
		{date(2024, 1, 7), "الأحد"},   // Sunday
	}
	for _, tc := range cases {
		if got := DayName(tc.g); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.g.Weekday(), tc.want, got)
		}
	}
}

func TestFormatDateBox(t *testing.T) {
	box, err := FormatDateBox(date(2024, 1, 1))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if box.Gregorian != "2024/01/01" {
		t.Fatalf("gregorian: got %q", box.Gregorian)
	}
	if box.Hijri != "19 جمادى الآخرة 1445هـ" {
		t.Fatalf("hijri: got %q", box.Hijri)
	}
	if box.Day != "الاثنين" {
		t.Fatalf("day: got %q", box.Day)
	}

	if _, err := FormatDateBox(date(1800, 1, 1)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(9) != "رمضان" {
		t.Fatalf("month 9: got %q", MonthName(9))
	}
	if MonthName(0) != "" || MonthName(13) != "" {
		t.Fatalf("out-of-range months must map to empty string")
	}
}
