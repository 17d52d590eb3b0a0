package hijri

import "time"

var monthNames = [12]string{
	"محرم",
	"صفر",
	"ربيع الأول",
	"ربيع الآخر",
	"جمادى الأولى",
	"جمادى الآخرة",
	"رجب",
	"شعبان",
	"رمضان",
	"شوال",
	"ذو القعدة",
	"ذو الحجة",
}

// dayNames is indexed by time.Weekday (Sunday = 0).
var dayNames = [7]string{
	"الأحد",
	"الاثنين",
	"الثلاثاء",
	"الأربعاء",
	"الخميس",
	"الجمعة",
	"السبت",
}

// MonthName returns the Arabic name of a Hijri month (1-12), or "" for an
// out-of-range month number.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// DayName returns the Arabic weekday name for a Gregorian date.
func DayName(t time.Time) string {
	return dayNames[t.Weekday()]
}
