package arabic

import "strings"

// Tafqeet spells out a non-negative whole amount in Arabic words, the form
// printed under statement totals. Negative input is treated as its
// magnitude; the caller labels the direction (له/عليه) separately.

var ones = [20]string{
	"", "واحد", "اثنان", "ثلاثة", "أربعة", "خمسة", "ستة", "سبعة", "ثمانية", "تسعة",
	"عشرة", "أحد عشر", "اثنا عشر", "ثلاثة عشر", "أربعة عشر", "خمسة عشر",
	"ستة عشر", "سبعة عشر", "ثمانية عشر", "تسعة عشر",
}

var tens = [10]string{
	"", "", "عشرون", "ثلاثون", "أربعون", "خمسون", "ستون", "سبعون", "ثمانون", "تسعون",
}

var hundreds = [10]string{
	"", "مائة", "مائتان", "ثلاثمائة", "أربعمائة", "خمسمائة",
	"ستمائة", "سبعمائة", "ثمانمائة", "تسعمائة",
}

type scale struct {
	value    int64
	singular string
	dual     string
	plural   string // for counts 3-10
}

var scales = []scale{
	{1_000_000_000, "مليار", "ملياران", "مليارات"},
	{1_000_000, "مليون", "مليونان", "ملايين"},
	{1_000, "ألف", "ألفان", "آلاف"},
}

// Tafqeet converts n to Arabic words, e.g. 1500 -> "ألف وخمسمائة".
func Tafqeet(n int64) string {
	if n < 0 {
		n = -n
	}
	if n == 0 {
		return "صفر"
	}

	var parts []string
	for _, s := range scales {
		count := n / s.value
		n %= s.value
		switch {
		case count == 0:
		case count == 1:
			parts = append(parts, s.singular)
		case count == 2:
			parts = append(parts, s.dual)
		case count <= 10:
			parts = append(parts, group(count)+" "+s.plural)
		default:
			parts = append(parts, group(count)+" "+s.singular)
		}
	}
	if n > 0 {
		parts = append(parts, group(n))
	}
	return strings.Join(parts, " و")
}

// group spells a number below 1000.
func group(n int64) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, ones[n])
	default:
		if u := n % 10; u > 0 {
			parts = append(parts, ones[u]+" و"+tens[n/10])
		} else {
			parts = append(parts, tens[n/10])
		}
	}
	return strings.Join(parts, " و")
}

var currencyNames = map[string]string{
	"YER": "ريال يمني",
	"SAR": "ريال سعودي",
	"USD": "دولار أمريكي",
	"EUR": "يورو",
	"AED": "درهم إماراتي",
}

// CurrencyName returns the Arabic currency name, falling back to the raw
// code for currencies the table does not know.
func CurrencyName(code string) string {
	if name, ok := currencyNames[code]; ok {
		return name
	}
	return code
}

// AmountInWords is the statement footer form: words, currency, and the
// closing formula, e.g. "خمسمائة ريال يمني فقط لا غير".
func AmountInWords(whole int64, currency string) string {
	return Tafqeet(whole) + " " + CurrencyName(currency) + " فقط لا غير"
}
