package locale

import (
	"fmt"
	"time"
)

// HijriDate is a date in the tabular Islamic calendar.
type HijriDate struct {
	Year  int
	Month int
	Day   int
}

func (h HijriDate) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", h.Year, h.Month, h.Day)
}

var hijriMonths = map[string][12]string{
	"en": {
		"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani", "Jumada al-Awwal", "Jumada al-Thani",
		"Rajab", "Shaban", "Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
	},
	"ar": {
		"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
		"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
	},
}

// unixEpochJD is the Julian Day number of 1970-01-01.
const unixEpochJD = 2440588

// ToHijri converts the calendar day of t to the tabular Islamic calendar
// (30-year cycle, epoch 16 July 622). The result can differ by a day
// from sighting-based calendars such as Umm al-Qura.
func ToHijri(t time.Time) HijriDate {
	days := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
	jd := int(days) + unixEpochJD

	l := jd - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	m := (24 * l) / 709
	d := l - (709*m)/24
	y := 30*n + j - 30

	return HijriDate{Year: y, Month: m, Day: d}
}

// MonthName returns the name of the Hijri month in lang, falling back to
// English.
func (h HijriDate) MonthName(lang string) string {
	names, ok := hijriMonths[lang]
	if !ok {
		names = hijriMonths["en"]
	}
	if h.Month < 1 || h.Month > 12 {
		return ""
	}
	return names[h.Month-1]
}

// FormatHijri renders h for reading, e.g. "1 Ramadan 1446" or
// "١ رمضان ١٤٤٦ هـ".
func FormatHijri(h HijriDate, lang string) string {
	if lang == Arabic {
		return ArabicDigits(fmt.Sprintf("%d %s %d", h.Day, h.MonthName(lang), h.Year)) + " هـ"
	}
	return fmt.Sprintf("%d %s %d", h.Day, h.MonthName(lang), h.Year)
}
