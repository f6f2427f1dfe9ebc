// Package locale formats dates, amounts and captions for the Arabic and
// English report layouts.
package locale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported languages.
const (
	English = "en"
	Arabic  = "ar"
)

// Supported calendars.
const (
	Gregorian = "gregorian"
	Hijri     = "hijri"
)

// Settings choose how values are presented.
type Settings struct {
	Language string
	Calendar string
}

// RTL reports whether the language is written right to left.
func (s Settings) RTL() bool { return s.Language == Arabic }

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// ArabicDigits maps ASCII digits in s to Arabic-Indic digits.
func ArabicDigits(s string) string {
	return arabicDigits.Replace(s)
}

var arabicSeparators = strings.NewReplacer(",", "٬", ".", "٫")

var printer = message.NewPrinter(language.English)

// FormatAmount renders d with two decimals and grouped thousands, e.g.
// "1,234.50". Arabic uses Arabic-Indic digits and separators.
func FormatAmount(d decimal.Decimal, lang string) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped string
	if n, err := decimal.NewFromString(whole); err == nil && n.LessThan(decimal.New(1, 18)) {
		grouped = printer.Sprintf("%d", n.IntPart())
	} else {
		grouped = whole
	}

	out := grouped + "." + frac
	if d.IsNegative() && !d.Round(2).IsZero() {
		out = "-" + out
	}
	if lang == Arabic {
		return ArabicDigits(arabicSeparators.Replace(out))
	}
	return out
}

// FormatDate renders t in the configured calendar. Gregorian dates are
// ISO formatted; Hijri dates use YYYY/MM/DD.
func FormatDate(t time.Time, s Settings) string {
	if t.IsZero() {
		return ""
	}
	var out string
	if s.Calendar == Hijri {
		out = ToHijri(t).String()
	} else {
		out = t.Format("2006-01-02")
	}
	if s.Language == Arabic {
		return ArabicDigits(out)
	}
	return out
}
