package reporting

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatUSD renders v as whole dollars with thousands separators.
func FormatUSD(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + printer.Sprintf("%d", -n)
	}
	return "$" + printer.Sprintf("%d", n)
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}
