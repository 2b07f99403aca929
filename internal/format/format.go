package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency formats a US dollar amount with locale digit grouping.
// Example: Currency(1299.5, "en") => "$1,299.50"
func Currency(amount float64, lang string) string {
	p := message.NewPrinter(tag(lang))
	if amount < 0 {
		return "-$" + p.Sprintf("%.2f", -amount)
	}
	return "$" + p.Sprintf("%.2f", amount)
}

// WholeCurrency formats a price bound without cents, for range sliders.
func WholeCurrency(amount float64, lang string) string {
	p := message.NewPrinter(tag(lang))
	return "$" + p.Sprintf("%.0f", amount)
}

// Count formats an integer with locale digit grouping.
func Count(n int, lang string) string {
	return message.NewPrinter(tag(lang)).Sprintf("%d", n)
}

// Date formats time in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ja":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func tag(lang string) language.Tag {
	t, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return t
}
