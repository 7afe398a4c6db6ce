package payload

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money converts between the backend's plain two-decimal strings and locale formatted display strings.
type Money struct {
	printer *message.Printer
}

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "pt-BR"

// NewMoney builds a formatter for a BCP 47 locale tag. Unknown tags fall back to DefaultLocale.
func NewMoney(locale string) Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return Money{printer: message.NewPrinter(tag)}
}

// Display formats a backend amount ("1234.5") for the UI ("1.234,50" in pt-BR).
// Amounts that do not parse are shown unchanged.
func (m Money) Display(plain string) string {
	if strings.TrimSpace(plain) == "" {
		return ""
	}
	cents, ok := parseCents(plain)
	if !ok {
		return plain
	}
	p := m.printer
	if p == nil {
		p = message.NewPrinter(language.MustParse(DefaultLocale))
	}
	return p.Sprint(number.Decimal(float64(cents)/100, number.Scale(2)))
}

// Plain strips a display string down to the backend form with exactly two decimals.
// An empty input stays empty; garbage becomes "0.00".
func (m Money) Plain(display string) string {
	if strings.TrimSpace(display) == "" {
		return ""
	}
	cents, ok := parseCents(display)
	if !ok {
		return "0.00"
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// parseCents reads amounts written with either "." or "," as decimal separator and
// either of them (or spaces) as grouping. The last separator followed by one or two digits is the decimal one.
func parseCents(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	negative := strings.HasPrefix(s, "-")

	var digits strings.Builder
	decimals := -1
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
			if decimals >= 0 {
				decimals++
			}
		case r == '.' || r == ',':
			decimals = 0
		}
	}
	all := digits.String()
	if all == "" {
		return 0, false
	}
	// a trailing group of three digits is a thousands group, not decimals
	if decimals > 2 || decimals < 0 {
		decimals = 0
	}
	whole, frac := all[:len(all)-decimals], all[len(all)-decimals:]
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}
	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

// ValidAmount reports whether s reads as a monetary amount in any of the accepted notations.
// A leading currency symbol is tolerated.
func ValidAmount(s string) bool {
	s = strings.TrimLeftFunc(strings.TrimSpace(s), func(r rune) bool { return r == 'R' || r == '$' || r == ' ' })
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', unicode.IsSpace(r):
		default:
			return false
		}
	}
	_, ok := parseCents(s)
	return ok
}
