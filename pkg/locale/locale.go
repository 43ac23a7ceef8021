// Package locale formats money and dates the same way for every receipt,
// message and API payload of a tenant.
package locale

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const (
	DefaultCurrency = "XAF"
	DefaultLocale   = "fr-FR"
	DefaultTimezone = "Africa/Douala"

	narrowNBSP = "\u202f"
	nbsp       = "\u00a0"

	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// conventions describes how a language groups digits and places the currency symbol.
type conventions struct {
	group       string
	decimal     string
	symbolAfter bool
}

var conventionsByLanguage = map[string]conventions{
	"fr": {group: narrowNBSP, decimal: ",", symbolAfter: true},
	"de": {group: ".", decimal: ",", symbolAfter: true},
	"es": {group: ".", decimal: ",", symbolAfter: true},
	"pt": {group: ".", decimal: ",", symbolAfter: true},
	"en": {group: ",", decimal: ".", symbolAfter: false},
}

// symbols holds the display symbol used on receipts. Unknown currencies print their ISO code.
var symbols = map[string]string{
	"XAF": "FCFA",
	"XOF": "F" + narrowNBSP + "CFA",
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CDF": "FC",
	"NGN": "₦",
	"GHS": "GH₵",
	"KES": "Ksh",
}

// Formatter renders amounts and dates for one currency, locale and timezone.
// It is immutable and safe for concurrent use.
type Formatter struct {
	code     string
	scale    int32
	symbol   string
	tag      language.Tag
	conv     conventions
	location *time.Location
}

// New builds a formatter. Empty arguments fall back to XAF, fr-FR and Africa/Douala.
func New(currencyCode, localeTag, timezone string) (*Formatter, error) {
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	if localeTag == "" {
		localeTag = DefaultLocale
	}
	if timezone == "" {
		timezone = DefaultTimezone
	}

	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	scale, err := Scale(code)
	if err != nil {
		return nil, err
	}

	tag, err := language.Parse(localeTag)
	if err != nil {
		return nil, fmt.Errorf("locale: invalid locale %q: %w", localeTag, err)
	}
	base, _ := tag.Base()
	conv, ok := conventionsByLanguage[base.String()]
	if !ok {
		conv = conventionsByLanguage["fr"]
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("locale: invalid timezone %q: %w", timezone, err)
	}

	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}

	return &Formatter{
		code:     code,
		scale:    scale,
		symbol:   symbol,
		tag:      tag,
		conv:     conv,
		location: loc,
	}, nil
}

// MustNew is New for static configuration known to be valid.
func MustNew(currencyCode, localeTag, timezone string) *Formatter {
	f, err := New(currencyCode, localeTag, timezone)
	if err != nil {
		panic(err)
	}
	return f
}

// Scale returns the number of minor-unit digits of an ISO 4217 currency (XAF: 0, EUR: 2).
func Scale(code string) (int32, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, fmt.Errorf("locale: unknown currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

// Currency returns the ISO code.
func (f *Formatter) Currency() string { return f.code }

// Scale returns the minor-unit scale of the currency.
func (f *Formatter) Scale() int32 { return f.scale }

// Location returns the timezone used for dates.
func (f *Formatter) Location() *time.Location { return f.location }

// Tag returns the resolved language tag.
func (f *Formatter) Tag() language.Tag { return f.tag }

// FitsScale reports whether d can be expressed in whole minor units.
func (f *Formatter) FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(f.scale))
}

// Number formats d with grouping and the currency's number of decimals, without symbol.
func (f *Formatter) Number(d decimal.Decimal) string {
	fixed := d.StringFixed(f.scale)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.conv.group)
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteString(f.conv.decimal)
		b.WriteString(fracPart)
	}
	return b.String()
}

// Money formats d with the currency symbol, e.g. "3 800 FCFA" or "1 234,50 €".
func (f *Formatter) Money(d decimal.Decimal) string {
	n := f.Number(d)
	if f.conv.symbolAfter {
		return n + nbsp + f.symbol
	}
	if isWord(f.symbol) {
		return f.symbol + nbsp + n
	}
	return f.symbol + n
}

// Date formats t as dd/mm/yyyy in the formatter's timezone.
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.location).Format(dateLayout)
}

// DateTime formats t as dd/mm/yyyy HH:MM in the formatter's timezone.
func (f *Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.location).Format(dateTimeLayout)
}

// Upper upper-cases s with the locale's casing rules.
func (f *Formatter) Upper(s string) string {
	return cases.Upper(f.tag).String(s)
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
