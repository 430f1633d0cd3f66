// Package money formats currency amounts for a locale: the locale's currency
// symbol followed by the amount with that currency's standard scale and the
// locale's digit grouping and decimal separator.
package money

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the market TripMatch agencies operate in (Peruvian soles).
const DefaultLocale = "es-PE"

// Formatter renders amounts for one locale. It is immutable and safe for
// concurrent use; a message.Printer is created per call.
type Formatter struct {
	tag    language.Tag
	unit   currency.Unit
	scale  int
	symbol string
}

// Option customizes a Formatter.
type Option func(*Formatter)

// WithSymbol overrides the currency symbol resolved from the locale.
func WithSymbol(symbol string) Option {
	return func(f *Formatter) {
		f.symbol = symbol
	}
}

// WithCurrency overrides the currency derived from the locale's region.
func WithCurrency(unit currency.Unit) Option {
	return func(f *Formatter) {
		f.unit = unit
	}
}

// New builds a Formatter for a BCP 47 locale such as "es-PE" or "en-US".
func New(locale string, opts ...Option) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	f := &Formatter{tag: tag}
	unit, conf := currency.FromTag(tag)
	if conf != language.No {
		f.unit = unit
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.unit == (currency.Unit{}) {
		return nil, fmt.Errorf("locale %q has no region currency", locale)
	}

	f.scale, _ = currency.Standard.Rounding(f.unit)
	if f.symbol == "" {
		f.symbol = message.NewPrinter(tag).Sprint(currency.Symbol(f.unit))
	}
	return f, nil
}

// MustNew is New that panics on error. Intended for tests and static locales.
func MustNew(locale string, opts ...Option) *Formatter {
	f, err := New(locale, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Format renders amount, e.g. "S/ 1,250.00" for es-PE.
func (f *Formatter) Format(amount float64) string {
	p := message.NewPrinter(f.tag)
	return f.symbol + " " + p.Sprint(number.Decimal(amount, number.Scale(f.scale)))
}

// Currency is the ISO 4217 code of the formatter's currency.
func (f *Formatter) Currency() string {
	return f.unit.String()
}
