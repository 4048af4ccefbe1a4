// Package currency holds the static exchange-rate table and the converter used
// to bring item, tax and tip amounts into a bill's base currency.
//
// Rates are fixed and expressed relative to the US dollar. Conversion between
// any two currencies pivots through USD.
package currency

import (
	"errors"
	"fmt"
)

// ErrInvalidCurrency is returned when a table is built from a malformed entry.
var ErrInvalidCurrency = errors.New("invalid currency")

// Currency describes one supported currency.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	// RateToUSD is how many units of this currency one US dollar buys.
	// Always positive.
	RateToUSD float64 `json:"rate"`
}

// Table is an immutable registry of currencies keyed by ISO code.
// A Table is safe for concurrent use once built.
type Table struct {
	byCode map[string]Currency
	order  []string
}

// NewTable builds a table from the given currencies, preserving their order.
// Codes must be non-empty and unique, and every rate must be positive.
func NewTable(currencies []Currency) (*Table, error) {
	t := &Table{
		byCode: make(map[string]Currency, len(currencies)),
		order:  make([]string, 0, len(currencies)),
	}
	for _, c := range currencies {
		if c.Code == "" {
			return nil, fmt.Errorf("%w: empty code", ErrInvalidCurrency)
		}
		if !(c.RateToUSD > 0) {
			return nil, fmt.Errorf("%w: %s has non-positive rate %v", ErrInvalidCurrency, c.Code, c.RateToUSD)
		}
		if _, exists := t.byCode[c.Code]; exists {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrInvalidCurrency, c.Code)
		}
		t.byCode[c.Code] = c
		t.order = append(t.order, c.Code)
	}
	return t, nil
}

// Lookup returns the currency registered under code.
func (t *Table) Lookup(code string) (Currency, bool) {
	c, ok := t.byCode[code]
	return c, ok
}

// Rate returns the USD-relative rate for code.
func (t *Table) Rate(code string) (float64, bool) {
	c, ok := t.byCode[code]
	if !ok {
		return 0, false
	}
	return c.RateToUSD, true
}

// Has reports whether code is registered.
func (t *Table) Has(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

// Currencies returns a copy of the registered currencies in table order.
func (t *Table) Currencies() []Currency {
	out := make([]Currency, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, t.byCode[code])
	}
	return out
}

// Len returns the number of registered currencies.
func (t *Table) Len() int {
	return len(t.order)
}

var defaultCurrencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", RateToUSD: 1.0},
	{Code: "EUR", Symbol: "€", Name: "Euro", RateToUSD: 0.85},
	{Code: "GBP", Symbol: "£", Name: "British Pound", RateToUSD: 0.73},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", RateToUSD: 110.0},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", RateToUSD: 1.25},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", RateToUSD: 1.35},
	{Code: "CHF", Symbol: "CHF", Name: "Swiss Franc", RateToUSD: 0.92},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", RateToUSD: 6.45},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", RateToUSD: 74.5},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won", RateToUSD: 1180.0},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", RateToUSD: 1.35},
	{Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar", RateToUSD: 7.8},
	{Code: "SEK", Symbol: "kr", Name: "Swedish Krona", RateToUSD: 8.5},
	{Code: "NOK", Symbol: "kr", Name: "Norwegian Krone", RateToUSD: 8.7},
	{Code: "MXN", Symbol: "$", Name: "Mexican Peso", RateToUSD: 20.0},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real", RateToUSD: 5.2},
}

var defaultTable = mustTable(defaultCurrencies)

// Default returns the built-in table of 16 currencies.
func Default() *Table {
	return defaultTable
}

func mustTable(currencies []Currency) *Table {
	t, err := NewTable(currencies)
	if err != nil {
		panic(err)
	}
	return t
}
