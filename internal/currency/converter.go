package currency

import (
	"fmt"
	"log/slog"
	"strconv"
)

// USD is the pivot currency every rate is expressed against.
const USD = "USD"

// zeroDecimal lists currencies displayed without a fractional part.
var zeroDecimal = map[string]bool{
	"JPY": true,
	"KRW": true,
}

// Converter converts and formats amounts using a currency Table.
//
// Codes missing from the table are not an error: they are treated as having
// USD parity (rate 1). This keeps conversion total, but it usually means a
// bill references a currency the table does not know about, so every fallback
// is reported to the optional unknown-code hook and logged at debug level.
type Converter struct {
	table     *Table
	onUnknown func(code string)
}

// Option configures a Converter.
type Option func(*Converter)

// WithUnknownHook registers fn to be called with every code that falls back to USD parity.
func WithUnknownHook(fn func(code string)) Option {
	return func(c *Converter) {
		c.onUnknown = fn
	}
}

// NewConverter creates a converter over table. A nil table means Default().
func NewConverter(table *Table, opts ...Option) *Converter {
	if table == nil {
		table = Default()
	}
	c := &Converter{table: table}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the table backing this converter.
func (c *Converter) Table() *Table {
	return c.table
}

// Convert converts amount from one currency to another through USD and rounds
// the result to two decimal places.
func (c *Converter) Convert(amount float64, from, to string) float64 {
	if from == to {
		return Round(amount)
	}
	usd := amount / c.rate(from)
	return Round(usd * c.rate(to))
}

// Format renders amount with the currency symbol: no decimals for JPY and KRW,
// two otherwise. Unknown codes render as a bare two-decimal number.
func (c *Converter) Format(amount float64, code string) string {
	cur, ok := c.table.Lookup(code)
	if !ok {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	decimals := 2
	if zeroDecimal[code] {
		decimals = 0
	}
	return cur.Symbol + strconv.FormatFloat(amount, 'f', decimals, 64)
}

// ExchangeRateText describes the rate between two currencies, e.g. "1 € = $1.18".
// It returns an empty string when the codes are equal or either is unknown.
func (c *Converter) ExchangeRateText(from, to string) string {
	if from == to {
		return ""
	}
	fromCur, ok := c.table.Lookup(from)
	if !ok || !c.table.Has(to) {
		return ""
	}
	rate := c.Convert(1, from, to)
	return fmt.Sprintf("1 %s = %s", fromCur.Symbol, c.Format(rate, to))
}

func (c *Converter) rate(code string) float64 {
	if r, ok := c.table.Rate(code); ok {
		return r
	}
	slog.Debug("Unknown currency code, assuming USD parity", "code", code)
	if c.onUnknown != nil {
		c.onUnknown(code)
	}
	return 1
}
