package lending

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is the closed catalogue of currencies money can be expressed in.
type Currency string

const (
	EUR  Currency = "EUR"
	USD  Currency = "USD"
	HOUR Currency = "HOUR"
)

var currencyNames = map[Currency]string{
	EUR:  "Euro",
	USD:  "US Dollar",
	HOUR: "Labor Token",
}

// Name returns the display name of the currency.
func (c Currency) Name() string {
	return currencyNames[c]
}

// IsValid reports whether c is part of the catalogue.
func (c Currency) IsValid() bool {
	_, ok := currencyNames[c]
	return ok
}

// ParseCurrency validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(code)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	return c, nil
}

// Money is an arbitrary-precision amount in one currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
	symbol   string
}

// NewMoney builds a money value, rejecting unknown currencies.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
	}

	return Money{amount: amount, currency: currency}, nil
}

// MoneyFromString parses a decimal amount such as "12.50".
func MoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parsing money amount %q: %w", amount, err)
	}

	return NewMoney(d, currency)
}

// MustMoney is like MoneyFromString but panics on invalid input. Intended for constants and tests.
func MustMoney(amount string, currency Currency) Money {
	m, err := MoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}

	return m
}

// ZeroMoney returns a zero amount in currency.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// WithSymbol returns a copy carrying a display symbol such as "$".
func (m Money) WithSymbol(symbol string) Money {
	m.symbol = symbol
	return m
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() Currency {
	return m.currency
}

func (m Money) Symbol() string {
	return m.symbol
}

// Dollars returns the amount when the currency is USD.
func (m Money) Dollars() (decimal.Decimal, error) {
	if m.currency != USD {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrNotDollars, m.currency)
	}

	return m.amount, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add sums two values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}

	return Money{amount: m.amount.Add(other.amount), currency: m.currency, symbol: m.symbol}, nil
}

// Mul scales the amount by factor.
func (m Money) Mul(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor)), currency: m.currency, symbol: m.symbol}
}

// Cmp compares two values of the same currency: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return 0, err
	}

	return m.amount.Cmp(other.amount), nil
}

// LessThanOrEqual reports m <= other for values of the same currency.
func (m Money) LessThanOrEqual(other Money) (bool, error) {
	cmp, err := m.Cmp(other)
	if err != nil {
		return false, err
	}

	return cmp <= 0, nil
}

// GreaterThan reports m > other for values of the same currency.
func (m Money) GreaterThan(other Money) (bool, error) {
	cmp, err := m.Cmp(other)
	if err != nil {
		return false, err
	}

	return cmp > 0, nil
}

// Equal reports value equality. Values in different currencies are never equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	if m.symbol != "" {
		return m.symbol + m.amount.StringFixed(2)
	}

	return m.amount.StringFixed(2) + " " + string(m.currency)
}

func (m Money) requireSameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return nil
}

// Total sums amounts, all of which must be in currency. An empty total is zero in currency.
func Total(currency Currency, amounts ...Money) (Money, error) {
	total := ZeroMoney(currency)

	for _, amount := range amounts {
		sum, err := total.Add(amount)
		if err != nil {
			return Money{}, err
		}
		total = sum
	}

	return total, nil
}
