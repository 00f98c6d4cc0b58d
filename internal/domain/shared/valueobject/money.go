package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	INR Currency = "INR" // Indian Rupee (default)
	USD Currency = "USD"
)

// DefaultCurrency is the default currency for the store
const DefaultCurrency = INR

var currencySymbols = map[Currency]string{
	INR: "₹",
	USD: "$",
}

var currencyLocales = map[Currency]language.Tag{
	INR: language.MustParse("en-IN"),
	USD: language.AmericanEnglish,
}

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyINR creates Money in rupees from a whole-rupee amount
func NewMoneyINR(rupees int64) Money {
	return Money{amount: decimal.NewFromInt(rupees), currency: INR}
}

// Zero returns zero money in the given currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns the sum of two amounts in the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// MustAdd adds and panics on currency mismatch
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns m minus other
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract %s from %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// ApplyDiscount reduces the amount by percent (0-100), rounded to whole units
func (m Money) ApplyDiscount(percent int) Money {
	if percent <= 0 {
		return m
	}
	if percent > 100 {
		percent = 100
	}
	factor := decimal.NewFromInt(int64(100 - percent)).Div(decimal.NewFromInt(100))
	return Money{amount: m.amount.Mul(factor).Round(0), currency: m.currency}
}

// Int64 returns the amount rounded to whole currency units
func (m Money) Int64() int64 {
	return m.amount.Round(0).IntPart()
}

// Equals checks equality of amount and currency
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns the plain decimal amount with its currency code
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

// Format renders the amount with the currency symbol and locale digit grouping,
// e.g. ₹2,500 for INR.
func (m Money) Format() string {
	symbol, ok := currencySymbols[m.currency]
	if !ok {
		symbol = string(m.currency) + " "
	}
	tag, ok := currencyLocales[m.currency]
	if !ok {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	whole := m.Int64()
	if whole < 0 {
		return "-" + symbol + p.Sprintf("%d", -whole)
	}
	return symbol + p.Sprintf("%d", whole)
}

// FormatINR formats a whole-rupee amount
func FormatINR(rupees int64) string {
	return NewMoneyINR(rupees).Format()
}

// MarshalJSON renders Money as {"amount": <number>, "currency": "INR"}
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   json.Number `json:"amount"`
		Currency Currency    `json:"currency"`
	}{
		Amount:   json.Number(m.amount.String()),
		Currency: m.currency,
	})
}
