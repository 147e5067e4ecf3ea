// Package money formats integer minor-unit amounts for display.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the storefront's only currency.
var Currency = currency.NOK

var printer = message.NewPrinter(language.MustParse("nb"))

// Major converts minor units (øre) to a decimal amount in kroner.
func Major(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents as a localized amount with the currency symbol, e.g. "kr 4 490,00".
func Format(cents int64) string {
	return printer.Sprint(currency.Symbol(Currency.Amount(Major(cents).InexactFloat64())))
}
