// Package currency formats monetary amounts for display.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Format renders amount as "<ISO code> <grouped amount>", e.g. "USD 1,275.00",
// using the standard minor-unit scale of the currency. Unknown codes fall
// back to two decimals.
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			return amount.StringFixed(2)
		}
		return code + " " + amount.StringFixed(2)
	}

	scale, _ := currency.Standard.Rounding(unit)
	value, _ := amount.Round(int32(scale)).Float64()
	return printer.Sprintf("%s %v", unit, number.Decimal(value, number.Scale(scale)))
}
