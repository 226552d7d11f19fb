package dto

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount with grouped thousands and two decimals,
// e.g. 1250000 -> "1,250,000.00".
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("%.2f", amount)
}
