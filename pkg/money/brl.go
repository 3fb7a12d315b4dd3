/**
 * @description
 * This package formats monetary amounts for display. Amounts travel through
 * the system as plain decimals and are only rendered as pt-BR currency
 * strings ("R$ 1.234,56") at the presentation layer.
 *
 * @dependencies
 * - github.com/shopspring/decimal: Exact decimal amounts.
 * - golang.org/x/text: Locale-aware number formatting.
 */

package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount as Brazilian currency with two decimal places,
// a comma decimal separator and dot thousands grouping.
func FormatBRL(value decimal.Decimal) string {
	f, _ := value.Round(2).Float64()
	return brPrinter.Sprintf("R$ %.2f", f)
}
