package ledger

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// South African rand, en-ZA conventions.
const (
	CurrencySymbol    = "R"
	GroupSeparator    = "\u00a0"
	DecimalSeparator  = ","
	DisplayDateLayout = "02 Jan 2006"
)

// FormatCurrency renders amount as e.g. R1 234,50 (non-breaking space grouping).
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole := rounded.BigInt()
	cents := rounded.Sub(decimal.NewFromBigInt(whole, 0)).Shift(2).IntPart()
	grouped := strings.ReplaceAll(humanize.BigComma(whole), ",", GroupSeparator)

	return fmt.Sprintf("%s%s%s%s%02d", CurrencySymbol, sign, grouped, DecimalSeparator, cents)
}

// FormatOptionalCurrency treats a missing amount as zero.
func FormatOptionalCurrency(amount *decimal.Decimal) string {
	if amount == nil {
		return FormatCurrency(decimal.Zero)
	}
	return FormatCurrency(*amount)
}

// FormatSignedAmount prefixes savings with + and spending with -.
func FormatSignedAmount(e ExpenseRecord) string {
	if e.Category.IsSavings() {
		return "+" + FormatCurrency(e.Amount)
	}
	return "-" + FormatCurrency(e.Amount)
}

func FormatDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayDateLayout)
}
