package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "R0,00"},
		{"150", "R150,00"},
		{"150.5", "R150,50"},
		{"1234.5", "R1\u00a0234,50"},
		{"1234567.891", "R1\u00a0234\u00a0567,89"},
		{"2.675", "R2,68"},
		{"0.005", "R0,01"},
		{"-150", "R-150,00"},
		{"-1000.1", "R-1\u00a0000,10"},
		{"-0.001", "R0,00"},
		{"9223372036854775807", "R9\u00a0223\u00a0372\u00a0036\u00a0854\u00a0775\u00a0807,00"},
		{"10000000000000000000", "R10\u00a0000\u00a0000\u00a0000\u00a0000\u00a0000\u00a0000,00"},
		{"-10000000000000000000.5", "R-10\u00a0000\u00a0000\u00a0000\u00a0000\u00a0000\u00a0000,50"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			require.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatOptionalCurrency(t *testing.T) {
	require.Equal(t, "R0,00", FormatOptionalCurrency(nil))

	d := decimal.NewFromInt(42)
	require.Equal(t, "R42,00", FormatOptionalCurrency(&d))
}

func TestFormatSignedAmount(t *testing.T) {
	savings := ExpenseRecord{Amount: decimal.NewFromInt(500), Category: CategorySavings}
	spend := ExpenseRecord{Amount: decimal.NewFromInt(150), Category: CategoryGroceries}

	require.Equal(t, "+R500,00", FormatSignedAmount(savings))
	require.Equal(t, "-R150,00", FormatSignedAmount(spend))
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "05 Jan 2025", FormatDate(NewDate(2025, 1, 5)))
	require.Equal(t, "31 Dec 2024", FormatDate(NewDate(2024, 12, 31)))
	require.Equal(t, "", FormatDate(Date{}))
}

func TestCategoryDisplayName(t *testing.T) {
	require.Equal(t, "Groceries", CategoryGroceries.DisplayName())
	require.Equal(t, "Clothes & Accessories", CategoryClothes.DisplayName())
	require.Equal(t, "Hair Cuts", CategoryHaircuts.DisplayName())
	require.Equal(t, "pets", Category("pets").DisplayName())
	require.Equal(t, "", Category("").DisplayName())
}

func TestCategories(t *testing.T) {
	all := Categories()
	require.Len(t, all, 7)
	for _, c := range all {
		require.True(t, c.IsKnown())
	}
	require.False(t, Category("pets").IsKnown())
	require.True(t, CategorySavings.IsSavings())
	require.False(t, CategoryOther.IsSavings())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-05")
	require.NoError(t, err)
	require.Equal(t, NewDate(2025, 1, 5), d)

	_, err = ParseDate("05/01/2025")
	require.Error(t, err)
}
