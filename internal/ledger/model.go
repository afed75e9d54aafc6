package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultUserName = "You"
	DateLayout      = "2006-01-02"
)

type Category string

const (
	CategoryGroceries      Category = "groceries"
	CategoryTransportation Category = "transportation"
	CategoryToiletries     Category = "toiletries"
	CategoryClothes        Category = "clothes"
	CategoryHaircuts       Category = "haircuts"
	CategorySavings        Category = "savings"
	CategoryOther          Category = "other"
)

var categoryNames = map[Category]string{
	CategoryGroceries:      "Groceries",
	CategoryTransportation: "Transportation",
	CategoryToiletries:     "Toiletries",
	CategoryClothes:        "Clothes & Accessories",
	CategoryHaircuts:       "Hair Cuts",
	CategorySavings:        "Savings",
	CategoryOther:          "Other",
}

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryGroceries,
		CategoryTransportation,
		CategoryToiletries,
		CategoryClothes,
		CategoryHaircuts,
		CategorySavings,
		CategoryOther,
	}
}

func (c Category) IsKnown() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human label; unknown categories are their own label.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

func (c Category) IsSavings() bool {
	return c == CategorySavings
}

// Date is a calendar day in UTC.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

type UserProfile struct {
	Name          string
	MonthlyIncome decimal.Decimal
}

func DefaultUser() UserProfile {
	return UserProfile{
		Name:          DefaultUserName,
		MonthlyIncome: decimal.Zero,
	}
}

type ExpenseRecord struct {
	ID          string
	Amount      decimal.Decimal
	Category    Category
	Description string
	Date        Date
	CreatedAt   time.Time
}

type Summary struct {
	MonthlyIncome    decimal.Decimal
	TotalExpenses    decimal.Decimal
	TotalSavings     decimal.Decimal
	RemainingBalance decimal.Decimal
	ExpenseCount     int
}
