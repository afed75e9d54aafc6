package api

import (
	"encoding/json"
	"errors"
	"time"

	appErrors "github.com/fatali-fataliyev/finance_manager/customErrors"
	"github.com/fatali-fataliyev/finance_manager/internal/ledger"
	"github.com/shopspring/decimal"
)

// REQUESTS START:

// NumberInput is raw numeric form input. It accepts a JSON string or a JSON
// number and keeps the text as sent.
type NumberInput string

func (n *NumberInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = NumberInput(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = NumberInput(num.String())
	return nil
}

type SetIncomeRequest struct {
	MonthlyIncome NumberInput `json:"monthlyIncome"`
}

type SetNameRequest struct {
	Name string `json:"name"`
}

type CreateExpenseRequest struct {
	Amount      NumberInput `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
}

// REQUESTS END:

// RESPONSES:
type MessageResponse struct {
	Message string `json:"message"`
}

type ExpenseItem struct {
	ID              string `json:"id"`
	Amount          string `json:"amount"`
	FormattedAmount string `json:"formattedAmount"`
	Category        string `json:"category"`
	CategoryName    string `json:"categoryName"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	DisplayDate     string `json:"displayDate"`
	CreatedAt       string `json:"createdAt"`
}

type MoneyItem struct {
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
}

type UserItem struct {
	Name          string    `json:"name"`
	MonthlyIncome MoneyItem `json:"monthlyIncome"`
}

type SummaryItem struct {
	TotalExpenses    MoneyItem `json:"totalExpenses"`
	TotalSavings     MoneyItem `json:"totalSavings"`
	RemainingBalance MoneyItem `json:"remainingBalance"`
	ExpenseCount     int       `json:"expenseCount"`
}

type LedgerResponse struct {
	User       UserItem      `json:"user"`
	NeedsSetup bool          `json:"needsSetup"`
	Summary    SummaryItem   `json:"summary"`
	Recent     []ExpenseItem `json:"recent"`
}

type CategoryItem struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

func httpStatusFromError(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrNotFound):
		return 404 // not found
	case errors.Is(err, appErrors.ErrInvalidInput):
		return 400 // bad request
	default:
		return 500 //internal error, including failed saves
	}
}

func MoneyToHttp(d decimal.Decimal) MoneyItem {
	return MoneyItem{
		Amount:    d.StringFixed(2),
		Formatted: ledger.FormatCurrency(d),
	}
}

func ExpenseToHttp(e ledger.ExpenseRecord) ExpenseItem {
	createdAt := ""
	if !e.CreatedAt.IsZero() {
		createdAt = e.CreatedAt.Format(time.RFC3339)
	}
	return ExpenseItem{
		ID:              e.ID,
		Amount:          e.Amount.StringFixed(2),
		FormattedAmount: ledger.FormatSignedAmount(e),
		Category:        string(e.Category),
		CategoryName:    e.Category.DisplayName(),
		Description:     e.Description,
		Date:            e.Date.String(),
		DisplayDate:     ledger.FormatDate(e.Date),
		CreatedAt:       createdAt,
	}
}

func ExpensesToHttp(records []ledger.ExpenseRecord) []ExpenseItem {
	items := make([]ExpenseItem, 0, len(records))
	for _, e := range records {
		items = append(items, ExpenseToHttp(e))
	}
	return items
}

func LedgerToHttp(ls *ledger.LedgerStore) LedgerResponse {
	user := ls.User()
	summary := ls.Summary()
	return LedgerResponse{
		User: UserItem{
			Name:          user.Name,
			MonthlyIncome: MoneyToHttp(user.MonthlyIncome),
		},
		NeedsSetup: ls.NeedsSetup(),
		Summary: SummaryItem{
			TotalExpenses:    MoneyToHttp(summary.TotalExpenses),
			TotalSavings:     MoneyToHttp(summary.TotalSavings),
			RemainingBalance: MoneyToHttp(summary.RemainingBalance),
			ExpenseCount:     summary.ExpenseCount,
		},
		Recent: ExpensesToHttp(ls.Recent(ledger.RecentLimit)),
	}
}
