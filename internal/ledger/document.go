package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// amount is written as a bare JSON number and read from a number, a numeric
// string or null.
type amount decimal.Decimal

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = amount(d)
	return nil
}

type document struct {
	User     *userDocument     `json:"user"`
	Expenses []expenseDocument `json:"expenses"`
}

type userDocument struct {
	MonthlyIncome amount `json:"monthlyIncome"`
	Name          string `json:"name"`
}

type expenseDocument struct {
	ID          string `json:"id"`
	Amount      amount `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
}

func encodeDocument(user UserProfile, expenses []ExpenseRecord) ([]byte, error) {
	doc := document{
		User: &userDocument{
			MonthlyIncome: amount(user.MonthlyIncome),
			Name:          user.Name,
		},
		Expenses: make([]expenseDocument, 0, len(expenses)),
	}

	for _, e := range expenses {
		createdAt := ""
		if !e.CreatedAt.IsZero() {
			createdAt = e.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		doc.Expenses = append(doc.Expenses, expenseDocument{
			ID:          e.ID,
			Amount:      amount(e.Amount),
			Category:    string(e.Category),
			Description: e.Description,
			Date:        e.Date.String(),
			CreatedAt:   createdAt,
		})
	}

	blob, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ledger: %w", err)
	}
	return blob, nil
}

// decodeDocument fills every missing field with its default. Missing or
// repeated ids are replaced using newID so ids stay unique. Amounts outside
// the accepted range load as 0.
func decodeDocument(blob []byte, newID func() string) (UserProfile, []ExpenseRecord, error) {
	var doc document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return UserProfile{}, nil, fmt.Errorf("failed to decode ledger: %w", err)
	}

	user := DefaultUser()
	if doc.User != nil {
		user.MonthlyIncome = normalizeIncome(decimal.Decimal(doc.User.MonthlyIncome))
		if name := strings.TrimSpace(doc.User.Name); name != "" {
			user.Name = doc.User.Name
		}
	}

	seen := make(map[string]struct{}, len(doc.Expenses))
	expenses := make([]ExpenseRecord, 0, len(doc.Expenses))
	for _, raw := range doc.Expenses {
		id := raw.ID
		if _, dup := seen[id]; id == "" || dup {
			id = newID()
		}
		seen[id] = struct{}{}

		var createdAt time.Time
		if raw.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339Nano, raw.CreatedAt); err == nil {
				createdAt = t.UTC()
			}
		}

		date, err := ParseDate(raw.Date)
		if err != nil && !createdAt.IsZero() {
			date = DateOf(createdAt)
		}

		expenses = append(expenses, ExpenseRecord{
			ID:          id,
			Amount:      boundedAmount(decimal.Decimal(raw.Amount)),
			Category:    Category(raw.Category),
			Description: raw.Description,
			Date:        date,
			CreatedAt:   createdAt,
		})
	}

	return user, expenses, nil
}
