package ledger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/finance_manager/customErrors"
	"github.com/fatali-fataliyev/finance_manager/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RecentLimit is how many records the overview shows.
const RecentLimit = 10

// Amounts are bounded so sums and formatting stay cheap. The exponent bounds
// are checked first because comparing decimals rescales them.
const (
	maxAmountExponent = 15
	minAmountExponent = -100
)

var maxAmount = decimal.New(1, maxAmountExponent)

// leadingNumber matches the numeric prefix of loosely typed input, e.g. the
// 12 in "12,50".
var leadingNumber = regexp.MustCompile(`^([+-]?)(\d*)(\.\d+)?([eE][+-]?\d+)?`)

// Storage persists the ledger as a single opaque blob.
type Storage interface {
	Load() (blob []byte, found bool, err error)
	Save(blob []byte) error
	GetStorageType() string
}

// LedgerStore owns the user profile and the expense records. It is not safe
// for concurrent use; callers that share it must serialize access.
//
// Every mutation is written to storage before it returns. When the write
// fails the in-memory state is rolled back, so memory and storage never
// disagree after a call.
type LedgerStore struct {
	storage     Storage
	StorageType string

	user     UserProfile
	expenses []ExpenseRecord // newest first

	// degraded is set while the stored ledger could not be read. Writes are
	// refused until a re-read succeeds, so the stored data is never replaced.
	degraded bool

	now   func() time.Time
	newID func() string
}

type Option func(*LedgerStore)

func WithClock(now func() time.Time) Option {
	return func(ls *LedgerStore) {
		ls.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(ls *LedgerStore) {
		ls.newID = newID
	}
}

// NewLedgerStore restores the ledger from storage. An absent or corrupt blob
// yields the empty ledger; only a failure to persist that empty ledger is
// returned as an error. A read error leaves the store degraded: it shows the
// empty ledger and refuses writes until storage can be read again.
func NewLedgerStore(s Storage, opts ...Option) (*LedgerStore, error) {
	ls := &LedgerStore{
		storage:     s,
		StorageType: s.GetStorageType(),
		user:        DefaultUser(),
		expenses:    []ExpenseRecord{},
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(ls)
	}

	if err := ls.restore(); err != nil {
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}
	return ls, nil
}

func (ls *LedgerStore) restore() error {
	blob, found, err := ls.storage.Load()
	if err != nil {
		ls.degraded = true
		logging.Logger.WithError(err).Warn("failed to read stored ledger, writes are disabled until it can be read")
		return nil
	}
	ls.degraded = false
	if !found {
		logging.Logger.Info("no stored ledger found, initializing an empty ledger")
		return ls.ResetData()
	}

	user, expenses, err := decodeDocument(blob, ls.newID)
	if err != nil {
		logging.Logger.WithError(err).Warn("stored ledger is corrupt, resetting to an empty ledger")
		return ls.ResetData()
	}

	ls.user = user
	ls.expenses = expenses
	logging.Logger.WithFields(logrus.Fields{
		"storage":  ls.StorageType,
		"expenses": len(expenses),
	}).Info("ledger restored")
	return nil
}

func (ls *LedgerStore) persist() error {
	blob, err := encodeDocument(ls.user, ls.expenses)
	if err != nil {
		return fmt.Errorf("%w: %w", appErrors.ErrPersist, err)
	}
	if err := ls.storage.Save(blob); err != nil {
		return fmt.Errorf("%w: %w", appErrors.ErrPersist, err)
	}
	return nil
}

// Degraded reports whether the stored ledger could not be read.
func (ls *LedgerStore) Degraded() bool {
	return ls.degraded
}

// ensureRestored retries reading storage while the store is degraded.
func (ls *LedgerStore) ensureRestored(op string) error {
	if !ls.degraded {
		return nil
	}
	if err := ls.restore(); err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if ls.degraded {
		return fmt.Errorf("failed to %s: %w: stored ledger could not be read", op, appErrors.ErrPersist)
	}
	return nil
}

// mutate applies change and persists it, restoring the previous state if the
// write fails. change must not modify the existing expenses slice in place.
func (ls *LedgerStore) mutate(op string, change func()) error {
	if err := ls.ensureRestored(op); err != nil {
		return err
	}
	prevUser, prevExpenses := ls.user, ls.expenses

	change()

	if err := ls.persist(); err != nil {
		ls.user, ls.expenses = prevUser, prevExpenses
		logging.Logger.WithError(err).WithField("operation", op).Error("ledger change rolled back")
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return nil
}

// ParseAmount converts user input to a decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is empty", appErrors.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: '%s' is not a number", appErrors.ErrInvalidInput, raw)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if !inRange(d) {
		return decimal.Zero, fmt.Errorf("%w: '%s' is out of range", appErrors.ErrInvalidInput, raw)
	}
	return d, nil
}

// inRange reports whether |d| <= 1e15 with at most 100 decimal places.
func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxAmountExponent || exp < minAmountExponent {
		return false
	}
	return d.Abs().LessThanOrEqual(maxAmount)
}

// boundedAmount maps zero and out of range values to decimal.Zero.
func boundedAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() || !inRange(d) {
		return decimal.Zero
	}
	return d
}

func normalizeIncome(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return boundedAmount(d)
}

// leadingAmount returns the numeric prefix of raw, or "" when there is none.
func leadingAmount(raw string) string {
	m := leadingNumber.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil || (m[2] == "" && m[3] == "") {
		return ""
	}
	sign, whole := m[1], m[2]
	if sign == "+" {
		sign = ""
	}
	if whole == "" {
		whole = "0"
	}
	return sign + whole + m[3] + m[4]
}

// SetMonthlyIncome never rejects input. Like a loose float parse it reads the
// leading number ("12,50" is 12), and anything without one, out of range or
// negative is stored as 0. It returns the stored income.
func (ls *LedgerStore) SetMonthlyIncome(raw string) (decimal.Decimal, error) {
	income, err := ParseAmount(leadingAmount(raw))
	if err != nil {
		logging.Logger.Debugf("monthly income '%s' is not a number, storing 0", raw)
		income = decimal.Zero
	}
	income = normalizeIncome(income)

	err = ls.mutate("set monthly income", func() {
		ls.user.MonthlyIncome = income
	})
	if err != nil {
		return decimal.Zero, err
	}
	return income, nil
}

// SetName stores the display name; a blank name restores the placeholder.
func (ls *LedgerStore) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultUserName
	}
	return ls.mutate("set name", func() {
		ls.user.Name = name
	})
}

// AddExpense records an expense dated today. Input is stored as given;
// validating it is the caller's job.
func (ls *LedgerStore) AddExpense(amount decimal.Decimal, category Category, description string) (ExpenseRecord, error) {
	now := ls.now()
	record := ExpenseRecord{
		ID:          ls.newID(),
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        DateOf(now),
		CreatedAt:   now,
	}

	err := ls.mutate("add expense", func() {
		next := make([]ExpenseRecord, 0, len(ls.expenses)+1)
		next = append(next, record)
		ls.expenses = append(next, ls.expenses...)
	})
	if err != nil {
		return ExpenseRecord{}, err
	}

	logging.Logger.WithFields(logrus.Fields{
		"id":       record.ID,
		"amount":   record.Amount.String(),
		"category": string(record.Category),
	}).Debug("expense added")
	return record, nil
}

// DeleteExpense reports false, without touching storage, when no record has id.
func (ls *LedgerStore) DeleteExpense(id string) (bool, error) {
	if err := ls.ensureRestored("delete expense"); err != nil {
		return false, err
	}
	idx := ls.indexOf(id)
	if idx == -1 {
		return false, nil
	}

	err := ls.mutate("delete expense", func() {
		next := make([]ExpenseRecord, 0, len(ls.expenses)-1)
		next = append(next, ls.expenses[:idx]...)
		ls.expenses = append(next, ls.expenses[idx+1:]...)
	})
	if err != nil {
		return false, err
	}

	logging.Logger.WithField("id", id).Debug("expense deleted")
	return true, nil
}

// ResetData replaces everything with the empty ledger. There is no undo.
func (ls *LedgerStore) ResetData() error {
	err := ls.mutate("reset ledger", func() {
		ls.user = DefaultUser()
		ls.expenses = []ExpenseRecord{}
	})
	if err != nil {
		return err
	}
	logging.Logger.Info("ledger reset")
	return nil
}

func (ls *LedgerStore) indexOf(id string) int {
	for i, e := range ls.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (ls *LedgerStore) User() UserProfile {
	return ls.user
}

// NeedsSetup reports whether the monthly income is still unset.
func (ls *LedgerStore) NeedsSetup() bool {
	return ls.user.MonthlyIncome.IsZero()
}

// Expenses returns a copy of all records, newest first.
func (ls *LedgerStore) Expenses() []ExpenseRecord {
	out := make([]ExpenseRecord, len(ls.expenses))
	copy(out, ls.expenses)
	return out
}

// Recent returns at most n of the newest records.
func (ls *LedgerStore) Recent(n int) []ExpenseRecord {
	if n <= 0 {
		return []ExpenseRecord{}
	}
	if n > len(ls.expenses) {
		n = len(ls.expenses)
	}
	out := make([]ExpenseRecord, n)
	copy(out, ls.expenses[:n])
	return out
}

func (ls *LedgerStore) sum(match func(ExpenseRecord) bool) decimal.Decimal {
	total := decimal.Zero
	for _, e := range ls.expenses {
		if match(e) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalExpenses sums every record except savings.
func (ls *LedgerStore) TotalExpenses() decimal.Decimal {
	return ls.sum(func(e ExpenseRecord) bool { return !e.Category.IsSavings() })
}

func (ls *LedgerStore) TotalSavings() decimal.Decimal {
	return ls.sum(func(e ExpenseRecord) bool { return e.Category.IsSavings() })
}

// RemainingBalance is income minus spending. Savings are not deducted.
func (ls *LedgerStore) RemainingBalance() decimal.Decimal {
	return ls.user.MonthlyIncome.Sub(ls.TotalExpenses())
}

func (ls *LedgerStore) Summary() Summary {
	return Summary{
		MonthlyIncome:    ls.user.MonthlyIncome,
		TotalExpenses:    ls.TotalExpenses(),
		TotalSavings:     ls.TotalSavings(),
		RemainingBalance: ls.RemainingBalance(),
		ExpenseCount:     len(ls.expenses),
	}
}
