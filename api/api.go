package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/0xcafe-io/iz"
	appErrors "github.com/fatali-fataliyev/finance_manager/customErrors"
	"github.com/fatali-fataliyev/finance_manager/internal/contextutil"
	"github.com/fatali-fataliyev/finance_manager/internal/ledger"
	"github.com/fatali-fataliyev/finance_manager/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const TraceIDHeader = "X-Trace-ID"

// Api is the presentation layer over a single LedgerStore. The store is not
// safe for concurrent use, so every handler holds mu while touching it.
type Api struct {
	mu     sync.Mutex
	Ledger *ledger.LedgerStore
}

func NewApi(store *ledger.LedgerStore) *Api {
	return &Api{
		Ledger: store,
	}
}

// Handler returns every route wrapped with request tracing.
func (api *Api) Handler() http.Handler {
	server := http.NewServeMux()

	// LEDGER ENDPOINTS.
	server.HandleFunc("GET /api/ledger", iz.Bind(api.GetLedgerHandler))   // Overview: user, totals, 10 most recent
	server.HandleFunc("POST /api/reset", iz.Bind(api.ResetLedgerHandler)) // Reset everything

	// USER ENDPOINTS.
	server.HandleFunc("PUT /api/income", iz.Bind(api.SetIncomeHandler)) // Set monthly income, number or numeric string
	server.HandleFunc("PUT /api/name", iz.Bind(api.SetNameHandler))     // Set display name

	// EXPENSE ENDPOINTS.
	server.HandleFunc("GET /api/expenses", iz.Bind(api.GetExpensesHandler))           // All expenses, newest first
	server.HandleFunc("POST /api/expenses", iz.Bind(api.SaveExpenseHandler))          // Create expense
	server.HandleFunc("DELETE /api/expenses/{id}", iz.Bind(api.DeleteExpenseHandler)) // Delete expense
	server.HandleFunc("GET /api/categories", iz.Bind(api.GetCategoriesHandler))       // Category values and labels

	return withTrace(server)
}

func withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		w.Header().Set(TraceIDHeader, traceID)

		logging.Logger.WithFields(logrus.Fields{
			"trace_id": traceID,
			"method":   r.Method,
			"path":     r.URL.Path,
		}).Debug("request")

		next.ServeHTTP(w, r.WithContext(contextutil.WithTraceID(r.Context(), traceID)))
	})
}

func respondError(r *iz.Request, err error, msg string) iz.Responder {
	status := httpStatusFromError(err)
	if status >= 500 {
		traceID := contextutil.TraceIDFromContext(r.Context())
		logging.Logger.Errorf("[TraceID=%s] | %s | Error: %v", traceID, msg, err)
	}
	return iz.Respond().Status(status).JSON(appErrors.NewErrorResponse(err, msg))
}

func (api *Api) GetLedgerHandler(r *iz.Request) iz.Responder {
	api.mu.Lock()
	defer api.mu.Unlock()

	return iz.Respond().Status(200).JSON(LedgerToHttp(api.Ledger))
}

func (api *Api) GetExpensesHandler(r *iz.Request) iz.Responder {
	api.mu.Lock()
	defer api.mu.Unlock()

	return iz.Respond().Status(200).JSON(ExpensesToHttp(api.Ledger.Expenses()))
}

func (api *Api) GetCategoriesHandler(r *iz.Request) iz.Responder {
	var categories []CategoryItem
	for _, c := range ledger.Categories() {
		categories = append(categories, CategoryItem{Value: string(c), Name: c.DisplayName()})
	}
	return iz.Respond().Status(200).JSON(categories)
}

// parsePositive enforces what the ledger itself leaves to its callers.
func parsePositive(raw string, msg string) (decimal.Decimal, error) {
	amount, err := ledger.ParseAmount(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", appErrors.ErrInvalidInput, msg)
	}
	return amount, nil
}

func (api *Api) SetIncomeHandler(r *iz.Request) iz.Responder {
	var req SetIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return respondError(r, appErrors.ErrInvalidInput, msg)
	}

	if _, err := parsePositive(string(req.MonthlyIncome), "Please enter a valid monthly income"); err != nil {
		return respondError(r, err, "Please enter a valid monthly income")
	}

	api.mu.Lock()
	defer api.mu.Unlock()

	if _, err := api.Ledger.SetMonthlyIncome(string(req.MonthlyIncome)); err != nil {
		return respondError(r, err, fmt.Sprintf("failed to save monthly income: %v", err))
	}
	return iz.Respond().Status(200).JSON(LedgerToHttp(api.Ledger))
}

func (api *Api) SetNameHandler(r *iz.Request) iz.Responder {
	var req SetNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return respondError(r, appErrors.ErrInvalidInput, msg)
	}

	api.mu.Lock()
	defer api.mu.Unlock()

	if err := api.Ledger.SetName(req.Name); err != nil {
		return respondError(r, err, fmt.Sprintf("failed to save name: %v", err))
	}
	return iz.Respond().Status(200).JSON(LedgerToHttp(api.Ledger))
}

func (api *Api) SaveExpenseHandler(r *iz.Request) iz.Responder {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return respondError(r, appErrors.ErrInvalidInput, msg)
	}

	amount, err := parsePositive(string(req.Amount), "Please enter a valid amount")
	if err != nil {
		return respondError(r, err, "Please enter a valid amount")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return respondError(r, appErrors.ErrInvalidInput, "Please enter a description")
	}

	category := ledger.Category(strings.TrimSpace(req.Category))
	if category == "" {
		category = ledger.CategoryOther
	}

	api.mu.Lock()
	defer api.mu.Unlock()

	record, err := api.Ledger.AddExpense(amount, category, description)
	if err != nil {
		return respondError(r, err, fmt.Sprintf("failed to create expense: %v", err))
	}
	return iz.Respond().Status(201).JSON(ExpenseToHttp(record))
}

func (api *Api) DeleteExpenseHandler(r *iz.Request) iz.Responder {
	id := r.PathValue("id")

	api.mu.Lock()
	defer api.mu.Unlock()

	deleted, err := api.Ledger.DeleteExpense(id)
	if err != nil {
		return respondError(r, err, fmt.Sprintf("failed to delete expense: %v", err))
	}
	if !deleted {
		return respondError(r, appErrors.ErrNotFound, fmt.Sprintf("expense '%s' not found", id))
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Expense deleted"})
}

func (api *Api) ResetLedgerHandler(r *iz.Request) iz.Responder {
	api.mu.Lock()
	defer api.mu.Unlock()

	if err := api.Ledger.ResetData(); err != nil {
		return respondError(r, err, fmt.Sprintf("failed to reset data: %v", err))
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "All data has been reset."})
}
