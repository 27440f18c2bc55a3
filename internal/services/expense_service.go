package services

import (
	"database/sql"
	"errors"
	"time"

	"spendtrack/internal/models"
)

// ExpenseInput carries the client-settable fields of an expense. Amount and
// Date are pointers so a missing field is distinguishable from a zero value.
type ExpenseInput struct {
	Category    string         `json:"category"`
	Amount      *models.Amount `json:"amount"`
	Date        *models.Date   `json:"date"`
	Description string         `json:"description"`
}

func (in *ExpenseInput) validate() error {
	if in.Amount == nil {
		return &ValidationError{Field: "amount", Reason: "is required"}
	}
	if in.Date == nil {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	return nil
}

// ExpenseServiceProvider defines the interface for expense services. Every
// method that touches an existing record takes the caller's id and resolves
// existence before ownership, so NotFound and NotOwner stay distinguishable.
type ExpenseServiceProvider interface {
	Create(owner int64, in ExpenseInput) (models.Expense, error)
	ListByUser(owner int64) ([]models.Expense, error)
	Get(id, caller int64) (models.Expense, error)
	Update(id, caller int64, in ExpenseInput) (models.Expense, error)
	Delete(id, caller int64) error
	CategoryTotals(owner int64, year int, month time.Month) ([]models.CategoryTotal, error)
}

// ExpenseService provides business logic for expense management.
type ExpenseService struct {
	db *sql.DB
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *sql.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// Create stores a new expense. The owner always comes from the authenticated
// caller, never from client input.
func (s *ExpenseService) Create(owner int64, in ExpenseInput) (models.Expense, error) {
	if err := in.validate(); err != nil {
		return models.Expense{}, err
	}

	var id int64
	err := s.db.QueryRow(
		"INSERT INTO expenses (user_id, category, amount_cents, date, description) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		owner, in.Category, int64(*in.Amount), *in.Date, in.Description,
	).Scan(&id)
	if err != nil {
		return models.Expense{}, err
	}
	return s.get(id)
}

// ListByUser returns the owner's expenses, most recent date first.
func (s *ExpenseService) ListByUser(owner int64) ([]models.Expense, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, category, amount_cents, date, description, created_at FROM expenses WHERE user_id = $1 ORDER BY date DESC",
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Get retrieves a single expense. A missing id is ErrNotFound; an existing
// expense owned by someone else is ErrNotOwner.
func (s *ExpenseService) Get(id, caller int64) (models.Expense, error) {
	expense, err := s.get(id)
	if err != nil {
		return models.Expense{}, err
	}
	if expense.UserID != caller {
		return models.Expense{}, ErrNotOwner
	}
	return expense, nil
}

// Update replaces category, amount, date and description wholesale.
// id, user_id and created_at are immutable.
func (s *ExpenseService) Update(id, caller int64, in ExpenseInput) (models.Expense, error) {
	if _, err := s.Get(id, caller); err != nil {
		return models.Expense{}, err
	}
	if err := in.validate(); err != nil {
		return models.Expense{}, err
	}

	_, err := s.db.Exec(
		"UPDATE expenses SET category = $1, amount_cents = $2, date = $3, description = $4 WHERE id = $5",
		in.Category, int64(*in.Amount), *in.Date, in.Description, id,
	)
	if err != nil {
		return models.Expense{}, err
	}
	return s.get(id)
}

// Delete removes an expense after the same existence-then-ownership checks.
func (s *ExpenseService) Delete(id, caller int64) error {
	if _, err := s.Get(id, caller); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM expenses WHERE id = $1", id)
	return err
}

// CategoryTotals aggregates the owner's spending per category for one
// calendar month.
func (s *ExpenseService) CategoryTotals(owner int64, year int, month time.Month) ([]models.CategoryTotal, error) {
	from := models.NewDate(year, month, 1)
	to := models.NewDate(year, month+1, 1)

	rows, err := s.db.Query(
		"SELECT category, SUM(amount_cents), COUNT(*) FROM expenses WHERE user_id = $1 AND date >= $2 AND date < $3 GROUP BY category ORDER BY SUM(amount_cents) DESC",
		owner, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		var cents int64
		if err := rows.Scan(&ct.Category, &cents, &ct.Count); err != nil {
			return nil, err
		}
		ct.Total = models.Amount(cents)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (s *ExpenseService) get(id int64) (models.Expense, error) {
	row := s.db.QueryRow(
		"SELECT id, user_id, category, amount_cents, date, description, created_at FROM expenses WHERE id = $1",
		id,
	)
	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Expense{}, ErrNotFound
		}
		return models.Expense{}, err
	}
	return expense, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var e models.Expense
	var cents int64
	err := row.Scan(&e.ID, &e.UserID, &e.Category, &cents, &e.Date, &e.Description, &e.CreatedAt)
	if err != nil {
		return models.Expense{}, err
	}
	e.Amount = models.Amount(cents)
	return e, nil
}
