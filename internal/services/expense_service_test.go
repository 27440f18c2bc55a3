package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/models"
)

func amountPtr(cents int64) *models.Amount {
	a := models.Amount(cents)
	return &a
}

func datePtr(s string) *models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func expenseInput(cents int64, date, category string) ExpenseInput {
	return ExpenseInput{
		Category: category,
		Amount:   amountPtr(cents),
		Date:     datePtr(date),
	}
}

func newExpenseFixture(t *testing.T) (*ExpenseService, int64, int64) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db)

	alice, err := users.Register("alice", "s3cret")
	require.NoError(t, err)
	bob, err := users.Register("bob", "s3cret")
	require.NoError(t, err)

	return NewExpenseService(db), alice.ID, bob.ID
}

func TestCreateExpense(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)

	in := expenseInput(1250, "2024-03-01", "food")
	in.Description = "team lunch"
	expense, err := svc.Create(alice, in)
	require.NoError(t, err)

	assert.NotZero(t, expense.ID)
	assert.Equal(t, alice, expense.UserID)
	assert.Equal(t, models.Amount(1250), expense.Amount)
	assert.Equal(t, "2024-03-01", expense.Date.String())
	assert.Equal(t, "food", expense.Category)
	assert.Equal(t, "team lunch", expense.Description)
	assert.False(t, expense.CreatedAt.IsZero())
}

func TestCreateExpenseValidation(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)

	var ve *ValidationError

	in := expenseInput(1250, "2024-03-01", "food")
	in.Amount = nil
	_, err := svc.Create(alice, in)
	assert.ErrorAs(t, err, &ve)

	in = expenseInput(1250, "2024-03-01", "food")
	in.Date = nil
	_, err = svc.Create(alice, in)
	assert.ErrorAs(t, err, &ve)
}

func TestAmountRoundTrip(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)

	created, err := svc.Create(alice, expenseInput(1250, "2024-03-01", "food"))
	require.NoError(t, err)

	got, err := svc.Get(created.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, models.Amount(1250), got.Amount, "12.50 must round-trip exactly")
	assert.Equal(t, "12.50", got.Amount.String())
	assert.Equal(t, "food", got.Category)
}

func TestListByUserOrdersByDateDesc(t *testing.T) {
	svc, alice, bob := newExpenseFixture(t)

	for _, date := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		_, err := svc.Create(alice, expenseInput(1000, date, "misc"))
		require.NoError(t, err)
	}
	// Another user's expense never shows up in alice's listing.
	_, err := svc.Create(bob, expenseInput(9999, "2024-12-31", "misc"))
	require.NoError(t, err)

	expenses, err := svc.ListByUser(alice)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "2024-03-01", expenses[0].Date.String())
	assert.Equal(t, "2024-02-01", expenses[1].Date.String())
	assert.Equal(t, "2024-01-01", expenses[2].Date.String())
}

func TestListByUserEmpty(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)

	expenses, err := svc.ListByUser(alice)
	require.NoError(t, err)
	assert.Empty(t, expenses)
	assert.NotNil(t, expenses, "empty list, not null")
}

func TestGetNotFoundBeforeForbidden(t *testing.T) {
	svc, alice, bob := newExpenseFixture(t)

	created, err := svc.Create(alice, expenseInput(1250, "2024-03-01", "food"))
	require.NoError(t, err)

	// A non-existent id is NotFound even for a non-owner.
	_, err = svc.Get(created.ID+1000, bob)
	assert.ErrorIs(t, err, ErrNotFound)

	// An existing id owned by someone else is Forbidden, not NotFound.
	_, err = svc.Get(created.ID, bob)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Get(created.ID, alice)
	assert.NoError(t, err)
}

func TestUpdateExpense(t *testing.T) {
	svc, alice, bob := newExpenseFixture(t)

	in := expenseInput(1250, "2024-03-01", "food")
	in.Description = "lunch"
	created, err := svc.Create(alice, in)
	require.NoError(t, err)

	// Changing only the amount while resubmitting the original fields
	// leaves those fields untouched.
	in.Amount = amountPtr(1999)
	updated, err := svc.Update(created.ID, alice, in)
	require.NoError(t, err)
	assert.Equal(t, models.Amount(1999), updated.Amount)
	assert.Equal(t, "food", updated.Category)
	assert.Equal(t, "2024-03-01", updated.Date.String())
	assert.Equal(t, "lunch", updated.Description)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, alice, updated.UserID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "created_at is immutable")

	// Omitting a required field fails validation instead of defaulting.
	var ve *ValidationError
	_, err = svc.Update(created.ID, alice, ExpenseInput{Amount: amountPtr(1999)})
	assert.ErrorAs(t, err, &ve)

	// Ownership checks mirror Get.
	_, err = svc.Update(created.ID, bob, in)
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = svc.Update(created.ID+1000, bob, in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteExpense(t *testing.T) {
	svc, alice, bob := newExpenseFixture(t)

	created, err := svc.Create(alice, expenseInput(1250, "2024-03-01", "food"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(created.ID, bob), ErrNotOwner)
	assert.ErrorIs(t, svc.Delete(created.ID+1000, bob), ErrNotFound)

	require.NoError(t, svc.Delete(created.ID, alice))
	_, err = svc.Get(created.ID, alice)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice reports NotFound.
	assert.ErrorIs(t, svc.Delete(created.ID, alice), ErrNotFound)
}

func TestCategoryTotals(t *testing.T) {
	svc, alice, bob := newExpenseFixture(t)

	_, err := svc.Create(alice, expenseInput(1250, "2024-03-01", "food"))
	require.NoError(t, err)
	_, err = svc.Create(alice, expenseInput(750, "2024-03-15", "food"))
	require.NoError(t, err)
	_, err = svc.Create(alice, expenseInput(500, "2024-03-31", "transport"))
	require.NoError(t, err)
	// Outside the month and outside the owner: both excluded.
	_, err = svc.Create(alice, expenseInput(9999, "2024-04-01", "food"))
	require.NoError(t, err)
	_, err = svc.Create(bob, expenseInput(9999, "2024-03-10", "food"))
	require.NoError(t, err)

	totals, err := svc.CategoryTotals(alice, 2024, time.March)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "food", totals[0].Category)
	assert.Equal(t, models.Amount(2000), totals[0].Total)
	assert.Equal(t, 2, totals[0].Count)
	assert.Equal(t, "transport", totals[1].Category)
	assert.Equal(t, models.Amount(500), totals[1].Total)
	assert.Equal(t, 1, totals[1].Count)
}

func TestCategoryTotalsDecemberRollsOver(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)

	_, err := svc.Create(alice, expenseInput(1000, "2024-12-31", "gifts"))
	require.NoError(t, err)
	_, err = svc.Create(alice, expenseInput(2000, "2025-01-01", "gifts"))
	require.NoError(t, err)

	totals, err := svc.CategoryTotals(alice, 2024, time.December)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, models.Amount(1000), totals[0].Total)
}
