package models

import "time"

// Expense represents a single expense record owned by a user.
type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"`
	Amount      Amount    `json:"amount"`
	Date        Date      `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryTotal aggregates a user's spending for one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Amount `json:"total"`
	Count    int    `json:"count"`
}
