package models

import "time"

// Space is a user-owned budget with a fixed currency. UserID and Currency
// are immutable after creation.
type Space struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
