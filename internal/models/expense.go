package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ExpenseCategory is the closed set of spending categories.
type ExpenseCategory int

const (
	Groceries ExpenseCategory = iota
	Utilities
	Transport
	Entertainment
	Housing
	Other
)

// ErrUnknownCategory is returned when a name does not match any category.
var ErrUnknownCategory = errors.New("unknown expense category")

// Categories lists every category in display order.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{Groceries, Utilities, Transport, Entertainment, Housing, Other}
}

// String returns the category name as stored on disk.
func (c ExpenseCategory) String() string {
	switch c {
	case Groceries:
		return "Groceries"
	case Utilities:
		return "Utilities"
	case Transport:
		return "Transport"
	case Entertainment:
		return "Entertainment"
	case Housing:
		return "Housing"
	case Other:
		return "Other"
	default:
		return fmt.Sprintf("ExpenseCategory(%d)", int(c))
	}
}

// Valid reports whether c is one of the declared categories.
func (c ExpenseCategory) Valid() bool {
	return c >= Groceries && c <= Other
}

// ParseCategory converts a category name into an ExpenseCategory.
func ParseCategory(name string) (ExpenseCategory, error) {
	for _, c := range Categories() {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// MarshalText encodes the category by name. It also makes the category usable
// as a JSON object key.
func (c ExpenseCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *ExpenseCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Expense is a single spending record.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description says what the money was spent on.
	Description string `json:"description"`

	// Amount is the spent amount. Never negative.
	Amount float64 `json:"amount"`

	// Category is one of the fixed expense categories.
	Category ExpenseCategory `json:"category"`

	// Date is when the expense happened.
	Date time.Time `json:"date"`
}

// UnmarshalJSON rejects expenses with a negative or non-finite amount so that
// a corrupt durable entry falls back to its default instead of leaking into
// totals.
func (e *Expense) UnmarshalJSON(data []byte) error {
	type plain Expense
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return fmt.Errorf("expense %s: non-finite amount %v", p.ID, p.Amount)
	}
	if p.Amount < 0 {
		return fmt.Errorf("expense %s: negative amount %v", p.ID, p.Amount)
	}
	*e = Expense(p)
	return nil
}
