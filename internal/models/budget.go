package models

import "encoding/json"

// DefaultTotalBudget is the monthly total used until the operator sets one.
const DefaultTotalBudget = 2000.0

// CategoryBudgets maps a category to its monthly cap.
// A missing key means no cap is set, which is different from a cap of zero.
type CategoryBudgets map[ExpenseCategory]float64

// DefaultCategoryBudgets returns a fresh copy of the default caps.
func DefaultCategoryBudgets() CategoryBudgets {
	return CategoryBudgets{
		Groceries:     400,
		Utilities:     150,
		Transport:     200,
		Entertainment: 100,
		Housing:       1000,
		Other:         150,
	}
}

// Cap returns the cap for a category and whether one is set.
func (b CategoryBudgets) Cap(c ExpenseCategory) (float64, bool) {
	v, ok := b[c]
	return v, ok
}

// Clone returns an independent copy.
func (b CategoryBudgets) Clone() CategoryBudgets {
	if b == nil {
		return nil
	}
	out := make(CategoryBudgets, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// UnmarshalJSON decodes caps, treating a null value like an absent key.
func (b *CategoryBudgets) UnmarshalJSON(data []byte) error {
	var raw map[ExpenseCategory]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	out := make(CategoryBudgets, len(raw))
	for c, v := range raw {
		if v != nil {
			out[c] = *v
		}
	}
	*b = out
	return nil
}
