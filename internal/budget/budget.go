// Package budget computes how spending compares with the configured budget.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/lifesync/internal/models"
)

// CategoryLine is the spending of one category within a period.
type CategoryLine struct {
	Category models.ExpenseCategory
	Spent    decimal.Decimal
	// Cap is only meaningful when HasCap is true.
	Cap    decimal.Decimal
	HasCap bool
}

// Remaining returns Cap - Spent. It is zero when no cap is set.
func (l CategoryLine) Remaining() decimal.Decimal {
	if !l.HasCap {
		return decimal.Zero
	}
	return l.Cap.Sub(l.Spent)
}

// Over reports whether a capped category has been overspent.
func (l CategoryLine) Over() bool {
	return l.HasCap && l.Spent.GreaterThan(l.Cap)
}

// Overview summarizes one period of spending.
type Overview struct {
	From, To   time.Time // [From, To)
	Total      decimal.Decimal
	Spent      decimal.Decimal
	Categories []CategoryLine // one per category, in display order
}

// Remaining returns Total - Spent.
func (o Overview) Remaining() decimal.Decimal {
	return o.Total.Sub(o.Spent)
}

// Over reports whether the total budget has been overspent.
func (o Overview) Over() bool {
	return o.Spent.GreaterThan(o.Total)
}

// MonthOf returns the calendar month containing t, in t's location.
func MonthOf(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}

// Calculate sums expenses dated in [from, to) per category and sets them
// against the total and the category caps.
//
// Amounts are summed as decimals so that many small expenses add up exactly.
func Calculate(expenses []models.Expense, total float64, caps models.CategoryBudgets, from, to time.Time) Overview {
	spent := make(map[models.ExpenseCategory]decimal.Decimal)
	overall := decimal.Zero

	for _, e := range expenses {
		if e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		amount := decimal.NewFromFloat(e.Amount)
		spent[e.Category] = spent[e.Category].Add(amount)
		overall = overall.Add(amount)
	}

	o := Overview{
		From:  from,
		To:    to,
		Total: decimal.NewFromFloat(total),
		Spent: overall,
	}
	for _, c := range models.Categories() {
		line := CategoryLine{Category: c, Spent: spent[c]}
		if v, ok := caps.Cap(c); ok {
			line.Cap = decimal.NewFromFloat(v)
			line.HasCap = true
		}
		o.Categories = append(o.Categories, line)
	}
	return o
}
