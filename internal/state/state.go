// Package state holds the application state context: one reactive cell per
// persisted entity store.
//
// A State is owned by the root component and passed by reference to
// collaborators. There are no package-level cells, so several instances can
// run side by side over isolated media.
package state

import (
	"context"

	"github.com/mmynk/lifesync/internal/models"
	"github.com/mmynk/lifesync/internal/reactive"
	"github.com/mmynk/lifesync/internal/storage"
)

// Durable keys, one per entity store.
const (
	KeyIdentity        = "identity"
	KeyPartners        = "partners"
	KeyTasks           = "tasks"
	KeyAppointments    = "appointments"
	KeyExpenses        = "expenses"
	KeyTotalBudget     = "total-budget"
	KeyCategoryBudgets = "category-budgets"
)

// Keys lists every durable key in a stable order.
func Keys() []string {
	return []string{
		KeyIdentity,
		KeyPartners,
		KeyTasks,
		KeyAppointments,
		KeyExpenses,
		KeyTotalBudget,
		KeyCategoryBudgets,
	}
}

// State is the set of entity stores. Writes replace whole values; validating
// list mutations is the caller's job.
type State struct {
	Identity        *reactive.Cell[models.User]
	Partners        *reactive.Cell[[]models.Partner]
	Tasks           *reactive.Cell[[]models.Task]
	Appointments    *reactive.Cell[[]models.Appointment]
	Expenses        *reactive.Cell[[]models.Expense]
	TotalBudget     *reactive.Cell[float64]
	CategoryBudgets *reactive.Cell[models.CategoryBudgets]
}

// Open loads every store from kv, substituting defaults for missing or
// unreadable entries.
func Open(ctx context.Context, kv *storage.KV) *State {
	return &State{
		Identity:        reactive.New(ctx, kv, KeyIdentity, models.User{}),
		Partners:        reactive.New(ctx, kv, KeyPartners, []models.Partner{}),
		Tasks:           reactive.New(ctx, kv, KeyTasks, []models.Task{}),
		Appointments:    reactive.New(ctx, kv, KeyAppointments, []models.Appointment{}),
		Expenses:        reactive.New(ctx, kv, KeyExpenses, []models.Expense{}),
		TotalBudget:     reactive.New(ctx, kv, KeyTotalBudget, models.DefaultTotalBudget),
		CategoryBudgets: reactive.New(ctx, kv, KeyCategoryBudgets, models.DefaultCategoryBudgets()),
	}
}
