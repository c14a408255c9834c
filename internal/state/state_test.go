package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lifesync/internal/models"
	"github.com/mmynk/lifesync/internal/storage"
)

func TestOpen_Defaults(t *testing.T) {
	s := Open(context.Background(), storage.NewKV(storage.NewMemory()))

	assert.Equal(t, models.User{ID: "", Name: ""}, s.Identity.Get())
	assert.Empty(t, s.Partners.Get())
	assert.Empty(t, s.Tasks.Get())
	assert.Empty(t, s.Appointments.Get())
	assert.Empty(t, s.Expenses.Get())
	assert.Equal(t, 2000.0, s.TotalBudget.Get())
	assert.Equal(t, models.CategoryBudgets{
		models.Groceries:     400,
		models.Utilities:     150,
		models.Transport:     200,
		models.Entertainment: 100,
		models.Housing:       1000,
		models.Other:         150,
	}, s.CategoryBudgets.Get())
}

func TestOpen_InstancesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := Open(ctx, storage.NewKV(storage.NewMemory()))
	b := Open(ctx, storage.NewKV(storage.NewMemory()))

	a.CategoryBudgets.Update(func(prev models.CategoryBudgets) models.CategoryBudgets {
		next := prev.Clone()
		delete(next, models.Housing)
		return next
	})

	_, ok := b.CategoryBudgets.Get().Cap(models.Housing)
	assert.True(t, ok, "defaults must not be shared between instances")
}

func TestWriteThenRead_AllKeys(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewKV(storage.NewMemory())
	s := Open(ctx, kv)

	when := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	user := models.User{ID: "user-1", Name: "Ana"}
	partners := []models.Partner{{ID: "user-2", Name: "Bo"}}
	tasks := []models.Task{{ID: "t1", Text: "water plants", CreatedAt: when}}
	appts := []models.Appointment{{ID: "a1", Title: "dentist", Date: when, IsShared: true}}
	expenses := []models.Expense{{ID: "e1", Description: "bread", Amount: 3.5, Category: models.Groceries, Date: when}}
	caps := models.CategoryBudgets{models.Housing: 900}

	s.Identity.Set(user)
	s.Partners.Set(partners)
	s.Tasks.Set(tasks)
	s.Appointments.Set(appts)
	s.Expenses.Set(expenses)
	s.TotalBudget.Set(1800)
	s.CategoryBudgets.Set(caps)

	assert.Equal(t, user, s.Identity.Get())
	assert.Equal(t, partners, s.Partners.Get())
	assert.Equal(t, tasks, s.Tasks.Get())
	assert.Equal(t, appts, s.Appointments.Get())
	assert.Equal(t, expenses, s.Expenses.Get())
	assert.Equal(t, 1800.0, s.TotalBudget.Get())
	assert.Equal(t, caps, s.CategoryBudgets.Get())

	// A fresh context over the same medium reads the same values back.
	reopened := Open(ctx, kv)
	assert.Equal(t, user, reopened.Identity.Get())
	assert.Equal(t, partners, reopened.Partners.Get())
	require.Len(t, reopened.Tasks.Get(), 1)
	assert.True(t, when.Equal(reopened.Tasks.Get()[0].CreatedAt))
	require.Len(t, reopened.Expenses.Get(), 1)
	assert.Equal(t, models.Groceries, reopened.Expenses.Get()[0].Category)
	assert.Equal(t, caps, reopened.CategoryBudgets.Get())
}

func TestOpen_CorruptEntriesFallBack(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(ctx, KeyCategoryBudgets, []byte(`{"Fuel":10}`)))
	require.NoError(t, mem.Save(ctx, KeyExpenses, []byte(`[{"id":"e1","amount":-4,"category":"Other"}]`)))
	require.NoError(t, mem.Save(ctx, KeyIdentity, []byte(`[1,2]`)))

	s := Open(ctx, storage.NewKV(mem))

	assert.Equal(t, models.DefaultCategoryBudgets(), s.CategoryBudgets.Get())
	assert.Empty(t, s.Expenses.Get())
	assert.Equal(t, models.User{}, s.Identity.Get())
}

func TestCategoryBudgets_AbsentMeansNoCap(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(ctx, KeyCategoryBudgets, []byte(`{"Groceries":0}`)))

	s := Open(ctx, storage.NewKV(mem))
	caps := s.CategoryBudgets.Get()

	v, ok := caps.Cap(models.Groceries)
	assert.True(t, ok)
	assert.Zero(t, v)
	_, ok = caps.Cap(models.Transport)
	assert.False(t, ok)
}

func TestCategoryBudgets_NullMeansNoCap(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(ctx, KeyCategoryBudgets, []byte(`{"Groceries":null,"Housing":1000}`)))

	s := Open(ctx, storage.NewKV(mem))
	caps := s.CategoryBudgets.Get()

	_, ok := caps.Cap(models.Groceries)
	assert.False(t, ok, "null cap is no cap")
	v, ok := caps.Cap(models.Housing)
	assert.True(t, ok)
	assert.Equal(t, 1000.0, v)
	assert.Len(t, caps, 1)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{
		"identity", "partners", "tasks", "appointments", "expenses", "total-budget", "category-budgets",
	}, Keys())
}
