package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/mmynk/lifesync/internal/budget"
	"github.com/mmynk/lifesync/internal/models"
)

// ErrInvalidInput is wrapped by every argument validation failure.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// finite reports whether v can be stored. NaN and infinities have no JSON form.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AddTask appends a new open task.
func (o *Organizer) AddTask(text string) (models.Task, error) {
	st, err := o.State()
	if err != nil {
		return models.Task{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, invalid("task text must not be empty")
	}

	task := models.Task{ID: o.newID(), Text: text, CreatedAt: o.now()}
	st.Tasks.Update(func(prev []models.Task) []models.Task { return appendCopy(prev, task) })
	slog.Info("Task added", "task_id", task.ID)
	return task, nil
}

// ToggleTask flips the completed flag of a task.
func (o *Organizer) ToggleTask(id string) (models.Task, error) {
	st, err := o.State()
	if err != nil {
		return models.Task{}, err
	}
	return replaceByID(st.Tasks, id, func(t models.Task) string { return t.ID }, func(t models.Task) models.Task {
		t.Completed = !t.Completed
		return t
	})
}

// RemoveTask deletes a task.
func (o *Organizer) RemoveTask(id string) error {
	st, err := o.State()
	if err != nil {
		return err
	}
	return removeByID(st.Tasks, id, func(t models.Task) string { return t.ID })
}

// AddAppointment appends a new appointment.
func (o *Organizer) AddAppointment(title string, date time.Time, shared bool) (models.Appointment, error) {
	st, err := o.State()
	if err != nil {
		return models.Appointment{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Appointment{}, invalid("appointment title must not be empty")
	}
	if date.IsZero() {
		return models.Appointment{}, invalid("appointment date is required")
	}

	appt := models.Appointment{ID: o.newID(), Title: title, Date: date, IsShared: shared}
	st.Appointments.Update(func(prev []models.Appointment) []models.Appointment { return appendCopy(prev, appt) })
	slog.Info("Appointment added", "appointment_id", appt.ID, "shared", shared)
	return appt, nil
}

// RemoveAppointment deletes an appointment.
func (o *Organizer) RemoveAppointment(id string) error {
	st, err := o.State()
	if err != nil {
		return err
	}
	return removeByID(st.Appointments, id, func(a models.Appointment) string { return a.ID })
}

// AddExpense appends a new expense.
func (o *Organizer) AddExpense(description string, amount float64, category models.ExpenseCategory, date time.Time) (models.Expense, error) {
	st, err := o.State()
	if err != nil {
		return models.Expense{}, err
	}
	description = strings.TrimSpace(description)
	switch {
	case description == "":
		return models.Expense{}, invalid("expense description must not be empty")
	case !finite(amount):
		return models.Expense{}, invalid("expense amount must be a finite number, got %v", amount)
	case amount < 0:
		return models.Expense{}, invalid("expense amount must not be negative, got %v", amount)
	case !category.Valid():
		return models.Expense{}, invalid("%v", models.ErrUnknownCategory)
	}
	if date.IsZero() {
		date = o.now()
	}

	expense := models.Expense{
		ID:          o.newID(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
	}
	st.Expenses.Update(func(prev []models.Expense) []models.Expense { return appendCopy(prev, expense) })
	slog.Info("Expense added", "expense_id", expense.ID, "category", category.String(), "amount", amount)
	return expense, nil
}

// RemoveExpense deletes an expense.
func (o *Organizer) RemoveExpense(id string) error {
	st, err := o.State()
	if err != nil {
		return err
	}
	return removeByID(st.Expenses, id, func(e models.Expense) string { return e.ID })
}

// SetTotalBudget sets the monthly total.
func (o *Organizer) SetTotalBudget(total float64) error {
	st, err := o.State()
	if err != nil {
		return err
	}
	if !finite(total) {
		return invalid("total budget must be a finite number, got %v", total)
	}
	if total < 0 {
		return invalid("total budget must not be negative, got %v", total)
	}
	st.TotalBudget.Set(total)
	return nil
}

// SetCategoryBudget sets the cap for one category. A nil value clears the
// cap, which means no limit rather than a limit of zero.
func (o *Organizer) SetCategoryBudget(category models.ExpenseCategory, value *float64) error {
	st, err := o.State()
	if err != nil {
		return err
	}
	if !category.Valid() {
		return invalid("%v", models.ErrUnknownCategory)
	}
	if value != nil && !finite(*value) {
		return invalid("category budget must be a finite number, got %v", *value)
	}
	if value != nil && *value < 0 {
		return invalid("category budget must not be negative, got %v", *value)
	}

	st.CategoryBudgets.Update(func(prev models.CategoryBudgets) models.CategoryBudgets {
		next := prev.Clone()
		if next == nil {
			next = models.CategoryBudgets{}
		}
		if value == nil {
			delete(next, category)
		} else {
			next[category] = *value
		}
		return next
	})
	return nil
}

// BudgetOverview compares the spending of the month containing now with the
// configured budget.
func (o *Organizer) BudgetOverview(now time.Time) (budget.Overview, error) {
	st, err := o.State()
	if err != nil {
		return budget.Overview{}, err
	}
	from, to := budget.MonthOf(now)
	return budget.Calculate(st.Expenses.Get(), st.TotalBudget.Get(), st.CategoryBudgets.Get(), from, to), nil
}

// Dashboard is the at-a-glance summary shown after setup.
type Dashboard struct {
	UserName             string               `json:"userName"`
	OpenTasks            int                  `json:"openTasks"`
	CompletedTasks       int                  `json:"completedTasks"`
	UpcomingAppointments []models.Appointment `json:"upcomingAppointments"` // next seven days, in list order
	MonthSpent           float64              `json:"monthSpent"`
	Partners             []models.Partner     `json:"partners"`
}

// UpcomingWindow is how far ahead the dashboard looks for appointments.
const UpcomingWindow = 7 * 24 * time.Hour

// Dashboard summarizes the organizer as of now.
func (o *Organizer) Dashboard(now time.Time) (Dashboard, error) {
	st, err := o.State()
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		UserName:             st.Identity.Get().Name,
		UpcomingAppointments: []models.Appointment{},
		Partners:             st.Partners.Get(),
	}
	for _, t := range st.Tasks.Get() {
		if t.Completed {
			d.CompletedTasks++
		} else {
			d.OpenTasks++
		}
	}
	horizon := now.Add(UpcomingWindow)
	for _, a := range st.Appointments.Get() {
		if !a.Date.Before(now) && a.Date.Before(horizon) {
			d.UpcomingAppointments = append(d.UpcomingAppointments, a)
		}
	}
	from, to := budget.MonthOf(now)
	spent, _ := budget.Calculate(st.Expenses.Get(), 0, nil, from, to).Spent.Float64()
	d.MonthSpent = spent
	return d, nil
}
