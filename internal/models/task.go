package models

import "time"

// Task is a single to-do item.
type Task struct {
	// ID is the unique identifier for the task (UUID format).
	ID string `json:"id"`

	// Text is what needs to be done.
	Text string `json:"text"`

	// Completed is true once the task has been ticked off.
	Completed bool `json:"completed"`

	// CreatedAt is when the task was added.
	CreatedAt time.Time `json:"createdAt"`
}

// Appointment is a dated entry in the calendar.
type Appointment struct {
	// ID is the unique identifier for the appointment (UUID format).
	ID string `json:"id"`

	// Title describes the appointment.
	Title string `json:"title"`

	// Date is when the appointment takes place.
	Date time.Time `json:"date"`

	// IsShared marks the appointment as visible to linked partners.
	// Nothing propagates it across instances yet; it is stored as-is.
	IsShared bool `json:"isShared"`
}
