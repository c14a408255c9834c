// Package models defines the core domain models for LifeSync.
//
// # Models
//
//   - User: the local operator's identity, created once during setup
//   - Partner: a remote operator's identity, recorded after a successful link
//   - Task, Appointment, Expense: the organizer's list entities
//   - ExpenseCategory and CategoryBudgets: the budget configuration
//
// # Design Principles
//
// 1. **Plain values**: models carry no behavior beyond validation helpers
// 2. **Opaque IDs**: every ID is assigned once by its creator and never reused
// 3. **Ordered lists**: list entities live in insertion-ordered slices, never maps
// 4. **JSON shape**: field tags define the durable and token formats
package models
