package models

import (
	"encoding/json"
	"testing"
)

func TestExpense_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: `{"id":"e1","amount":12.5,"category":"Groceries"}`},
		{name: "zero amount", input: `{"id":"e1","amount":0,"category":"Other"}`},
		{name: "negative amount", input: `{"id":"e1","amount":-1,"category":"Other"}`, wantErr: true},
		{name: "overflowing amount", input: `{"id":"e1","amount":1e400,"category":"Other"}`, wantErr: true},
		{name: "unknown category", input: `{"id":"e1","amount":1,"category":"Fuel"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Expense
			err := json.Unmarshal([]byte(tt.input), &e)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestCategoryBudgets_UnmarshalJSON(t *testing.T) {
	var caps CategoryBudgets
	if err := json.Unmarshal([]byte(`{"Groceries":null,"Transport":0,"Housing":900}`), &caps); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if _, ok := caps.Cap(Groceries); ok {
		t.Error("null cap should decode as no cap")
	}
	if v, ok := caps.Cap(Transport); !ok || v != 0 {
		t.Errorf("Transport cap = %v, %v; want 0, true", v, ok)
	}
	if v, ok := caps.Cap(Housing); !ok || v != 900 {
		t.Errorf("Housing cap = %v, %v; want 900, true", v, ok)
	}
	if len(caps) != 2 {
		t.Errorf("expected 2 caps, got %v", caps)
	}

	if err := json.Unmarshal([]byte(`{"Fuel":10}`), &caps); err == nil {
		t.Error("expected error for unknown category key")
	}
}
