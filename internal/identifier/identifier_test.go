package identifier

import (
	"strings"
	"testing"
)

func TestUserBase(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"a@x.com", "a"},
		{"John.Doe@example.com", "john.doe"},
		{"UPPER@test.com", "upper"},
		{"noat", "noat"},
	}
	for _, tc := range cases {
		if got := UserBase(tc.email); got != tc.want {
			t.Errorf("UserBase(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		userID string
		name   string
		want   string
	}{
		{"a", "Food", "a_food"},
		{"a", "Dining Out", "a_dining_out"},
		{"john", "Multi   Space  Name", "john_multi_space_name"},
	}
	for _, tc := range cases {
		if got := Category(tc.userID, tc.name); got != tc.want {
			t.Errorf("Category(%q, %q) = %q, want %q", tc.userID, tc.name, got, tc.want)
		}
	}
}

func TestExpense(t *testing.T) {
	id := Expense("a")
	if !strings.HasPrefix(id, "a_") {
		t.Fatalf("expected prefix a_, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "a_")
	if len(suffix) != 8 {
		t.Errorf("expected 8-char suffix, got %q", suffix)
	}

	// Suffixes are random, so two ids for the same user should differ.
	if Expense("a") == Expense("a") {
		t.Error("expected distinct expense ids for consecutive calls")
	}
}
