package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("demo@storeboost.ai", PlanGrowth, 84, 100)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Role != RoleUser {
		t.Errorf("Expected role %s, got %s", RoleUser, user.Role)
	}
	if got := user.Balance(); got.CreditsRemaining != 84 || got.TotalCredits != 100 {
		t.Errorf("Unexpected balance %+v", got)
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	valid := User{
		ID:               uuid.New(),
		Email:            "new-user@storeboost.ai",
		Plan:             PlanFree,
		CreditsRemaining: 10,
		TotalCredits:     10,
		Role:             RoleUser,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr error
	}{
		{"nil id", func(u *User) { u.ID = uuid.Nil }, ErrEmptyUserID},
		{"empty email", func(u *User) { u.Email = "" }, ErrEmptyEmail},
		{"bad email", func(u *User) { u.Email = "not-an-email" }, ErrInvalidEmail},
		{"display name email", func(u *User) { u.Email = "Demo <demo@storeboost.ai>" }, ErrInvalidEmail},
		{"bad plan", func(u *User) { u.Plan = "Platinum" }, ErrInvalidPlan},
		{"bad role", func(u *User) { u.Role = "owner" }, ErrInvalidRole},
		{"negative credits", func(u *User) { u.CreditsRemaining = -1 }, ErrInvalidCredits},
		{"remaining above total", func(u *User) { u.CreditsRemaining = 11 }, ErrInvalidCredits},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			u := valid
			tc.mutate(&u)
			if err := u.Validate(); err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBalanceDebitFloor(t *testing.T) {
	t.Parallel()

	const total = 3
	b := Balance{CreditsRemaining: total, TotalCredits: total}
	spent := 0
	for i := 0; i < 10; i++ {
		b = b.Debit(1)
		spent++
		want := total - spent
		if want < 0 {
			want = 0
		}
		if b.CreditsRemaining != want {
			t.Fatalf("After %d debits expected %d, got %d", spent, want, b.CreditsRemaining)
		}
		if b.TotalCredits != total {
			t.Fatalf("Total credits changed to %d", b.TotalCredits)
		}
	}

	if !b.Exhausted() {
		t.Error("Expected balance to be exhausted")
	}

	if got := (Balance{CreditsRemaining: 5, TotalCredits: 5}).Debit(-2); got.CreditsRemaining != 5 {
		t.Errorf("Negative debit changed balance to %d", got.CreditsRemaining)
	}
}

func TestPlans(t *testing.T) {
	t.Parallel()

	catalogue := Plans()
	if len(catalogue) != 4 {
		t.Fatalf("Expected 4 plans, got %d", len(catalogue))
	}
	if catalogue[3].Name != PlanPro || !catalogue[3].Unlimited {
		t.Errorf("Expected unlimited Pro plan last, got %+v", catalogue[3])
	}

	catalogue[0].Features[0] = "mutated"
	if Plans()[0].Features[0] == "mutated" {
		t.Error("Plans() exposed internal feature slice")
	}
}
