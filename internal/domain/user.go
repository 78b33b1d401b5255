package domain

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a session user.
type Role string

// Possible role values
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents the session user whose credits pay for generations.
// Users are fabricated locally at signup or login; there are no credentials.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Plan             PlanName  `json:"plan"`
	CreditsRemaining int       `json:"credits_remaining"`
	TotalCredits     int       `json:"total_credits"`
	Role             Role      `json:"role"`
	Avatar           string    `json:"avatar,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Balance is a snapshot of a user's credit counters.
type Balance struct {
	CreditsRemaining int `json:"credits_remaining"`
	TotalCredits     int `json:"total_credits"`
}

// NewUser creates a user on the given plan with the given credit counters.
func NewUser(email string, plan PlanName, creditsRemaining, totalCredits int) (*User, error) {
	user := &User{
		ID:               uuid.New(),
		Email:            email,
		Plan:             plan,
		CreditsRemaining: creditsRemaining,
		TotalCredits:     totalCredits,
		Role:             RoleUser,
		CreatedAt:        time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}

	if !u.Plan.IsValid() {
		return ErrInvalidPlan
	}

	if u.Role != RoleUser && u.Role != RoleAdmin {
		return ErrInvalidRole
	}

	if u.CreditsRemaining < 0 || u.CreditsRemaining > u.TotalCredits {
		return ErrInvalidCredits
	}

	return nil
}

// Balance returns the user's current credit snapshot.
func (u *User) Balance() Balance {
	return Balance{
		CreditsRemaining: u.CreditsRemaining,
		TotalCredits:     u.TotalCredits,
	}
}

// Debit returns the balance after spending n credits, floored at zero.
// Negative amounts are treated as zero.
func (b Balance) Debit(n int) Balance {
	if n < 0 {
		n = 0
	}
	remaining := b.CreditsRemaining - n
	if remaining < 0 {
		remaining = 0
	}
	return Balance{CreditsRemaining: remaining, TotalCredits: b.TotalCredits}
}

// Exhausted reports whether no credits remain.
func (b Balance) Exhausted() bool {
	return b.CreditsRemaining <= 0
}
