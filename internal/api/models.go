package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
)

// SessionRequest is the payload of the signup and login endpoints. The
// body is optional; a missing email selects the default.
type SessionRequest struct {
	Email string `json:"email" validate:"omitempty,max=254,email"`
}

// UserResponse is the public view of a session user.
type UserResponse struct {
	ID               uuid.UUID       `json:"id"`
	Email            string          `json:"email"`
	Plan             domain.PlanName `json:"plan"`
	CreditsRemaining int             `json:"credits_remaining"`
	TotalCredits     int             `json:"total_credits"`
	Role             domain.Role     `json:"role"`
	Avatar           string          `json:"avatar,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CurrentSessionResponse is returned by GET /api/session.
type CurrentSessionResponse struct {
	User    UserResponse   `json:"user"`
	Balance domain.Balance `json:"balance"`
}

// GenerateRequest is the payload of POST /api/generations. Language and
// tone fall back to their defaults when omitted.
type GenerateRequest struct {
	ProductURL string `json:"product_url" validate:"required,max=2048"`
	Language   string `json:"language"    validate:"omitempty,max=64"`
	Tone       string `json:"tone"        validate:"omitempty,max=64"`
}

// RecordResponse is a stored generation.
type RecordResponse struct {
	ID         string              `json:"id"`
	ProductURL string              `json:"product_url"`
	Content    ContentResponse     `json:"content"`
	Language   domain.Language     `json:"language"`
	Tone       domain.Tone         `json:"tone"`
	CreatedAt  time.Time           `json:"created_at"`
	Status     domain.RecordStatus `json:"status"`
}

// ContentResponse is the generated copy of a record.
type ContentResponse struct {
	Headline        string   `json:"headline"`
	Description     string   `json:"description"`
	Paragraphs      []string `json:"paragraphs"`
	BulletPoints    []string `json:"bullet_points"`
	SEOTitle        string   `json:"seo_title"`
	MetaDescription string   `json:"meta_description"`
	CTALine         string   `json:"cta_line"`
}

// GenerateResponse is returned by POST /api/generations.
type GenerateResponse struct {
	Record  RecordResponse `json:"record"`
	Balance domain.Balance `json:"balance"`
}

// HistoryResponse is returned by GET /api/generations.
type HistoryResponse struct {
	Generations []RecordResponse `json:"generations"`
}

// OptionsResponse lists the supported languages and tones.
type OptionsResponse struct {
	Languages       []domain.Language `json:"languages"`
	Tones           []domain.Tone     `json:"tones"`
	DefaultLanguage domain.Language   `json:"default_language"`
	DefaultTone     domain.Tone       `json:"default_tone"`
}

// PlansResponse lists the plan catalogue.
type PlansResponse struct {
	Plans []domain.Plan `json:"plans"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Plan:             u.Plan,
		CreditsRemaining: u.CreditsRemaining,
		TotalCredits:     u.TotalCredits,
		Role:             u.Role,
		Avatar:           u.Avatar,
		CreatedAt:        u.CreatedAt,
	}
}

func recordToResponse(r *domain.GenerationRecord) RecordResponse {
	paragraphs := r.Content.Paragraphs()
	if paragraphs == nil {
		paragraphs = []string{}
	}
	return RecordResponse{
		ID:         r.ID,
		ProductURL: r.ProductURL,
		Content: ContentResponse{
			Headline:        r.Content.Headline,
			Description:     r.Content.Description,
			Paragraphs:      paragraphs,
			BulletPoints:    r.Content.BulletPoints,
			SEOTitle:        r.Content.SEOTitle,
			MetaDescription: r.Content.MetaDescription,
			CTALine:         r.Content.CTALine,
		},
		Language:  r.Language,
		Tone:      r.Tone,
		CreatedAt: r.CreatedAt,
		Status:    r.Status,
	}
}
