package domain

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerationRequest is the tuple submitted for copy generation.
// It is a value type and is never modified after construction.
type GenerationRequest struct {
	ProductURL string   `json:"product_url"`
	Language   Language `json:"language"`
	Tone       Tone     `json:"tone"`
}

// NewGenerationRequest builds a request and validates it.
func NewGenerationRequest(productURL string, language Language, tone Tone) (GenerationRequest, error) {
	req := GenerationRequest{
		ProductURL: strings.TrimSpace(productURL),
		Language:   language,
		Tone:       tone,
	}
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate checks the request against the supported option sets.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.ProductURL) == "" {
		return ErrEmptyProductURL
	}

	u, err := url.ParseRequestURI(strings.TrimSpace(r.ProductURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidProductURL
	}

	if !r.Language.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, r.Language)
	}

	if !r.Tone.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTone, r.Tone)
	}

	return nil
}

// GenerationResult is the structured copy returned by the model.
// All six fields are required.
type GenerationResult struct {
	Headline string `json:"headline"`
	// Description may hold several paragraphs separated by newlines.
	Description     string   `json:"description"`
	BulletPoints    []string `json:"bullet_points"`
	SEOTitle        string   `json:"seo_title"`
	MetaDescription string   `json:"meta_description"`
	CTALine         string   `json:"cta_line"`
}

// Advisory lengths for search snippets. They are not enforced.
const (
	SEOTitleMaxLength        = 60
	MetaDescriptionMaxLength = 160
)

// Validate checks that every required field is present.
func (r *GenerationResult) Validate() error {
	switch {
	case r.Headline == "":
		return fmt.Errorf("%w: headline is empty", ErrIncompleteResult)
	case r.Description == "":
		return fmt.Errorf("%w: description is empty", ErrIncompleteResult)
	case len(r.BulletPoints) == 0:
		return fmt.Errorf("%w: bullet_points is empty", ErrIncompleteResult)
	case r.SEOTitle == "":
		return fmt.Errorf("%w: seo_title is empty", ErrIncompleteResult)
	case r.MetaDescription == "":
		return fmt.Errorf("%w: meta_description is empty", ErrIncompleteResult)
	case r.CTALine == "":
		return fmt.Errorf("%w: cta_line is empty", ErrIncompleteResult)
	}
	return nil
}

// Paragraphs splits the description on newlines, dropping blank lines.
func (r *GenerationResult) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(r.Description, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RecordStatus represents the lifecycle state of a generation record.
type RecordStatus string

// Possible record status values
const (
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusFailed    RecordStatus = "failed"
	RecordStatusArchived  RecordStatus = "archived"
)

// IsValid reports whether s is a known status.
func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusCompleted, RecordStatusPending, RecordStatusFailed, RecordStatusArchived:
		return true
	default:
		return false
	}
}

// GenerationRecord is a history entry wrapping a generation result with
// the request that produced it.
type GenerationRecord struct {
	ID         string           `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	ProductURL string           `json:"product_url"`
	Content    GenerationResult `json:"content"`
	Language   Language         `json:"language"`
	Tone       Tone             `json:"tone"`
	CreatedAt  time.Time        `json:"created_at"`
	Status     RecordStatus     `json:"status"`
}

// IDGenerator produces unique generation record IDs.
type IDGenerator func() string

// NewRecordID returns an "SB-" prefixed, upper-case base-36 rendering of a
// random UUID.
func NewRecordID() string {
	id := uuid.New()
	return "SB-" + strings.ToUpper(new(big.Int).SetBytes(id[:]).Text(36))
}

// NewGenerationRecord creates a completed record for a successful generation.
// If newID is nil, NewRecordID is used.
func NewGenerationRecord(
	userID uuid.UUID,
	req GenerationRequest,
	result GenerationResult,
	newID IDGenerator,
) (*GenerationRecord, error) {
	if newID == nil {
		newID = NewRecordID
	}

	record := &GenerationRecord{
		ID:         newID(),
		UserID:     userID,
		ProductURL: req.ProductURL,
		Content:    result,
		Language:   req.Language,
		Tone:       req.Tone,
		CreatedAt:  time.Now().UTC(),
		Status:     RecordStatusCompleted,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the record has valid data.
func (r *GenerationRecord) Validate() error {
	if r.ID == "" {
		return ErrEmptyRecordID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	if r.ProductURL == "" {
		return ErrEmptyProductURL
	}

	if err := r.Content.Validate(); err != nil {
		return err
	}

	if !r.Status.IsValid() {
		return ErrInvalidRecordStatus
	}

	return nil
}

// UpdateStatus moves the record to another lifecycle state.
func (r *GenerationRecord) UpdateStatus(status RecordStatus) error {
	if !status.IsValid() {
		return ErrInvalidRecordStatus
	}
	r.Status = status
	return nil
}
