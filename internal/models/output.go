package models

import (
	"fmt"
	"strings"
	"time"
)

// FormatText is the only output format the generator produces.
const FormatText = "text"

// Output is one generated document. Outputs are append-only.
type Output struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"projectId" db:"project_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Language  string    `json:"language" db:"language"`
	Format    string    `json:"format" db:"format"`
	Tier      string    `json:"tier" db:"tier"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TitleForType derives an output title from its document type.
func TitleForType(docType string) string {
	return strings.ReplaceAll(docType, "_", " ")
}

// LatestPerType keeps the first output of each type from a newest-first list.
func LatestPerType(outputs []*Output) []*Output {
	seen := make(map[string]bool, len(outputs))
	out := make([]*Output, 0, len(outputs))
	for _, o := range outputs {
		if seen[o.Type] {
			continue
		}
		seen[o.Type] = true
		out = append(out, o)
	}
	return out
}

// OptionalDetails are user-supplied overrides that win over profile fields during generation.
type OptionalDetails struct {
	TargetAudience string `json:"targetAudience,omitempty"`
	MainOffer      string `json:"mainOffer,omitempty"`
	PricePoint     string `json:"pricePoint,omitempty"`
	BrandTone      string `json:"brandTone,omitempty"`
	MainGoal       string `json:"mainGoal,omitempty"`
}

// GenerateRequest is the body of a generation request.
type GenerateRequest struct {
	OutputTypes     []string         `json:"outputTypes"`
	OptionalDetails *OptionalDetails `json:"optionalDetails,omitempty"`
	Language        string           `json:"language,omitempty"`
}

// Validate trims type identifiers and rejects an empty type list.
func (r *GenerateRequest) Validate() error {
	types := make([]string, 0, len(r.OutputTypes))
	for _, t := range r.OutputTypes {
		t = strings.TrimSpace(t)
		if t != "" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return fmt.Errorf("outputTypes is required")
	}
	r.OutputTypes = types
	r.Language = strings.TrimSpace(r.Language)
	return nil
}
