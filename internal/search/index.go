// Package search provides full-text search over generated outputs.
package search

import (
	"context"
	"strings"

	"github.com/hyperjump/zodiac/internal/models"
)

// Index is a full-text index of outputs.
type Index interface {
	Index(ctx context.Context, o *models.Output) error
	Delete(ctx context.Context, outputID string) error
	DeleteProject(ctx context.Context, projectID string) error
	Search(ctx context.Context, projectID, query string, opts *Options) ([]*Hit, error)
	DocCount() (uint64, error)
	Close() error
}

// Options tune a search. Nil means defaults.
type Options struct {
	Limit int
	// TitleBoost multiplies matches in the title field (e.g. 2.0). Values <= 1 mean no boost.
	TitleBoost float64
	// Fuzziness enables typo-tolerant matching with the given edit distance (1 or 2).
	Fuzziness int
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func (o *Options) normalized() Options {
	out := Options{Limit: defaultLimit, TitleBoost: 2.0}
	if o == nil {
		return out
	}
	if o.Limit > 0 {
		out.Limit = min(o.Limit, maxLimit)
	}
	if o.TitleBoost > 0 {
		out.TitleBoost = o.TitleBoost
	}
	if o.Fuzziness > 0 {
		out.Fuzziness = min(o.Fuzziness, 2)
	}
	return out
}

// Hit is one matching output.
type Hit struct {
	OutputID string  `json:"outputId"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

// document is the indexed form of an output.
type document struct {
	ProjectID string `json:"project_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Snippet truncates content to maxLen runes.
func Snippet(content string, maxLen int) string {
	r := []rune(content)
	if maxLen <= 0 || len(r) <= maxLen {
		return content
	}
	return string(r[:maxLen]) + "..."
}
