package generation

import "github.com/hyperjump/zodiac/internal/apperr"

// TypeResult is the outcome for one requested type. Err is nil on success.
type TypeResult struct {
	Type     string
	Content  string
	OutputID string
	Err      *apperr.Error
}

// OK reports whether the type was generated and stored.
func (r TypeResult) OK() bool { return r.Err == nil }

// OutputRef points at a stored output.
type OutputRef struct {
	Type     string `json:"type"`
	OutputID string `json:"outputId"`
}

// BatchResult holds one TypeResult per requested type, in request order.
type BatchResult struct {
	ProjectID string
	Results   []TypeResult
}

// Contents maps each type to its content, "" for failed types. When a type
// was requested more than once the last result wins.
func (b *BatchResult) Contents() map[string]string {
	out := make(map[string]string, len(b.Results))
	for _, r := range b.Results {
		out[r.Type] = r.Content
	}
	return out
}

// Failures maps each failed type to its public error message. As with
// Contents, the last result of a repeated type wins.
func (b *BatchResult) Failures() map[string]string {
	out := make(map[string]string)
	for _, r := range b.Results {
		if r.Err != nil {
			out[r.Type] = apperr.PublicMessage(r.Err)
		} else {
			delete(out, r.Type)
		}
	}
	return out
}

// Outputs lists the stored outputs in request order.
func (b *BatchResult) Outputs() []OutputRef {
	out := make([]OutputRef, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Err == nil {
			out = append(out, OutputRef{Type: r.Type, OutputID: r.OutputID})
		}
	}
	return out
}

// Succeeded returns the number of stored outputs.
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
