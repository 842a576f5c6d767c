// Package cli writes command results for the zodiac CLI as text or JSON.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/pipeline"
	"github.com/hyperjump/zodiac/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" or "json".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text or json)", s)
	}
}

const rule = "─────────────────────────────────────────────────────────"

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteScan writes the result of a scan.
func WriteScan(w io.Writer, p *models.Project, res *pipeline.ScanResult, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, struct {
			Project *models.Project `json:"project"`
			*pipeline.ScanResult
		}{p, res})
	}
	fmt.Fprintf(w, "Project %s (%s)\n", p.ID, p.WebsiteURL)
	if res.Source != nil {
		fmt.Fprintf(w, "Fetched %s", res.Source.FinalURL)
		if res.Source.Title != "" {
			fmt.Fprintf(w, " %q", res.Source.Title)
		}
		fmt.Fprintf(w, ", %d characters of content\n", res.Source.ContentChars)
	}
	fmt.Fprintln(w)
	writeProfileText(w, res.Profile)
	return nil
}

// WriteProfile writes a business profile.
func WriteProfile(w io.Writer, p *models.BusinessProfile, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, p)
	}
	writeProfileText(w, p)
	return nil
}

func writeProfileText(w io.Writer, p *models.BusinessProfile) {
	if p == nil || p.SetCount() == 0 {
		fmt.Fprintln(w, "No profile fields extracted.")
		return
	}
	fmt.Fprintf(w, "Business profile (%d of %d fields)\n", p.SetCount(), len(models.ProfileFields))
	fmt.Fprintln(w, rule)
	texts, lists := p.TextFields(), p.ListFields()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range models.ProfileFields {
		var v string
		switch f.Kind {
		case models.KindText:
			v = texts[f.Key].Or("")
		case models.KindList:
			v = lists[f.Key].Join("; ", "")
		}
		if v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", f.Key, v)
		}
	}
	_ = tw.Flush()
}

// WriteGenerateResult writes per-type outcomes of a generation batch.
func WriteGenerateResult(w io.Writer, res *pipeline.GenerateResult, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, res)
	}
	fmt.Fprintf(w, "Generated %d of %d documents\n\n", res.Batch.Succeeded(), len(res.Batch.Results))
	for _, r := range res.Batch.Results {
		fmt.Fprintln(w, rule)
		if !r.OK() {
			fmt.Fprintf(w, "[FAILED] %s: %s\n\n", r.Type, r.Err.Public)
			continue
		}
		fmt.Fprintf(w, "[OK] %s (output %s)\n\n%s\n\n", r.Type, r.OutputID, strings.TrimSpace(r.Content))
	}
	return nil
}

// WriteOutputs lists outputs newest first.
func WriteOutputs(w io.Writer, outputs []*models.Output, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, outputs)
	}
	if len(outputs) == 0 {
		fmt.Fprintln(w, "No outputs.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tLANG\tCREATED\tPREVIEW")
	for _, o := range outputs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.Type, o.Language, o.CreatedAt.Format("2006-01-02 15:04"), utils.TruncateWords(o.Content, 8))
	}
	return tw.Flush()
}

// WriteSearchResults writes output search hits.
func WriteSearchResults(w io.Writer, query string, results []*pipeline.SearchResult, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, map[string]any{"query": query, "results": results})
	}
	fmt.Fprintf(w, "\nFound %d results for %q\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Score: %.4f | %s\n", i+1, r.Score, r.Type)
		fmt.Fprintf(w, "ID: %s\n", r.ID)
		preview := r.Snippet
		if preview == "" {
			preview = utils.Truncate(r.Content, 200)
		}
		fmt.Fprintf(w, "\n%s\n\n", preview)
	}
	return nil
}

// WriteTypes lists document types grouped by tier.
func WriteTypes(w io.Writer, types []pipeline.TypeInfo, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, types)
	}
	tier := ""
	for _, t := range types {
		if t.Tier != tier {
			if tier != "" {
				fmt.Fprintln(w)
			}
			tier = t.Tier
			fmt.Fprintln(w, tier)
		}
		mark := ""
		if t.Overridden {
			mark = " (override)"
		}
		fmt.Fprintf(w, "  %s%s\n", t.Type, mark)
	}
	return nil
}
