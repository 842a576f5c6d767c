package search

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/zodiac/internal/models"
)

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

func newMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming.
	textFieldMapping.Analyzer = standard.Name
	textFieldMapping.Store = true
	textFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("project_id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("type", keywordFieldMapping)
	im.AddDocumentMapping("output", docMapping)
	im.DefaultType = "output"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex creates or opens a Bleve index at path.
// If you change the index mapping in code, remove the index directory to rebuild it.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}
	index, err := bleve.New(path, newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemIndex creates an in-memory index.
func NewMemIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index adds or replaces the output document.
func (b *BleveIndex) Index(ctx context.Context, o *models.Output) error {
	return b.index.Index(o.ID, document{
		ProjectID: o.ProjectID,
		Type:      o.Type,
		Title:     o.Title,
		Content:   o.Content,
	})
}

// Delete removes an output.
func (b *BleveIndex) Delete(ctx context.Context, outputID string) error {
	return b.index.Delete(outputID)
}

// DeleteProject removes every output of a project.
func (b *BleveIndex) DeleteProject(ctx context.Context, projectID string) error {
	for {
		req := bleve.NewSearchRequest(projectQuery(projectID))
		req.Size = 500
		res, err := b.index.Search(req)
		if err != nil {
			return fmt.Errorf("Bleve search failed: %w", err)
		}
		if len(res.Hits) == 0 {
			return nil
		}
		batch := b.index.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := b.index.Batch(batch); err != nil {
			return fmt.Errorf("Bleve batch delete failed: %w", err)
		}
	}
}

func projectQuery(projectID string) blevequery.Query {
	q := bleve.NewTermQuery(projectID)
	q.SetField("project_id")
	return q
}

// textQuery matches query against title and content, optionally fuzzy.
func textQuery(query, field string, fuzziness int, boost float64) blevequery.Query {
	var q blevequery.Query
	terms := tokenizeQuery(query)
	if fuzziness > 0 && len(terms) > 0 {
		parts := make([]blevequery.Query, 0, len(terms))
		for _, term := range terms {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetFuzziness(fuzziness)
			fq.SetField(field)
			parts = append(parts, fq)
		}
		dq := bleve.NewDisjunctionQuery(parts...)
		dq.SetBoost(boost)
		q = dq
	} else {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(field)
		mq.SetBoost(boost)
		q = mq
	}
	return q
}

// Search returns outputs of projectID matching query, best first.
func (b *BleveIndex) Search(ctx context.Context, projectID, query string, opts *Options) ([]*Hit, error) {
	o := opts.normalized()
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	text := bleve.NewDisjunctionQuery(
		textQuery(query, "title", o.Fuzziness, max(o.TitleBoost, 1)),
		textQuery(query, "content", o.Fuzziness, 1),
	)
	var q blevequery.Query = text
	if projectID != "" {
		q = bleve.NewConjunctionQuery(projectQuery(projectID), text)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = o.Limit
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("content")
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	out := make([]*Hit, len(res.Hits))
	for i, hit := range res.Hits {
		h := &Hit{OutputID: hit.ID, Score: hit.Score}
		if frags := hit.Fragments["content"]; len(frags) > 0 {
			h.Snippet = Snippet(frags[0], 300)
		}
		out[i] = h
	}
	return out, nil
}

// DocCount returns the number of indexed outputs.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
