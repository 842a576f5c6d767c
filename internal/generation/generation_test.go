package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/llm"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/prompts"
	"github.com/hyperjump/zodiac/internal/storage"
)

func TestMain(m *testing.M) {
	// The genai client pulls in opencensus, which starts its stats worker at init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type memStore struct {
	mu       sync.Mutex
	profiles map[string]*models.BusinessProfile
	outputs  []*models.Output
	failOn   string
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]*models.BusinessProfile{}}
}

func (s *memStore) GetProfile(_ context.Context, projectID string) (*models.BusinessProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[projectID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", projectID, storage.ErrNotFound)
	}
	return p, nil
}

func (s *memStore) CreateOutput(_ context.Context, o *models.Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Type == s.failOn {
		return errors.New("disk I/O error")
	}
	s.outputs = append([]*models.Output{o}, s.outputs...)
	return nil
}

type recordingIndex struct {
	ids []string
	err error
}

func (r *recordingIndex) Index(_ context.Context, o *models.Output) error {
	r.ids = append(r.ids, o.ID)
	return r.err
}

// echoLLM returns the prompt it receives, like the offline echo provider.
func echoLLM(seen *[]string) llm.Completer {
	return llm.CompleterFunc(func(_ context.Context, req llm.Request) (*llm.Completion, error) {
		if seen != nil {
			*seen = append(*seen, req.Prompt)
		}
		return &llm.Completion{Text: req.Prompt}, nil
	})
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("out-%d", n)
	}
}

func newGenerator(c llm.Completer, store Store, opts ...Option) *Generator {
	g := New(c, store, prompts.NewRegistry(), opts...)
	g.newID = sequentialIDs()
	return g
}

func TestBuildProfileSummary_defaults(t *testing.T) {
	got := BuildProfileSummary(&models.BusinessProfile{}, nil)

	for _, want := range []string{
		"Business Name: Unknown",
		"Industry: Various",
		"Target Audience: General",
		"Brand Tone: Professional",
		"Pricing: Custom",
		"Main Goal: Not specified",
		"Products: N/A",
		"Contact Info: N/A",
	} {
		assert.Contains(t, got, want)
	}
	for _, bad := range []string{"null", "undefined", "<nil>"} {
		assert.NotContains(t, got, bad)
	}
	assert.Equal(t, BuildProfileSummary(nil, nil), got)
	assert.True(t, strings.HasPrefix(got, "BUSINESS PROFILE:\n"))
}

func TestBuildProfileSummary_detailsWin(t *testing.T) {
	p := &models.BusinessProfile{
		TargetAudience: models.NewText("A"),
		Pricing:        models.NewText("$10"),
		BrandTone:      models.NewText("Playful"),
		Offers:         models.List{"Free audit"},
	}
	d := &models.OptionalDetails{TargetAudience: "B", PricePoint: "$99", BrandTone: " ", MainOffer: "Bundle", MainGoal: "Leads"}

	got := BuildProfileSummary(p, d)
	assert.Contains(t, got, "Target Audience: B\n")
	assert.NotContains(t, got, "Target Audience: A")
	assert.Contains(t, got, "Pricing: $99\n")
	assert.Contains(t, got, "Brand Tone: Playful\n", "blank detail does not override")
	assert.Contains(t, got, "Main Offer: Bundle\n")
	assert.Contains(t, got, "Main Goal: Leads\n")
}

func TestBuildProfileSummary_lists(t *testing.T) {
	p := &models.BusinessProfile{
		BusinessName: models.NewText("Acme Corp"),
		Products:     models.List{"Widgets", " ", "Gadgets"},
		Testimonials: models.List{"Great!", "Fast."},
	}
	got := BuildProfileSummary(p, nil)
	assert.Contains(t, got, "Business Name: Acme Corp\n")
	assert.Contains(t, got, "Products: Widgets, Gadgets\n")
	assert.Contains(t, got, "Testimonials: Great! | Fast.\n")
}

func TestGenerateOne_promptShape(t *testing.T) {
	store := newMemStore()
	var seen []string
	g := newGenerator(echoLLM(&seen), store)

	content, err := g.GenerateOne(context.Background(), "FAQ", &models.BusinessProfile{}, "p1", nil, "")
	require.NoError(t, err)
	require.Len(t, seen, 1)

	want := BuildPrompt(BuildProfileSummary(nil, nil), prompts.NewRegistry().Instruction("FAQ"), "en")
	if diff := cmp.Diff(want, seen[0]); diff != "" {
		t.Errorf("prompt mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, strings.HasSuffix(seen[0], "\n\nLanguage: en\n\nGenerate the content now:"))
	assert.Equal(t, seen[0], content)

	require.Len(t, store.outputs, 1)
	o := store.outputs[0]
	assert.Equal(t, "out-1", o.ID)
	assert.Equal(t, "FAQ", o.Type)
	assert.Equal(t, "FAQ", o.Title)
	assert.Equal(t, "en", o.Language)
	assert.Equal(t, models.FormatText, o.Format)
	assert.Equal(t, "TIER1", o.Tier)
}

func TestGenerateOne_unknownTypeFallback(t *testing.T) {
	var seen []string
	g := newGenerator(echoLLM(&seen), newMemStore())

	_, err := g.GenerateOne(context.Background(), "HAIKU_COLLECTION", nil, "p1", nil, "fr")
	require.NoError(t, err)
	assert.Contains(t, seen[0], "Generate a HAIKU_COLLECTION")
	assert.Contains(t, seen[0], "Language: fr")
}

func TestGenerate_titleAndTier(t *testing.T) {
	store := newMemStore()
	g := newGenerator(echoLLM(nil), store, WithTier(TierFromTemplate))

	out, err := g.Generate(context.Background(), "SWOT", nil, "p1", nil, "en")
	require.NoError(t, err)
	assert.Equal(t, "TIER3", out.Tier)

	out, err = g.Generate(context.Background(), "LANDING_PAGE_SHORT", nil, "p1", nil, "en")
	require.NoError(t, err)
	assert.Equal(t, "LANDING PAGE SHORT", out.Title)
	assert.Equal(t, "TIER1", out.Tier)
}

func TestGenerate_completionError(t *testing.T) {
	store := newMemStore()
	g := newGenerator(llm.CompleterFunc(func(context.Context, llm.Request) (*llm.Completion, error) {
		return nil, &llm.StatusError{Provider: "openai", StatusCode: 500, Body: "secret upstream detail"}
	}), store)

	_, err := g.Generate(context.Background(), "FAQ", nil, "p1", nil, "en")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindGeneration))
	assert.Equal(t, "generation failed for FAQ", apperr.PublicMessage(err))
	assert.Empty(t, store.outputs)
}

func TestGenerate_indexFailureIsNotFatal(t *testing.T) {
	idx := &recordingIndex{err: errors.New("index closed")}
	g := newGenerator(echoLLM(nil), newMemStore(), WithIndex(idx))

	out, err := g.Generate(context.Background(), "FAQ", nil, "p1", nil, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{out.ID}, idx.ids)
}

func TestGenerateOutputs_partialFailureIsolated(t *testing.T) {
	store := newMemStore()
	store.profiles["p1"] = &models.BusinessProfile{ProjectID: "p1", BusinessName: models.NewText("Acme")}
	calls := 0
	c := llm.CompleterFunc(func(_ context.Context, req llm.Request) (*llm.Completion, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("model overloaded")
		}
		return &llm.Completion{Text: "content " + fmt.Sprint(calls)}, nil
	})
	g := newGenerator(c, store)

	res, err := g.GenerateOutputs(context.Background(), "p1", []string{"FAQ", "TAGLINES", "SWOT"}, nil, "en")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"FAQ": "content 1", "TAGLINES": "", "SWOT": "content 3"}, res.Contents())
	assert.Equal(t, map[string]string{"TAGLINES": "generation failed for TAGLINES"}, res.Failures())
	assert.Equal(t, []OutputRef{{"FAQ", "out-1"}, {"SWOT", "out-2"}}, res.Outputs())
	assert.Equal(t, 2, res.Succeeded())
	assert.False(t, res.Results[1].OK())
	assert.Len(t, store.outputs, 2)
}

func TestGenerateOutputs_emptyContentIsNotFailure(t *testing.T) {
	store := newMemStore()
	store.profiles["p1"] = &models.BusinessProfile{}
	g := newGenerator(llm.CompleterFunc(func(context.Context, llm.Request) (*llm.Completion, error) {
		return &llm.Completion{Text: ""}, nil
	}), store)

	res, err := g.GenerateOutputs(context.Background(), "p1", []string{"FAQ"}, nil, "en")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"FAQ": ""}, res.Contents())
	assert.Empty(t, res.Failures())
}

func TestGenerateOutputs_persistenceFailure(t *testing.T) {
	store := newMemStore()
	store.profiles["p1"] = &models.BusinessProfile{}
	store.failOn = "FAQ"
	g := newGenerator(echoLLM(nil), store)

	res, err := g.GenerateOutputs(context.Background(), "p1", []string{"FAQ", "SWOT"}, nil, "en")
	require.NoError(t, err)
	assert.Equal(t, apperr.KindPersistence, res.Results[0].Err.Kind)
	assert.Equal(t, "failed to save data", res.Failures()["FAQ"])
	assert.True(t, res.Results[1].OK())
}

func TestGenerateOutputs_appendOnly(t *testing.T) {
	store := newMemStore()
	store.profiles["p1"] = &models.BusinessProfile{}
	g := newGenerator(echoLLM(nil), store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := g.GenerateOutputs(ctx, "p1", []string{"HERO_SECTION"}, nil, "en")
		require.NoError(t, err)
	}
	require.Len(t, store.outputs, 2)
	assert.Equal(t, "out-2", store.outputs[0].ID, "newest first")
	assert.Equal(t, "out-1", store.outputs[1].ID)
}

func TestGenerateOutputs_duplicateTypesGeneratedEachTime(t *testing.T) {
	store := newMemStore()
	store.profiles["p1"] = &models.BusinessProfile{}
	g := newGenerator(echoLLM(nil), store)

	res, err := g.GenerateOutputs(context.Background(), "p1", []string{"FAQ", "FAQ"}, nil, "en")
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
	assert.Len(t, store.outputs, 2)
}

func TestGenerateOutputs_errors(t *testing.T) {
	g := newGenerator(echoLLM(nil), newMemStore())
	ctx := context.Background()

	_, err := g.GenerateOutputs(ctx, "p1", nil, nil, "en")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = g.GenerateOutputs(ctx, "missing", []string{"FAQ"}, nil, "en")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGenerateOutputs_cancellationStopsRemaining(t *testing.T) {
	store := newMemStore()
	store.profiles["p1"] = &models.BusinessProfile{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := llm.CompleterFunc(func(context.Context, llm.Request) (*llm.Completion, error) {
		cancel()
		return &llm.Completion{Text: "first"}, nil
	})
	g := newGenerator(c, store)

	res, err := g.GenerateOutputs(ctx, "p1", []string{"FAQ", "SWOT", "TAGLINES"}, nil, "en")
	require.NoError(t, err)
	assert.True(t, res.Results[0].OK())
	for _, r := range res.Results[1:] {
		require.NotNil(t, r.Err)
		assert.Equal(t, apperr.KindGeneration, r.Err.Kind)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Len(t, store.outputs, 1)
}

func TestGenerateOutputs_optionalDetailsReachPrompt(t *testing.T) {
	store := newMemStore()
	store.profiles["p1"] = &models.BusinessProfile{TargetAudience: models.NewText("A")}
	var seen []string
	g := newGenerator(echoLLM(&seen), store, WithDefaultLanguage("de"))

	_, err := g.GenerateOutputs(context.Background(), "p1", []string{"FAQ"}, &models.OptionalDetails{TargetAudience: "B"}, "")
	require.NoError(t, err)
	assert.Contains(t, seen[0], "Target Audience: B")
	assert.NotContains(t, seen[0], "Target Audience: A")
	assert.Contains(t, seen[0], "Language: de")
}
