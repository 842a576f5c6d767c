package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/extraction"
	"github.com/hyperjump/zodiac/internal/generation"
	"github.com/hyperjump/zodiac/internal/llm"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/prompts"
	"github.com/hyperjump/zodiac/internal/scrape"
	"github.com/hyperjump/zodiac/internal/search"
	"github.com/hyperjump/zodiac/internal/storage"
)

const acmeHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>Acme Corp | Consulting</title>
<meta name="description" content="Strategy consulting for growing teams."></head>
<body>
<nav><a href="/">Home</a></nav>
<main><h1>Acme Corp</h1><p>We help growing teams plan and execute.</p></main>
<footer>hello@acme.example</footer>
</body></html>`

const acmeProfileJSON = `{"businessName":"Acme Corp","industry":"Consulting"}`

type fixtureScraper struct {
	html  string
	err   error
	calls int
}

func (f *fixtureScraper) Scrape(ctx context.Context, url string) (*scrape.Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	meta, err := scrape.ParseMetadata(f.html, url)
	if err != nil {
		return nil, err
	}
	text, err := scrape.MainContent(f.html)
	if err != nil {
		return nil, err
	}
	return &scrape.Page{
		URL: url, FinalURL: url, StatusCode: 200, ContentType: "text/html",
		HTML: f.html, Text: text, Metadata: *meta,
	}, nil
}

// stubLLM answers extraction requests with profileJSON and echoes generation
// prompts. Prompts containing failOn fail.
func stubLLM(profileJSON, failOn string) llm.Completer {
	return llm.CompleterFunc(func(ctx context.Context, req llm.Request) (*llm.Completion, error) {
		if req.JSON {
			return &llm.Completion{Text: "Here is the data:\n" + profileJSON + "\nThanks!"}, nil
		}
		if failOn != "" && strings.Contains(req.Prompt, failOn) {
			return nil, errors.New("model unavailable")
		}
		return &llm.Completion{Text: req.Prompt}, nil
	})
}

type testEnv struct {
	svc     *Service
	store   *storage.SQLiteStorage
	scraper *fixtureScraper
	index   *search.BleveIndex
}

func newTestEnv(t *testing.T, c llm.Completer, withIndex bool) *testEnv {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "zodiac.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	env := &testEnv{store: store, scraper: &fixtureScraper{html: acmeHTML}}
	reg := prompts.NewRegistry()
	var genOpts []generation.Option
	var opts []Option
	if withIndex {
		idx, err := search.NewMemIndex()
		require.NoError(t, err)
		t.Cleanup(func() { idx.Close() })
		env.index = idx
		genOpts = append(genOpts, generation.WithIndex(idx))
		opts = append(opts, WithIndex(idx))
	}
	opts = append(opts, WithInfo(Info{Provider: "stub", ScrapeMode: "http", DefaultTier: "TIER1"}))

	env.svc = New(store, env.scraper,
		extraction.New(c, store),
		generation.New(c, store, reg, genOpts...),
		reg, opts...)
	return env
}

func createProject(t *testing.T, svc *Service, url string) *models.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), &models.ProjectInput{WebsiteURL: url})
	require.NoError(t, err)
	return p
}

func TestEndToEnd_ScanGenerateExport(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), true)
	p := createProject(t, env.svc, "https://example.com")
	assert.Equal(t, "example.com", p.Name)

	scan, err := env.svc.Scan(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, scan.Status)
	assert.Equal(t, "Acme Corp | Consulting", scan.Source.Title)

	profile, err := env.svc.Profile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", profile.BusinessName.Or(""))
	assert.Equal(t, "Consulting", profile.Industry.Or(""))
	assert.Equal(t, 2, profile.SetCount())

	gen, err := env.svc.Generate(ctx, p.ID, &models.GenerateRequest{OutputTypes: []string{"HERO_SECTION"}})
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, gen.Status)
	assert.Empty(t, gen.Failures)
	require.Len(t, gen.Outputs, 1)

	outputs, err := env.svc.Outputs(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "HERO_SECTION", outputs[0].Type)
	assert.Contains(t, outputs[0].Content, "Acme Corp")
	assert.Equal(t, gen.Outputs[0].OutputID, outputs[0].ID)

	artifact, err := env.svc.Export(ctx, p.ID, "md", false)
	require.NoError(t, err)
	assert.Equal(t, "example-com-marketing.md", artifact.Filename)
	assert.Contains(t, string(artifact.Data), "Acme Corp")
}

func TestCreateProject_Validation(t *testing.T) {
	env := newTestEnv(t, stubLLM("{}", ""), false)
	_, err := env.svc.CreateProject(context.Background(), &models.ProjectInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "websiteUrl is required", apperr.PublicMessage(err))

	_, err = env.svc.CreateProject(context.Background(), &models.ProjectInput{WebsiteURL: "ftp://example.com"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetProject_EmptyProfileUntilScanned(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)
	p := createProject(t, env.svc, "acme.example")

	detail, err := env.svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.example", detail.WebsiteURL)
	require.NotNil(t, detail.Profile)
	assert.True(t, detail.Profile.IsEmpty())

	profile, err := env.svc.Profile(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.IsEmpty())
	assert.Nil(t, profile.ExtractedAt)
	assert.Equal(t, p.ID, profile.ProjectID)

	_, err = env.svc.GetProject(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "project not found", apperr.PublicMessage(err))
}

func TestScan_ScrapeFailureIsUpstream(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)
	env.scraper.err = &scrape.StatusError{URL: "https://example.com", StatusCode: 503}
	p := createProject(t, env.svc, "https://example.com")

	_, err := env.svc.Scan(ctx, p.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.NotContains(t, apperr.PublicMessage(err), "503")

	detail, err := env.svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, detail.Profile.IsEmpty())
}

func TestScan_UnknownProject(t *testing.T) {
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)
	_, err := env.svc.Scan(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Zero(t, env.scraper.calls)
}

func TestScan_UnreadableModelReply(t *testing.T) {
	ctx := context.Background()
	c := llm.CompleterFunc(func(ctx context.Context, req llm.Request) (*llm.Completion, error) {
		return &llm.Completion{Text: "Sorry, I cannot help with that."}, nil
	})
	env := newTestEnv(t, c, false)
	p := createProject(t, env.svc, "https://example.com")

	_, err := env.svc.Scan(ctx, p.ID)
	assert.Equal(t, apperr.KindExtractionParse, apperr.KindOf(err))

	profile, err := env.svc.Profile(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsEmpty(), "nothing is written when the reply cannot be parsed")
}

func TestScan_RepeatedScanKeepsOneProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)
	p := createProject(t, env.svc, "https://example.com")

	for i := 0; i < 2; i++ {
		_, err := env.svc.Scan(ctx, p.ID)
		require.NoError(t, err)
	}
	st, err := env.svc.Status(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.Profiles)
	assert.Equal(t, 2, env.scraper.calls)
}

func TestGenerate_PartialFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, "BROKEN_TYPE"), false)
	p := createProject(t, env.svc, "https://example.com")
	_, err := env.svc.Scan(ctx, p.ID)
	require.NoError(t, err)

	res, err := env.svc.Generate(ctx, p.ID, &models.GenerateRequest{
		OutputTypes: []string{"HERO_SECTION", "BROKEN_TYPE", "FAQ"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Results["HERO_SECTION"])
	assert.NotEmpty(t, res.Results["FAQ"])
	assert.Equal(t, "", res.Results["BROKEN_TYPE"])
	assert.Equal(t, map[string]string{"BROKEN_TYPE": "generation failed for BROKEN_TYPE"}, res.Failures)
	assert.Len(t, res.Outputs, 2)

	outputs, err := env.svc.Outputs(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, outputs, 2)
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)

	_, err := env.svc.Generate(ctx, "missing", &models.GenerateRequest{OutputTypes: []string{"FAQ"}})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	p := createProject(t, env.svc, "https://example.com")
	_, err = env.svc.Generate(ctx, p.ID, &models.GenerateRequest{OutputTypes: []string{" "}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGenerate_OptionalDetailsWin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(`{"businessName":"Acme Corp","targetAudience":"A"}`, ""), false)
	p := createProject(t, env.svc, "https://example.com")
	_, err := env.svc.Scan(ctx, p.ID)
	require.NoError(t, err)

	res, err := env.svc.Generate(ctx, p.ID, &models.GenerateRequest{
		OutputTypes:     []string{"TAGLINES"},
		OptionalDetails: &models.OptionalDetails{TargetAudience: "B"},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Results["TAGLINES"], "Target Audience: B")
	assert.NotContains(t, res.Results["TAGLINES"], "Target Audience: A")
}

func TestDeleteOutput_RemovesSearchEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), true)
	p := createProject(t, env.svc, "https://example.com")
	_, err := env.svc.Scan(ctx, p.ID)
	require.NoError(t, err)
	res, err := env.svc.Generate(ctx, p.ID, &models.GenerateRequest{OutputTypes: []string{"HERO_SECTION"}})
	require.NoError(t, err)
	id := res.Outputs[0].OutputID

	hits, err := env.svc.Search(ctx, p.ID, "acme", nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].ID)
	assert.Greater(t, hits[0].Score, 0.0)

	require.NoError(t, env.svc.DeleteOutput(ctx, id))
	hits, err = env.svc.Search(ctx, p.ID, "acme", nil)
	require.NoError(t, err)
	assert.Empty(t, hits)

	err = env.svc.DeleteOutput(ctx, id)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteProject_Cascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), true)
	p := createProject(t, env.svc, "https://example.com")
	_, err := env.svc.Scan(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.svc.Generate(ctx, p.ID, &models.GenerateRequest{OutputTypes: []string{"FAQ", "SWOT"}})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteProject(ctx, p.ID))

	st, err := env.svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Projects)
	assert.Zero(t, st.Profiles)
	assert.Zero(t, st.Outputs)
	n, err := env.index.DocCount()
	require.NoError(t, err)
	assert.Zero(t, n)

	err = env.svc.DeleteProject(ctx, p.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSearch_Disabled(t *testing.T) {
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)
	_, err := env.svc.Search(context.Background(), "p", "acme", nil)
	assert.Equal(t, apperr.KindDisabled, apperr.KindOf(err))
	_, err = env.svc.Reindex(context.Background())
	assert.Equal(t, apperr.KindDisabled, apperr.KindOf(err))
}

func TestSearch_EmptyQuery(t *testing.T) {
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), true)
	_, err := env.svc.Search(context.Background(), "p", "", nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestReindex(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), true)
	p := createProject(t, env.svc, "https://example.com")
	_, err := env.svc.Scan(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.svc.Generate(ctx, p.ID, &models.GenerateRequest{OutputTypes: []string{"FAQ", "SWOT"}})
	require.NoError(t, err)
	require.NoError(t, env.index.DeleteProject(ctx, p.ID))

	n, err := env.svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	count, err := env.index.DocCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestExport_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)

	_, err := env.svc.Export(ctx, "missing", "pptx", false)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.svc.Export(ctx, "missing", "pdf", false)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestExport_LatestPerTypeUnlessAll(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)
	p := createProject(t, env.svc, "https://example.com")
	_, err := env.svc.Scan(ctx, p.ID)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = env.svc.Generate(ctx, p.ID, &models.GenerateRequest{OutputTypes: []string{"FAQ"}})
		require.NoError(t, err)
	}

	latest, err := env.svc.Export(ctx, p.ID, "md", false)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(latest.Data), "## FAQ"))

	all, err := env.svc.Export(ctx, p.ID, "md", true)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(all.Data), "## FAQ"))
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), false)
	p := createProject(t, env.svc, "https://example.com")

	name := "Acme"
	got, err := env.svc.UpdateProject(ctx, p.ID, &models.ProjectUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "https://example.com", got.WebsiteURL)

	_, err = env.svc.UpdateProject(ctx, p.ID, &models.ProjectUpdate{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.svc.UpdateProject(ctx, "missing", &models.ProjectUpdate{Name: &name})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestTypesAndStatus(t *testing.T) {
	env := newTestEnv(t, stubLLM(acmeProfileJSON, ""), true)
	types := env.svc.Types()
	require.Len(t, types, 41)
	assert.Equal(t, "TIER1", types[0].Tier)
	assert.Equal(t, "TIER4", types[len(types)-1].Tier)

	st, err := env.svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 41, st.Templates)
	assert.True(t, st.SearchEnabled)
	assert.Equal(t, "stub", st.Provider)
	assert.Contains(t, st.ExportFormats, "pdf")
}
