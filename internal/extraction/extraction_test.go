package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/llm"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/storage"
)

func TestFindJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"prose around", "Here is the data:\n{\"businessName\":\"Acme\"}\nThanks!", `{"businessName":"Acme"}`, true},
		{"nested", `x {"a":{"b":[1,{"c":2}]}} y {"z":1}`, `{"a":{"b":[1,{"c":2}]}}`, true},
		{"brace in string", `{"a":"}{","b":"x"}`, `{"a":"}{","b":"x"}`, true},
		{"escaped quote", `{"a":"say \"}\" now"} tail`, `{"a":"say \"}\" now"}`, true},
		{"escaped backslash", `{"a":"c:\\"} tail}`, `{"a":"c:\\"}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"none", "I could not find anything.", "", false},
		{"unbalanced", `{"a":{"b":1}`, "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindJSONObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProfile_lenientValues(t *testing.T) {
	p, err := ParseProfile(`Sure! {"businessName":"Acme","products":"Widgets","contactInfo":{"phone":"555","email":"a@b.c"},"industry":null}`)
	require.NoError(t, err)

	assert.Equal(t, models.NewText("Acme"), p.BusinessName)
	assert.Equal(t, models.List{"Widgets"}, p.Products)
	assert.Equal(t, "email: a@b.c, phone: 555", p.ContactInfo.Value)
	assert.False(t, p.Industry.Valid)
	assert.True(t, strings.HasPrefix(p.RawJSON, `{"businessName"`))
}

func TestParseProfile_invalidJSON(t *testing.T) {
	_, err := ParseProfile(`{"businessName": Acme}`)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoJSONObject))
}

func newStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.CreateProject(context.Background(), &models.Project{ID: "p1", Name: "Acme", WebsiteURL: "https://example.com"}))
	return store
}

func fixedReply(text string, calls *int, seen *llm.Request) llm.Completer {
	return llm.CompleterFunc(func(_ context.Context, req llm.Request) (*llm.Completion, error) {
		*calls++
		if seen != nil {
			*seen = req
		}
		return &llm.Completion{Text: text, Model: "stub"}, nil
	})
}

func TestExtract_persistsExactFields(t *testing.T) {
	store := newStore(t)
	var calls int
	var req llm.Request
	ex := New(fixedReply(`{"businessName":"Acme Corp","industry":"Consulting"}`, &calls, &req), store)

	p, err := ex.Extract(context.Background(), "https://example.com", "<title>Acme Corp</title>", "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, p.SetCount())
	assert.Contains(t, req.Prompt, "Website URL: https://example.com")
	assert.Contains(t, req.Prompt, "<title>Acme Corp</title>")
	assert.True(t, req.JSON)

	stored, err := store.GetProfile(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", stored.BusinessName.Value)
	assert.Equal(t, "Consulting", stored.Industry.Value)
	assert.Equal(t, 2, stored.SetCount())
	assert.NotNil(t, stored.ExtractedAt)
	assert.JSONEq(t, `{"businessName":"Acme Corp","industry":"Consulting"}`, stored.RawJSON)
}

func TestExtract_twiceKeepsOneProfile(t *testing.T) {
	store := newStore(t)
	var calls int
	ex := New(fixedReply(`{"businessName":"Acme","services":["Audit"]}`, &calls, nil), store)
	ctx := context.Background()

	_, err := ex.Extract(ctx, "https://example.com", "same", "p1")
	require.NoError(t, err)
	_, err = ex.Extract(ctx, "https://example.com", "same", "p1")
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Profiles)
}

func TestExtract_replacesOmittedFields(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	var calls int

	_, err := New(fixedReply(`{"businessName":"Acme","pricing":"$99"}`, &calls, nil), store).Extract(ctx, "u", "c", "p1")
	require.NoError(t, err)
	_, err = New(fixedReply(`{"businessName":"Acme"}`, &calls, nil), store).Extract(ctx, "u", "c", "p1")
	require.NoError(t, err)

	stored, err := store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, stored.Pricing.Valid, "field omitted by the later run reverts to null")
}

func TestExtract_noJSON(t *testing.T) {
	store := newStore(t)
	var calls int
	ex := New(fixedReply("Sorry, I cannot help with that.", &calls, nil), store)

	_, err := ex.Extract(context.Background(), "https://example.com", "raw", "p1")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindExtractionParse))
	assert.ErrorIs(t, err, ErrNoJSONObject)

	stored, err := store.GetProfile(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty(), "nothing persisted on parse failure")
}

func TestExtract_completionError(t *testing.T) {
	store := newStore(t)
	boom := errors.New("connection reset")
	ex := New(llm.CompleterFunc(func(context.Context, llm.Request) (*llm.Completion, error) {
		return nil, boom
	}), store)

	_, err := ex.Extract(context.Background(), "https://example.com", "raw", "p1")
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, apperr.PublicMessage(err), "connection reset")
}

type failingWriter struct{}

func (failingWriter) UpsertProfile(context.Context, *models.BusinessProfile) error {
	return errors.New("disk full")
}

func TestExtract_persistenceError(t *testing.T) {
	var calls int
	_, err := New(fixedReply(`{"businessName":"Acme"}`, &calls, nil), failingWriter{}).Extract(context.Background(), "u", "c", "p1")
	assert.True(t, apperr.Is(err, apperr.KindPersistence))
	assert.Equal(t, "failed to save data", apperr.PublicMessage(err))
}

func TestExtract_returnsParsedProfile(t *testing.T) {
	store := newStore(t)
	var calls int
	p, err := New(fixedReply(`{"benefits":["Fast","Cheap"]}`, &calls, nil), store).Extract(context.Background(), "u", "c", "p1")
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"benefits":["Fast","Cheap"]`)
	assert.Equal(t, "p1", p.ProjectID)
}
