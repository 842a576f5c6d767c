package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/zodiac/internal/models"
)

func seed(t *testing.T, idx Index, outputs ...*models.Output) {
	t.Helper()
	for _, o := range outputs {
		require.NoError(t, idx.Index(context.Background(), o))
	}
}

func out(id, project, typ, content string) *models.Output {
	return &models.Output{ID: id, ProjectID: project, Type: typ, Title: models.TitleForType(typ), Content: content}
}

func ids(hits []*Hit) []string {
	r := make([]string, len(hits))
	for i, h := range hits {
		r[i] = h.OutputID
	}
	return r
}

func TestBleveIndex_SearchScopedToProject(t *testing.T) {
	idx, err := NewBleveIndex(filepath.Join(t.TempDir(), "bleve"))
	require.NoError(t, err)
	defer idx.Close()

	seed(t, idx,
		out("o1", "p1", "FAQ", "Acme Corp answers questions about consulting."),
		out("o2", "p1", "TAGLINES", "Grow faster. Worry less."),
		out("o3", "p2", "FAQ", "Another consulting firm."),
	)
	ctx := context.Background()

	hits, err := idx.Search(ctx, "p1", "consulting", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, ids(hits))
	assert.Contains(t, hits[0].Snippet, "consulting")

	hits, err = idx.Search(ctx, "", "consulting", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"o1", "o3"}, ids(hits))

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestBleveIndex_TitleMatches(t *testing.T) {
	idx, err := NewMemIndex()
	require.NoError(t, err)
	defer idx.Close()

	seed(t, idx,
		out("o1", "p1", "ELEVATOR_PITCH", "Short intro."),
		out("o2", "p1", "FAQ", "What is an elevator? A lift."),
	)
	hits, err := idx.Search(context.Background(), "p1", "elevator pitch", &Options{TitleBoost: 3})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "o1", hits[0].OutputID)
}

func TestBleveIndex_Fuzzy(t *testing.T) {
	idx, err := NewMemIndex()
	require.NoError(t, err)
	defer idx.Close()

	seed(t, idx, out("o1", "p1", "FAQ", "We offer bookkeeping services."))
	ctx := context.Background()

	hits, err := idx.Search(ctx, "p1", "bookeeping", nil)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "p1", "bookeeping", &Options{Fuzziness: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, ids(hits))
}

func TestBleveIndex_DeleteAndDeleteProject(t *testing.T) {
	idx, err := NewMemIndex()
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	seed(t, idx,
		out("o1", "p1", "FAQ", "alpha"),
		out("o2", "p1", "FAQ", "alpha"),
		out("o3", "p2", "FAQ", "alpha"),
	)
	require.NoError(t, idx.Delete(ctx, "o1"))
	hits, err := idx.Search(ctx, "", "alpha", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"o2", "o3"}, ids(hits))

	require.NoError(t, idx.DeleteProject(ctx, "p1"))
	hits, err = idx.Search(ctx, "", "alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"o3"}, ids(hits))
}

func TestBleveIndex_ReopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bleve")
	idx, err := NewBleveIndex(path)
	require.NoError(t, err)
	seed(t, idx, out("o1", "p1", "FAQ", "persistent"))
	require.NoError(t, idx.Close())

	idx, err = NewBleveIndex(path)
	require.NoError(t, err)
	defer idx.Close()
	hits, err := idx.Search(context.Background(), "p1", "persistent", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, ids(hits))
}

func TestSearch_emptyQuery(t *testing.T) {
	idx, err := NewMemIndex()
	require.NoError(t, err)
	defer idx.Close()
	hits, err := idx.Search(context.Background(), "p1", "   ", nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestOptionsNormalized(t *testing.T) {
	var nilOpts *Options
	assert.Equal(t, Options{Limit: 20, TitleBoost: 2}, nilOpts.normalized())
	assert.Equal(t, Options{Limit: 100, TitleBoost: 2, Fuzziness: 2}, (&Options{Limit: 500, Fuzziness: 5}).normalized())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("short", 10))
	assert.Equal(t, "abc...", Snippet("abcdef", 3))
}
