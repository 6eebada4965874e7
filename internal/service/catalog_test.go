package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/repository"
)

func TestListMoviesFallbackIsExactlyMockSet(t *testing.T) {
	clk := newClock()
	c := NewCatalog(clientFor(deadURL(t), deadURL(t)), repository.NewMemoryMovieStore(), "pcpdfilm", clk.Now)

	res := c.ListMovies(context.Background(), "")
	assert.Equal(t, model.SourceFallback, res.Meta.Source)
	assert.Equal(t, "All API endpoints failed", res.Meta.Error)
	assert.Equal(t, MockMovies(), res.Movies)
	require.NotNil(t, res.Meta.Total)
	assert.Equal(t, len(mockMovies), *res.Meta.Total)
	assert.Equal(t, 0, *res.Meta.APICount)
	assert.Equal(t, 0, *res.Meta.LocalCount)
}

func TestListMoviesMergesUpstreamAndLocal(t *testing.T) {
	var gotKey string
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/films", r.URL.Path)
		gotKey = r.Header.Get("k")
		_, _ = w.Write([]byte(`[
			{"_id":"a1","title":"Remote","image":"http://img/a1.jpg","year":"2001","rating":10},
			{"_id":"a2","title":"Priced","poster":"p.jpg","year":1999,"price":0.02}
		]`))
	})
	store := repository.NewMemoryMovieStore()
	require.NoError(t, store.Add(context.Background(), model.LocalMovie{ID: "local_1", Title: "Mine", Year: "2020", Runtime: 95}))

	c := NewCatalog(clientFor(deadURL(t), api), store, "pcpdfilm", newClock().Now)
	res := c.ListMovies(context.Background(), "")

	assert.Equal(t, "pcpdfilm", gotKey)
	assert.Equal(t, model.SourceAPI, res.Meta.Source)
	require.Len(t, res.Movies, 3)
	assert.Equal(t, "http://img/a1.jpg", res.Movies[0].Poster)
	assert.Equal(t, 2001, res.Movies[0].Year)
	assert.InDelta(t, 0.049, res.Movies[0].Price, 1e-9)
	assert.InDelta(t, 0.02, res.Movies[1].Price, 1e-9)
	assert.Equal(t, "local_1", res.Movies[2].ID)
	assert.Equal(t, 2020, res.Movies[2].Year)
	assert.Equal(t, 2, *res.Meta.APICount)
	assert.Equal(t, 1, *res.Meta.LocalCount)
	assert.Equal(t, 3, *res.Meta.Total)
}

func TestListMoviesForwardsCallerKey(t *testing.T) {
	var gotKey string
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("k")
		_, _ = w.Write([]byte(`[]`))
	})
	c := NewCatalog(clientFor(api), nil, "pcpdfilm", nil)
	res := c.ListMovies(context.Background(), "k1")
	assert.Equal(t, "k1", gotKey)
	assert.Empty(t, res.Movies)
}

func TestGetMovieNormalizesUpstream(t *testing.T) {
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/film/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"title":"Big","price":7,"thumbnail":"t.jpg"}`))
	})
	c := NewCatalog(clientFor(api), nil, "", nil)
	m := c.GetMovie(context.Background(), "42")
	assert.Equal(t, model.SourceAPI, m.Meta.Source)
	assert.Equal(t, "42", m.ID)
	assert.Equal(t, "t.jpg", m.Poster)
	assert.InDelta(t, 0.07, m.Price, 1e-9)
}

func TestGetMovieFallbacks(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryMovieStore()
	require.NoError(t, store.Add(ctx, model.LocalMovie{ID: "local_7", Title: "Kept", Year: "2022"}))
	c := NewCatalog(clientFor(deadURL(t)), store, "", nil)

	local := c.GetMovie(ctx, "local_7")
	assert.Equal(t, model.SourceLocal, local.Meta.Source)
	assert.Equal(t, "Kept", local.Title)

	mock := c.GetMovie(ctx, "3")
	assert.Equal(t, model.SourceMock, mock.Meta.Source)
	assert.Equal(t, "Interstellar", mock.Title)

	sample := c.GetMovie(ctx, "zz")
	assert.Equal(t, model.SourceMock, sample.Meta.Source)
	assert.Equal(t, "Sample Movie zz", sample.Title)
	assert.Equal(t, placeholderDetailPoster, sample.Poster)

	_, ok := c.LookupMovie(ctx, "zz")
	assert.False(t, ok)
}
