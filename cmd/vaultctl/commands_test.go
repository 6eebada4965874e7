package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemavault/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(testContext(t))
	return out.String(), err
}

func TestMoviesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies", r.URL.Path)
		_, _ = w.Write([]byte(`{"movies":[{"_id":"1","title":"The Matrix","year":1999,"rating":8.7,"price":0.05}],"meta":{"source":"fallback"}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "movies")
	require.NoError(t, err)
	assert.Contains(t, out, "The Matrix")
	assert.Contains(t, out, "0.050 ETH")
}

func TestLoginCommandPrintsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"token":"abc.def.","user":{"id":"2","type":"customer"}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "login", "--username", "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.\n", out)
}

func TestExtendCommandRejectsBadEnd(t *testing.T) {
	_, err := run(t, "--api", "http://127.0.0.1:1", "extend", "r1", "--end", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--end")
}

func TestPrintRentalsUsesSnapshotTitle(t *testing.T) {
	var buf bytes.Buffer
	end := time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)
	printRentals(&buf, []model.Rental{
		{ID: "r1", MovieID: "1", Status: model.RentalActive, EndTime: end, Movie: &model.MovieSnapshot{Title: "The Matrix"}},
		{ID: "r2", MovieID: "tt42", Status: model.RentalExpired, EndTime: end},
	})
	assert.Contains(t, buf.String(), "The Matrix")
	assert.Contains(t, buf.String(), "tt42")
	assert.Contains(t, buf.String(), "2025-05-12T12:00:00Z")
}

// testContext returns a context that is canceled when the test finishes,
// mirroring testing.T.Context for toolchains older than Go 1.24.
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
