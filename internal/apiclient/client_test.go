package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemavault/internal/model"
)

func TestLoginKeepsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "wallet", body["type"])
			_, _ = w.Write([]byte(`{"success":true,"token":"tok","user":{"id":"2","username":"0xabc","type":"customer","wallet":"0xabc"}}`))
		case "/api/rent":
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "0xabc", r.URL.Query().Get("walletAddress"))
			_, _ = w.Write([]byte(`{"success":true,"rentals":[{"id":"r1","movieId":"1","status":"active"}]}`))
		}
	}))
	defer srv.Close()

	c := New([]string{srv.URL}, time.Second)
	p, err := c.Login(testContext(t), "0xabc", "0xabc", "wallet")
	require.NoError(t, err)
	assert.Equal(t, model.PrincipalCustomer, p.Type)
	assert.Equal(t, "tok", c.Token())
	sess, _ := c.Session()
	assert.Equal(t, "0xabc", sess.Wallet)

	rentals, err := c.Rentals(testContext(t), "0xabc")
	require.NoError(t, err)
	require.Len(t, rentals, 1)
	assert.Equal(t, model.RentalActive, rentals[0].Status)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Authorization required"}`))
	}))
	defer srv.Close()

	c := New([]string{srv.URL}, time.Second)
	_, err := c.RecordRental(testContext(t), "1", 0.05, "0xtx", "0xabc")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Authorization required", ae.Message)
}

func TestExtendSendsEndTime(t *testing.T) {
	end := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r1", body["id"])
		assert.Equal(t, "2025-06-01T10:00:00Z", body["endTime"])
		_, _ = w.Write([]byte(`{"success":true,"rental":{"id":"r1","endTime":"2025-06-01T10:00:00Z"}}`))
	}))
	defer srv.Close()

	r, err := New([]string{srv.URL}, time.Second).ExtendRental(testContext(t), "r1", end, "")
	require.NoError(t, err)
	assert.True(t, r.EndTime.Equal(end))
}

// testContext returns a context that is canceled when the test finishes,
// mirroring testing.T.Context for toolchains older than Go 1.24.
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
