package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/upstream"
)

func TestUpdateUserValidation(t *testing.T) {
	p := NewProfile(clientFor(deadURL(t)), "pcpdfilm", "s235776767", nil)
	ctx := context.Background()
	assert.ErrorIs(t, p.UpdateUser(ctx, "", UserUpdate{}), ErrUnauthorized)

	err := p.UpdateUser(ctx, "k1", UserUpdate{Firstname: "A", Type: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Missing required fields", err.Error())

	err = p.UpdateUser(ctx, "k1", UserUpdate{Firstname: "A", Lastname: "B", Type: 3})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Invalid user type", err.Error())

	err = p.UpdateUser(ctx, "k1", UserUpdate{Firstname: "A", Lastname: "B", Type: 2})
	assert.ErrorIs(t, err, upstream.ErrUpstreamUnavailable)
}

func TestUpdateUserDefaultsValid(t *testing.T) {
	var body map[string]any
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "k1", r.Header.Get("k"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &body))
	})
	p := NewProfile(clientFor(api), "pcpdfilm", "s235776767", nil)
	require.NoError(t, p.UpdateUser(context.Background(), "k1", UserUpdate{Firstname: "A", Lastname: "B", Type: 1}))
	assert.Equal(t, float64(1), body["valid"])
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)
}

func TestGetUser(t *testing.T) {
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"firstname":"John"}`))
	})
	p := NewProfile(clientFor(deadURL(t), api), "pcpdfilm", "s235776767", nil)
	data, err := p.GetUser(context.Background(), "k1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstname":"John"}`, string(data))

	p = NewProfile(clientFor(deadURL(t)), "pcpdfilm", "s235776767", nil)
	_, err = p.GetUser(context.Background(), "k1")
	assert.ErrorIs(t, err, upstream.ErrUpstreamUnavailable)
}

func TestUserDetail(t *testing.T) {
	clk := newClock()
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"username":"remote"}`))
	})
	p := NewProfile(clientFor(api), "pcpdfilm", "s235776767", clk.Now)
	got, err := p.UserDetail(context.Background(), "", "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, "remote", got["username"])
	assert.Equal(t, model.SourceAPI, got["meta"].(model.Meta).Source)

	p = NewProfile(clientFor(deadURL(t)), "pcpdfilm", "s235776767", clk.Now)
	got, err = p.UserDetail(context.Background(), "k1", "")
	require.NoError(t, err)
	assert.Equal(t, "s235776767", got["username"])
	assert.Equal(t, "staff@cinemavault.com", got["email"])
	assert.Equal(t, model.SourceMock, got["meta"].(model.Meta).Source)

	_, err = p.UserDetail(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChangePasswordRoutesByPrincipal(t *testing.T) {
	var paths []string
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "pcpdfilm", r.Header.Get("k"))
		_, _ = w.Write([]byte(`{}`))
	})
	p := NewProfile(clientFor(api), "pcpdfilm", "s235776767", nil)
	ctx := context.Background()

	staff := model.Principal{ID: "1", Type: model.PrincipalStaff, APIKey: "pcpdfilm"}
	require.NoError(t, p.ChangePassword(ctx, staff, "old", "newpass"))
	require.NoError(t, p.ChangePassword(ctx, customer, "old", "newpass"))
	assert.Equal(t, []string{"/user/password", "/customer/password"}, paths)

	assert.ErrorIs(t, p.ChangePassword(ctx, staff, "old", "abc"), ErrInvalidInput)
	assert.ErrorIs(t, p.ChangePassword(ctx, staff, "", "abcd"), ErrInvalidInput)
	assert.ErrorIs(t, p.ChangePassword(ctx, model.Principal{}, "old", "abcd"), ErrUnauthorized)
	assert.Len(t, paths, 2)
}
