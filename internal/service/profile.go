package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/metrics"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/upstream"
)

// MinPasswordLength is the shortest new password forwarded upstream.
const MinPasswordLength = 4

// Profile fetches and updates the staff profile on the upstream API.
type Profile struct {
	client        *upstream.Client
	defaultKey    string
	staffUsername string
	now           func() time.Time
}

func NewProfile(client *upstream.Client, defaultKey, staffUsername string, now func() time.Time) *Profile {
	if now == nil {
		now = time.Now
	}
	return &Profile{client: client, defaultKey: defaultKey, staffUsername: staffUsername, now: now}
}

// UserUpdate is the body of a profile update.  Type is 1 or 2; Valid
// defaults to 1.
type UserUpdate struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Type      int    `json:"type"`
	Password  string `json:"password,omitempty"`
	Valid     *int   `json:"valid,omitempty"`
}

// GetUser returns the upstream user record.  There is no fallback: total
// failure returns an error wrapping upstream.ErrUpstreamUnavailable.
func (p *Profile) GetUser(ctx context.Context, apiKey string) (json.RawMessage, error) {
	if apiKey == "" {
		return nil, ErrUnauthorized
	}
	data, _, err := upstream.Call(ctx, p.client, "get_user", http.MethodGet, "/user", upstream.KeyHeader(apiKey), nil,
		upstream.DecodeJSON[json.RawMessage]())
	return data, err
}

// UpdateUser validates u and forwards it.
func (p *Profile) UpdateUser(ctx context.Context, apiKey string, u UserUpdate) error {
	if apiKey == "" {
		return ErrUnauthorized
	}
	if u.Firstname == "" || u.Lastname == "" || u.Type == 0 {
		return invalid("Missing required fields")
	}
	if u.Type != 1 && u.Type != 2 {
		return invalid("Invalid user type")
	}
	if u.Valid == nil {
		one := 1
		u.Valid = &one
	}
	_, _, err := upstream.Call(ctx, p.client, "update_user", http.MethodPut, "/user",
		upstream.KeyHeader(apiKey), u, func([]byte) (struct{}, error) { return struct{}{}, nil })
	return err
}

// UserDetail returns the upstream profile details merged with provenance
// metadata, or the mock staff profile when every host fails.
func (p *Profile) UserDetail(ctx context.Context, apiKey, authorization string) (map[string]any, error) {
	if apiKey == "" && authorization == "" {
		return nil, ErrUnauthorized
	}
	h := upstream.KeyHeader(apiKey)
	if authorization != "" {
		h.Set("Authorization", authorization)
	}
	now := p.now().UTC()
	detail, _, err := upstream.Call(ctx, p.client, "user_detail", http.MethodGet, "/user/detail", h, nil,
		upstream.DecodeJSON[map[string]any]())
	if err == nil && detail != nil {
		detail["meta"] = model.Meta{Source: model.SourceAPI, Timestamp: now}
		metrics.Responses.WithLabelValues("user_detail", model.SourceAPI).Inc()
		return detail, nil
	}

	log.Info().Str("component", "profile").Msg("user detail endpoints failed, using mock user details")
	mock := mockUserDetail(p.staffUsername, now)
	out := map[string]any{
		"username":   mock.Username,
		"email":      mock.Email,
		"phone":      mock.Phone,
		"firstName":  mock.FirstName,
		"lastName":   mock.LastName,
		"dateJoined": mock.DateJoined,
		"lastLogin":  mock.LastLogin,
		"meta":       model.Meta{Source: model.SourceMock, Timestamp: now},
	}
	metrics.Responses.WithLabelValues("user_detail", model.SourceMock).Inc()
	return out, nil
}

// ChangePassword forwards a password change for principal to the staff or
// customer endpoint.  Callers report success regardless; the error tells
// what actually happened.
func (p *Profile) ChangePassword(ctx context.Context, principal model.Principal, current, next string) error {
	if principal.Type == "" {
		return ErrUnauthorized
	}
	if current == "" || next == "" {
		return invalid("currentPassword and newPassword are required")
	}
	if len(next) < MinPasswordLength {
		return invalid("new password is too short")
	}
	path := "/customer/password"
	if principal.IsStaff() {
		path = "/user/password"
	}
	key := principal.APIKey
	if key == "" {
		key = p.defaultKey
	}
	body := map[string]string{"currentPassword": current, "newPassword": next}
	_, _, err := upstream.Call(ctx, p.client, "change_password", http.MethodPut, path,
		upstream.KeyHeader(key), body, func([]byte) (struct{}, error) { return struct{}{}, nil })
	if err != nil {
		return errors.Join(errors.New("password change not applied upstream"), err)
	}
	return nil
}
