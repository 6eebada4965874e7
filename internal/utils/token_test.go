package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemavault/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newIssuer(t *testing.T, signing string, clk *fakeClock) *TokenIssuer {
	t.Helper()
	iss, err := NewTokenIssuer(signing, "s3cret", 24*time.Hour, "pcpdfilm", clk.Now)
	require.NoError(t, err)
	return iss
}

func TestTokenRoundTrip(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	for _, mode := range []string{SigningNone, SigningHS256} {
		t.Run(mode, func(t *testing.T) {
			iss := newIssuer(t, mode, clk)
			in := model.Principal{ID: "2", Username: "0xabc", Type: model.PrincipalCustomer, Wallet: "0xabc", APIKey: "pcpdfilm"}
			tok, exp, err := iss.Issue(in)
			require.NoError(t, err)
			assert.Equal(t, clk.t.Add(24*time.Hour), exp)

			got, err := iss.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, in, got)

			got, err = iss.Verify("Bearer " + tok)
			require.NoError(t, err)
			assert.Equal(t, in, got)
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{t: start}
	iss := newIssuer(t, SigningNone, clk)
	tok, _, err := iss.Issue(model.Principal{ID: "1", Username: "s235776767", Type: model.PrincipalStaff})
	require.NoError(t, err)

	clk.t = start.Add(24*time.Hour - time.Minute)
	_, err = iss.Verify(tok)
	assert.NoError(t, err)

	clk.t = start.Add(24 * time.Hour)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	clk.t = start.Add(48 * time.Hour)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenValidUntilReportedExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 900_000_000, time.UTC)}
	iss := newIssuer(t, SigningNone, clk)
	tok, exp, err := iss.Issue(model.Principal{ID: "2", Type: model.PrincipalCustomer, Wallet: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC), exp)

	clk.t = exp.Add(-500 * time.Millisecond)
	_, err = iss.Verify(tok)
	assert.NoError(t, err)

	clk.t = exp
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenStaffGetsAPIKey(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss := newIssuer(t, SigningNone, clk)
	tok, _, err := iss.Issue(model.Principal{ID: "1", Username: "s235776767", Type: model.PrincipalStaff})
	require.NoError(t, err)
	p, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "pcpdfilm", p.APIKey)
}

func TestTokenRejectsGarbage(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss := newIssuer(t, SigningNone, clk)
	for _, raw := range []string{"", "Bearer ", "not-a-token", "a.b.c"} {
		_, err := iss.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestTokenHS256RejectsTamperAndNone(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	signed := newIssuer(t, SigningHS256, clk)
	unsigned := newIssuer(t, SigningNone, clk)

	tok, _, err := signed.Issue(model.Principal{ID: "2", Username: "0xabc", Type: model.PrincipalCustomer})
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	_, err = signed.Verify(parts[0] + "." + parts[1] + ".")
	assert.ErrorIs(t, err, ErrInvalidToken)

	forged, _, err := unsigned.Issue(model.Principal{ID: "1", Username: "x", Type: model.PrincipalStaff})
	require.NoError(t, err)
	_, err = signed.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerModes(t *testing.T) {
	_, err := NewTokenIssuer(SigningHS256, "", time.Hour, "", nil)
	assert.Error(t, err)
	_, err = NewTokenIssuer("rs256", "x", time.Hour, "", nil)
	assert.Error(t, err)
}

func TestCredential(t *testing.T) {
	c, err := NewCredential("s235776767", "1234567890", 4)
	require.NoError(t, err)
	assert.True(t, c.Matches("s235776767", "1234567890"))
	assert.False(t, c.Matches("s235776767", "wrong"))
	assert.False(t, c.Matches("other", "1234567890"))
}
