package utils // package utils provides session token and credential helpers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/cinemavault/internal/model"
)

// ErrInvalidToken is returned by Verify for undecodable or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Signing modes understood by NewTokenIssuer.
const (
	SigningNone  = "none"
	SigningHS256 = "hs256"
)

// sessionClaims is the token payload: the principal plus the standard
// expiry claim.
type sessionClaims struct {
	model.Principal
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies self-contained session tokens.  With
// SigningNone the token is an unsigned JWT: it is reversible and carries
// structure only, anyone can forge one.  SigningHS256 adds a MAC.
type TokenIssuer struct {
	method jwt.SigningMethod
	key    any
	ttl    time.Duration
	apiKey string
	now    func() time.Time
}

// NewTokenIssuer builds an issuer.  apiKey is the fixed key every staff
// principal carries after verification.  now may be nil to use time.Now.
func NewTokenIssuer(signing, secret string, ttl time.Duration, apiKey string, now func() time.Time) (*TokenIssuer, error) {
	if now == nil {
		now = time.Now
	}
	t := &TokenIssuer{ttl: ttl, apiKey: apiKey, now: now}
	switch signing {
	case SigningNone, "":
		t.method = jwt.SigningMethodNone
		t.key = jwt.UnsafeAllowNoneSignatureType
	case SigningHS256:
		if secret == "" {
			return nil, errors.New("token: hs256 signing needs a secret")
		}
		t.method = jwt.SigningMethodHS256
		t.key = []byte(secret)
	default:
		return nil, fmt.Errorf("token: unknown signing mode %q", signing)
	}
	return t, nil
}

// Issue embeds p and an absolute expiry of now+ttl into a token string.
// It returns the token together with its expiry.  Token times have whole
// second precision, so now is truncated before exp is derived.
func (t *TokenIssuer) Issue(p model.Principal) (string, time.Time, error) {
	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(t.ttl)
	claims := sessionClaims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return signed, exp, nil
}

// Verify decodes raw (an optional "Bearer " prefix is stripped) and returns
// the embedded principal.  Tokens whose expiry is not after the current
// time are rejected.
func (t *TokenIssuer) Verify(raw string) (model.Principal, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return model.Principal{}, ErrInvalidToken
	}
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return t.key, nil },
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		return model.Principal{}, ErrInvalidToken
	}
	p := claims.Principal
	if p.Type == "" {
		return model.Principal{}, ErrInvalidToken
	}
	if p.IsStaff() {
		p.APIKey = t.apiKey
	}
	return p, nil
}
