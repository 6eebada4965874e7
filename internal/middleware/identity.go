package middleware

// identity.go holds the context plumbing shared by the auth, cache and
// rate limit middleware.  The verified principal is stored under
// principalKey; anonymous requests have none.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinemavault/internal/model"
)

const principalKey = "principal"

func setPrincipal(c echo.Context, p model.Principal) { c.Set(principalKey, p) }

// PrincipalFrom returns the principal stored by RequireBearer or
// OptionalBearer.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}

// userID identifies the caller for rate limiting: the wallet for
// customers, the principal id otherwise, and "anon" without a token.
func userID(c echo.Context) string {
	p, ok := PrincipalFrom(c)
	switch {
	case !ok:
		return "anon"
	case p.Wallet != "":
		return p.Wallet
	case p.ID != "":
		return p.Type + "-" + p.ID
	default:
		return "anon"
	}
}
