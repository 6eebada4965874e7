package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/middleware"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/service"
	"github.com/iliyamo/cinemavault/internal/utils"
)

// Login types accepted by /api/auth/login.
const (
	loginStaff  = "staff"
	loginWallet = "wallet"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Tokens  *utils.TokenIssuer
	Staff   *utils.Credential
	Profile *service.Profile
	APIKey  string
}

func NewAuthHandler(tokens *utils.TokenIssuer, staff *utils.Credential, profile *service.Profile, apiKey string) *AuthHandler {
	return &AuthHandler{Tokens: tokens, Staff: staff, Profile: profile, APIKey: apiKey}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Type     string `json:"type"` // staff | wallet
}

type loginResp struct {
	Success   bool            `json:"success"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      model.Principal `json:"user"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login issues a session token for the staff credential or for a wallet
// address.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username and password are required"})
	}

	var p model.Principal
	switch req.Type {
	case loginStaff:
		if !h.Staff.Matches(req.Username, req.Password) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		p = model.Principal{ID: "1", Username: h.Staff.Username(), Type: model.PrincipalStaff, APIKey: h.APIKey}
	case loginWallet:
		if !strings.HasPrefix(req.Username, "0x") {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		p = model.Principal{ID: "2", Username: req.Username, Type: model.PrincipalCustomer, Wallet: req.Username, APIKey: h.APIKey}
	default:
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	token, exp, err := h.Tokens.Issue(p)
	if err != nil {
		log.Error().Str("component", "auth").Err(err).Msg("token issue failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate token"})
	}
	log.Info().Str("component", "auth").Str("type", p.Type).Str("username", p.Username).Msg("login")
	return c.JSON(http.StatusOK, loginResp{Success: true, Token: token, ExpiresAt: exp, User: p})
}

// ChangePassword forwards a password change when the caller holds a valid
// token.  The response is the same success message in every case; the
// actual outcome is only logged.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	h.changePassword(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password changed successfully"})
}

func (h *AuthHandler) changePassword(c echo.Context) {
	logger := log.With().Str("component", "auth").Logger()
	p, authed := middleware.PrincipalFrom(c)
	if !authed {
		logger.Warn().Msg("password change ignored: missing or invalid token")
		return
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("password change ignored: invalid body")
		return
	}
	if err := h.Profile.ChangePassword(c.Request().Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		logger.Warn().Err(err).Str("type", p.Type).Msg("password change not applied")
		return
	}
	logger.Info().Str("type", p.Type).Msg("password changed")
}
