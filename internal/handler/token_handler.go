package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"userbase/internal/errors"
	"userbase/internal/service"
)

// TokenHandler implements the OAuth2 token and revocation endpoints.
type TokenHandler struct {
	tokens service.TokenService
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(tokens service.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// TokenRequest carries the form-encoded token endpoint parameters.
type TokenRequest struct {
	GrantType    string `form:"grant_type"`
	Username     string `form:"username"`
	Password     string `form:"password"`
	RefreshToken string `form:"refresh_token"`
	ClientID     string `form:"client_id"`
	ClientSecret string `form:"client_secret"`
	Scope        string `form:"scope"`
}

// RevokeRequest carries the form-encoded revocation parameters.
type RevokeRequest struct {
	Token        string `form:"token"`
	ClientID     string `form:"client_id"`
	ClientSecret string `form:"client_secret"`
}

// TokenResponse is the RFC 6749 success payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Token godoc
// @Summary Issue tokens
// @Description Password and refresh-token grants. Errors use the RFC 6749 envelope.
// @Tags oauth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "password or refresh_token"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client secret"
// @Param username formData string false "Resource owner username (password grant)"
// @Param password formData string false "Resource owner password (password grant)"
// @Param refresh_token formData string false "Refresh token (refresh grant)"
// @Param scope formData string false "Requested scope"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.OAuth2Error
// @Failure 401 {object} errors.OAuth2Error
// @Router /oauth/token [post]
func (h *TokenHandler) Token(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return oauthError(c, errors.ErrInvalidRequest)
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		return oauthError(c, errors.ErrInvalidRequest)
	}

	switch req.GrantType {
	case "password":
		if req.Username == "" || req.Password == "" {
			return oauthError(c, errors.ErrInvalidRequest)
		}
		pair, err := h.tokens.PasswordGrant(c.Request().Context(), req.ClientID, req.ClientSecret, req.Username, req.Password, req.Scope)
		if err != nil {
			return oauthError(c, err)
		}
		return c.JSON(http.StatusOK, tokenResponse(pair))

	case "refresh_token":
		if req.RefreshToken == "" {
			return oauthError(c, errors.ErrInvalidRequest)
		}
		pair, err := h.tokens.RefreshGrant(c.Request().Context(), req.ClientID, req.ClientSecret, req.RefreshToken)
		if err != nil {
			return oauthError(c, err)
		}
		return c.JSON(http.StatusOK, tokenResponse(pair))

	default:
		return oauthError(c, errors.ErrUnsupportedGrantType)
	}
}

// Revoke godoc
// @Summary Revoke a token
// @Description RFC 7009 revocation: an unknown token still yields 200.
// @Tags oauth
// @Accept x-www-form-urlencoded
// @Param token formData string true "Token to revoke"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client secret"
// @Success 200
// @Failure 400 {object} errors.OAuth2Error
// @Failure 401 {object} errors.OAuth2Error
// @Router /oauth/revoke_token [post]
func (h *TokenHandler) Revoke(c echo.Context) error {
	var req RevokeRequest
	if err := c.Bind(&req); err != nil {
		return oauthError(c, errors.ErrInvalidRequest)
	}
	if req.Token == "" || req.ClientID == "" || req.ClientSecret == "" {
		return oauthError(c, errors.ErrInvalidRequest)
	}

	if err := h.tokens.Revoke(c.Request().Context(), req.ClientID, req.ClientSecret, req.Token); err != nil {
		return oauthError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func tokenResponse(pair *service.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    pair.TokenType,
		Scope:        pair.Scope,
		RefreshToken: pair.RefreshToken,
	}
}

func oauthError(c echo.Context, err error) error {
	status, body := errors.MapOAuthError(err)
	return c.JSON(status, body)
}
