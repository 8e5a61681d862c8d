package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidClient is returned when client credentials are unknown or wrong.
	ErrInvalidClient = errors.New("invalid client credentials")
	// ErrInvalidGrant is returned when the resource-owner credentials or the
	// presented refresh token cannot be honored.
	ErrInvalidGrant = errors.New("invalid grant")
	// ErrInvalidRequest is returned when a required token parameter is missing.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedGrantType is returned for grant types we do not issue.
	ErrUnsupportedGrantType = errors.New("unsupported grant type")
	// ErrInvalidRole is returned when a user is created with an undefined role code.
	ErrInvalidRole = errors.New("invalid role")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// OAuth2Error is the RFC 6749 error envelope returned by the token endpoints.
type OAuth2Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// MapOAuthError maps a token-service error to an HTTP status and the
// RFC 6749 envelope.
func MapOAuthError(err error) (int, OAuth2Error) {
	switch err {
	case ErrInvalidClient:
		return http.StatusUnauthorized, OAuth2Error{Code: "invalid_client"}
	case ErrInvalidGrant:
		return http.StatusBadRequest, OAuth2Error{Code: "invalid_grant"}
	case ErrInvalidRequest:
		return http.StatusBadRequest, OAuth2Error{Code: "invalid_request"}
	case ErrUnsupportedGrantType:
		return http.StatusBadRequest, OAuth2Error{Code: "unsupported_grant_type"}
	default:
		return http.StatusInternalServerError, OAuth2Error{Code: "server_error"}
	}
}
