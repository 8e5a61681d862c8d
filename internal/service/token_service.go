package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"userbase/internal/auth"
	"userbase/internal/errors"
	"userbase/internal/model"
	"userbase/internal/repository"
)

// DefaultScope is granted when a token request names no scope.
const DefaultScope = "read write"

// TokenPair is the token endpoint's success payload.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	Scope        string
}

// TokenService implements the OAuth2 grants exposed by the token endpoint.
type TokenService interface {
	PasswordGrant(ctx context.Context, clientID, clientSecret, username, password, scope string) (*TokenPair, error)
	RefreshGrant(ctx context.Context, clientID, clientSecret, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, clientID, clientSecret, token string) error
}

type tokenService struct {
	userRepo   repository.UserRepository
	clientRepo repository.OAuthClientRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewTokenService creates a new token service.
func NewTokenService(userRepo repository.UserRepository, clientRepo repository.OAuthClientRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) TokenService {
	return &tokenService{
		userRepo:   userRepo,
		clientRepo: clientRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// authenticateClient resolves and verifies the requesting client application.
func (s *tokenService) authenticateClient(ctx context.Context, clientID, clientSecret string) (*model.OAuthClient, error) {
	client, err := s.clientRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, errors.ErrInvalidClient
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.ClientSecretHash), []byte(clientSecret)); err != nil {
		return nil, errors.ErrInvalidClient
	}
	return client, nil
}

// PasswordGrant authenticates the client and the resource owner and issues
// an access/refresh token pair. Inactive users cannot obtain tokens.
func (s *tokenService) PasswordGrant(ctx context.Context, clientID, clientSecret, username, password, scope string) (*TokenPair, error) {
	if _, err := s.authenticateClient(ctx, clientID, clientSecret); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.ErrInvalidGrant
	}
	if !user.IsActive {
		return nil, errors.ErrInvalidGrant
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidGrant
	}

	if scope == "" {
		scope = DefaultScope
	}
	return s.issuePair(ctx, user, scope)
}

// RefreshGrant exchanges an outstanding refresh token for a fresh pair.
// Refresh tokens rotate: the presented token is consumed and cannot be
// used again.
func (s *tokenService) RefreshGrant(ctx context.Context, clientID, clientSecret, refreshToken string) (*TokenPair, error) {
	if _, err := s.authenticateClient(ctx, clientID, clientSecret); err != nil {
		return nil, err
	}

	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return nil, errors.ErrInvalidGrant
	}

	storedUserID, storedUsername, scope, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return nil, errors.ErrInvalidGrant
	}
	if storedUserID != claims.UserID || storedUsername != claims.Username {
		return nil, errors.ErrInvalidGrant
	}

	user, err := s.userRepo.FindByID(ctx, storedUserID)
	if err != nil || !user.IsActive {
		return nil, errors.ErrInvalidGrant
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return s.issuePair(ctx, user, scope)
}

// Revoke invalidates a token we issued. Per RFC 7009 an unknown or
// already-dead token is not an error; only a bad client is rejected.
func (s *tokenService) Revoke(ctx context.Context, clientID, clientSecret, token string) error {
	if _, err := s.authenticateClient(ctx, clientID, clientSecret); err != nil {
		return err
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil || claims.ID == "" {
		return nil
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.tokenStore.RevokeAccessToken(ctx, claims.ID, ttl)
}

func (s *tokenService) issuePair(ctx context.Context, user *model.User, scope string) (*TokenPair, error) {
	_, accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, string(user.Role), scope)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, refreshID, user.ID, user.Username, scope, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(auth.AccessTokenExpiry.Seconds()),
		Scope:        scope,
	}, nil
}
