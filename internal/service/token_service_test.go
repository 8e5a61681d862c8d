package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userbase/internal/auth"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
)

// MockOAuthClientRepository is a mock implementation of OAuthClientRepository.
type MockOAuthClientRepository struct {
	mock.Mock
}

func (m *MockOAuthClientRepository) Create(ctx context.Context, client *model.OAuthClient) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockOAuthClientRepository) FindByClientID(ctx context.Context, clientID string) (*model.OAuthClient, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthClient), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username, scope string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, username, scope, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.String(2), args.Error(3)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 10)
	assert.NoError(t, err)
	return string(hash)
}

func testClient(t *testing.T) *model.OAuthClient {
	return &model.OAuthClient{
		ID:               1,
		ClientID:         "test-client",
		ClientSecretHash: hashOf(t, "test-client-secret"),
		Name:             "Test Application",
		GrantType:        model.GrantPassword,
	}
}

func TestTokenService_PasswordGrant(t *testing.T) {
	tests := []struct {
		name          string
		clientID      string
		clientSecret  string
		username      string
		password      string
		scope         string
		setupMock     func(*testing.T, *MockUserRepository, *MockOAuthClientRepository, *MockTokenStore)
		expectedError error
		expectedScope string
	}{
		{
			name:         "successful grant with default scope",
			clientID:     "test-client",
			clientSecret: "test-client-secret",
			username:     "testuser",
			password:     "testpass123",
			setupMock: func(t *testing.T, users *MockUserRepository, clients *MockOAuthClientRepository, store *MockTokenStore) {
				clients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
				users.On("FindByUsername", mock.Anything, "testuser").Return(&model.User{
					ID:           7,
					Username:     "testuser",
					PasswordHash: hashOf(t, "testpass123"),
					Role:         model.RoleUser,
					IsActive:     true,
				}, nil)
				store.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "testuser", DefaultScope, auth.RefreshTokenExpiry).Return(nil)
			},
			expectedScope: DefaultScope,
		},
		{
			name:         "requested scope is echoed back",
			clientID:     "test-client",
			clientSecret: "test-client-secret",
			username:     "testuser",
			password:     "testpass123",
			scope:        "read",
			setupMock: func(t *testing.T, users *MockUserRepository, clients *MockOAuthClientRepository, store *MockTokenStore) {
				clients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
				users.On("FindByUsername", mock.Anything, "testuser").Return(&model.User{
					ID:           7,
					Username:     "testuser",
					PasswordHash: hashOf(t, "testpass123"),
					Role:         model.RoleUser,
					IsActive:     true,
				}, nil)
				store.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "testuser", "read", auth.RefreshTokenExpiry).Return(nil)
			},
			expectedScope: "read",
		},
		{
			name:         "unknown client",
			clientID:     "invalid_client_id",
			clientSecret: "invalid_secret",
			username:     "testuser",
			password:     "testpass123",
			setupMock: func(t *testing.T, users *MockUserRepository, clients *MockOAuthClientRepository, store *MockTokenStore) {
				clients.On("FindByClientID", mock.Anything, "invalid_client_id").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidClient,
		},
		{
			name:         "wrong client secret",
			clientID:     "test-client",
			clientSecret: "wrong-secret",
			username:     "testuser",
			password:     "testpass123",
			setupMock: func(t *testing.T, users *MockUserRepository, clients *MockOAuthClientRepository, store *MockTokenStore) {
				clients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
			},
			expectedError: apperrors.ErrInvalidClient,
		},
		{
			name:         "unknown user",
			clientID:     "test-client",
			clientSecret: "test-client-secret",
			username:     "nobody",
			password:     "testpass123",
			setupMock: func(t *testing.T, users *MockUserRepository, clients *MockOAuthClientRepository, store *MockTokenStore) {
				clients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
				users.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidGrant,
		},
		{
			name:         "wrong password",
			clientID:     "test-client",
			clientSecret: "test-client-secret",
			username:     "testuser",
			password:     "wrongpassword",
			setupMock: func(t *testing.T, users *MockUserRepository, clients *MockOAuthClientRepository, store *MockTokenStore) {
				clients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
				users.On("FindByUsername", mock.Anything, "testuser").Return(&model.User{
					ID:           7,
					Username:     "testuser",
					PasswordHash: hashOf(t, "testpass123"),
					Role:         model.RoleUser,
					IsActive:     true,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidGrant,
		},
		{
			name:         "inactive user",
			clientID:     "test-client",
			clientSecret: "test-client-secret",
			username:     "inactive",
			password:     "pass123",
			setupMock: func(t *testing.T, users *MockUserRepository, clients *MockOAuthClientRepository, store *MockTokenStore) {
				clients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
				users.On("FindByUsername", mock.Anything, "inactive").Return(&model.User{
					ID:           8,
					Username:     "inactive",
					PasswordHash: hashOf(t, "pass123"),
					Role:         model.RoleUser,
					IsActive:     false,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidGrant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockClients := new(MockOAuthClientRepository)
			mockStore := new(MockTokenStore)
			tt.setupMock(t, mockUsers, mockClients, mockStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewTokenService(mockUsers, mockClients, jwtService, mockStore)

			pair, err := svc.PasswordGrant(context.Background(), tt.clientID, tt.clientSecret, tt.username, tt.password, tt.scope)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, pair)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
				assert.Equal(t, "Bearer", pair.TokenType)
				assert.Equal(t, int(auth.AccessTokenExpiry.Seconds()), pair.ExpiresIn)
				assert.Equal(t, tt.expectedScope, pair.Scope)

				// The role travels inside the access token claims.
				claims, err := jwtService.ValidateToken(pair.AccessToken)
				assert.NoError(t, err)
				assert.Equal(t, "testuser", claims.Username)
				assert.Equal(t, "user", claims.Role)
			}

			mockUsers.AssertExpectations(t)
			mockClients.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestTokenService_RefreshGrant(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("successful refresh rotates the token", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockClients := new(MockOAuthClientRepository)
		mockStore := new(MockTokenStore)

		oldID, oldToken, err := jwtService.GenerateRefreshToken(7, "testuser")
		assert.NoError(t, err)

		mockClients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
		mockStore.On("GetRefreshToken", mock.Anything, oldID).Return(uint(7), "testuser", "read write", nil)
		mockUsers.On("FindByID", mock.Anything, uint(7)).Return(&model.User{
			ID: 7, Username: "testuser", Role: model.RoleUser, IsActive: true,
		}, nil)
		mockStore.On("DeleteRefreshToken", mock.Anything, oldID).Return(nil)
		mockStore.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "testuser", "read write", auth.RefreshTokenExpiry).Return(nil)

		svc := NewTokenService(mockUsers, mockClients, jwtService, mockStore)
		pair, err := svc.RefreshGrant(context.Background(), "test-client", "test-client-secret", oldToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, oldToken, pair.RefreshToken)
		assert.Equal(t, "read write", pair.Scope)

		mockStore.AssertExpectations(t)
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockClients := new(MockOAuthClientRepository)
		mockStore := new(MockTokenStore)

		mockClients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)

		svc := NewTokenService(mockUsers, mockClients, jwtService, mockStore)
		pair, err := svc.RefreshGrant(context.Background(), "test-client", "test-client-secret", "not-a-jwt")

		assert.Equal(t, apperrors.ErrInvalidGrant, err)
		assert.Nil(t, pair)
		mockStore.AssertNotCalled(t, "GetRefreshToken", mock.Anything, mock.Anything)
	})

	t.Run("consumed refresh token is rejected", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockClients := new(MockOAuthClientRepository)
		mockStore := new(MockTokenStore)

		tokenID, token, err := jwtService.GenerateRefreshToken(7, "testuser")
		assert.NoError(t, err)

		mockClients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
		mockStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", "", assert.AnError)

		svc := NewTokenService(mockUsers, mockClients, jwtService, mockStore)
		pair, err := svc.RefreshGrant(context.Background(), "test-client", "test-client-secret", token)

		assert.Equal(t, apperrors.ErrInvalidGrant, err)
		assert.Nil(t, pair)
	})
}

func TestTokenService_Revoke(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("bad client is rejected", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockClients := new(MockOAuthClientRepository)
		mockStore := new(MockTokenStore)

		mockClients.On("FindByClientID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

		svc := NewTokenService(mockUsers, mockClients, jwtService, mockStore)
		err := svc.Revoke(context.Background(), "nope", "secret", "whatever")

		assert.Equal(t, apperrors.ErrInvalidClient, err)
	})

	t.Run("unknown token still succeeds", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockClients := new(MockOAuthClientRepository)
		mockStore := new(MockTokenStore)

		mockClients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)

		svc := NewTokenService(mockUsers, mockClients, jwtService, mockStore)
		err := svc.Revoke(context.Background(), "test-client", "test-client-secret", "not-a-jwt")

		assert.NoError(t, err)
		mockStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
		mockStore.AssertNotCalled(t, "RevokeAccessToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("issued token is revoked", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockClients := new(MockOAuthClientRepository)
		mockStore := new(MockTokenStore)

		tokenID, token, err := jwtService.GenerateAccessToken(7, "testuser", "user", DefaultScope)
		assert.NoError(t, err)

		mockClients.On("FindByClientID", mock.Anything, "test-client").Return(testClient(t), nil)
		mockStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
		mockStore.On("RevokeAccessToken", mock.Anything, tokenID, mock.Anything).Return(nil)

		svc := NewTokenService(mockUsers, mockClients, jwtService, mockStore)
		err = svc.Revoke(context.Background(), "test-client", "test-client-secret", token)

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})
}
