package repository

import (
	"context"

	"gorm.io/gorm"

	"userbase/internal/model"
)

// OAuthClientRepository defines persistence operations over registered
// OAuth2 client applications.
type OAuthClientRepository interface {
	Create(ctx context.Context, client *model.OAuthClient) error
	FindByClientID(ctx context.Context, clientID string) (*model.OAuthClient, error)
}

type oauthClientRepository struct {
	db *gorm.DB
}

// NewOAuthClientRepository builds a GORM-backed repository.
func NewOAuthClientRepository(db *gorm.DB) OAuthClientRepository {
	return &oauthClientRepository{db: db}
}

func (r *oauthClientRepository) Create(ctx context.Context, client *model.OAuthClient) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *oauthClientRepository) FindByClientID(ctx context.Context, clientID string) (*model.OAuthClient, error) {
	var client model.OAuthClient
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
