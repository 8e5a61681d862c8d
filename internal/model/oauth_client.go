package model

import "time"

// GrantPassword is the resource-owner password credentials grant.
const GrantPassword = "password"

// OAuthClient is a registered application allowed to request tokens on
// behalf of users through the token endpoint.
type OAuthClient struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ClientID         string    `json:"client_id" gorm:"uniqueIndex;size:100;not null"`
	ClientSecretHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name             string    `json:"name" gorm:"size:255;not null"`
	GrantType        string    `json:"grant_type" gorm:"size:32;default:'password'"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName pins the table name.
func (OAuthClient) TableName() string {
	return "oauth_clients"
}
