package models

import (
	"time"
)

// SocialNetwork links a local user to an external provider identity. The
// (provider, provider_id) pair is unique across all users: two accounts can
// never claim the same external identity.
type SocialNetwork struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Provider   string    `json:"provider" gorm:"size:50;not null;uniqueIndex:idx_social_provider_identity"`
	ProviderID string    `json:"providerId" gorm:"size:100;not null;uniqueIndex:idx_social_provider_identity"`
	ProfileURL string    `json:"profileUrl,omitempty" gorm:"size:255"`
	UserID     uint      `json:"user_id" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
