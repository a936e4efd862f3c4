package models

import (
	"time"
)

// Permission is one protected (route, verb) pair. Seeding and administrative
// creation both funnel through the (name, method) unique index, so duplicate
// inserts fail at the store instead of relying on a count check.
type Permission struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:idx_permission_name_method"`
	Method    string    `json:"method" gorm:"size:50;not null;uniqueIndex:idx_permission_name_method"`
	UserIDs   []uint    `json:"users" gorm:"serializer:json"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	Roles     []Role    `json:"roles,omitempty" gorm:"many2many:role_permissions;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
