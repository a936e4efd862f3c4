package models

import (
	"time"
)

type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"size:50;unique;not null"`
	AccessScope string       `json:"access_scope" gorm:"size:20;default:own"`
	IsDefault   bool         `json:"is_default" gorm:"default:false"`
	Users       []User       `json:"users,omitempty" gorm:"foreignKey:RoleID"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
