package models

import (
	"time"
)

type User struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"size:100;not null"`
	LastName         string          `json:"last_name" gorm:"size:100"`
	DNI              *string         `json:"dni,omitempty" gorm:"size:20;uniqueIndex"`
	Phone            string          `json:"phone,omitempty" gorm:"size:15"`
	Email            string          `json:"email" gorm:"size:100;unique;not null"`
	Password         string          `json:"-" gorm:"size:255"`
	Verified         bool            `json:"verificado" gorm:"default:false"`
	Status           bool            `json:"status" gorm:"default:true"`
	RoleID           uint            `json:"role_id" gorm:"not null"`
	Role             Role            `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	SocialNetworks   []SocialNetwork `json:"redes,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Photo            string          `json:"photo,omitempty" gorm:"type:text"`
	VerificationCode string          `json:"-" gorm:"size:255"`
	PasswordTemp     string          `json:"-" gorm:"size:255"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
