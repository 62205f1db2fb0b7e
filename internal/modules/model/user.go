package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// ParseRole accepts only the closed set of roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string            `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Name         string            `gorm:"type:text" json:"name"`
	PasswordHash string            `gorm:"type:text;not null" json:"-"`
	Role         Role              `gorm:"type:text;not null;default:'client';check:role IN ('client','admin')" json:"role"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"metadata"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// User <-> Project
	Projects []Project `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Identity is the caller of an operation, resolved once per request from the
// session and passed explicitly to every service method.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

func (i Identity) Authenticated() bool { return i.UserID != uuid.Nil }

func (i Identity) IsAdmin() bool { return i.Authenticated() && i.Role == RoleAdmin }

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
