package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepositoryToken is a user's bearer credential for the repository provider.
// The unique index on user_id backs the single-statement upsert.
type RepositoryToken struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	AccessToken string    `gorm:"type:text;not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// RepositoryToken <-> User
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (RepositoryToken) TableName() string { return "repository_tokens" }

func (t *RepositoryToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
