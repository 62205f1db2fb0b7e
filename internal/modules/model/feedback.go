package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`

	AttachmentKey  *string `gorm:"type:text" json:"-"`
	AttachmentName *string `gorm:"type:text" json:"attachment_name,omitempty"`
	AttachmentMIME *string `gorm:"column:attachment_mime;type:text" json:"attachment_mime,omitempty"`
	AttachmentSize *int64  `gorm:"type:bigint" json:"attachment_size,omitempty"`
	// presigned on read, never stored
	AttachmentURL string `gorm:"-" json:"attachment_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Feedback <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
