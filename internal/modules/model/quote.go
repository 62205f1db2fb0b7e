package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quote struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"project_id"`
	Amount    float64                     `gorm:"type:numeric(12,2);not null;check:amount >= 0" json:"amount"`
	Items     datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" swaggertype:"array,string" json:"items"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quote <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Quote) TableName() string { return "quotes" }

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
