package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	StatusPending         ProjectStatus = "Pending"
	StatusInProgress      ProjectStatus = "In Progress"
	StatusPendingReview   ProjectStatus = "Pending Review"
	StatusAwaitingPayment ProjectStatus = "Awaiting Payment"
	StatusCompleted       ProjectStatus = "Completed"
)

var projectStatuses = []ProjectStatus{
	StatusPending,
	StatusInProgress,
	StatusPendingReview,
	StatusAwaitingPayment,
	StatusCompleted,
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range projectStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown project status %q", s)
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "Unpaid"
	PaymentHalfPaid PaymentStatus = "50% Paid"
	PaymentPaid     PaymentStatus = "Paid"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentUnpaid, PaymentHalfPaid, PaymentPaid:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	Status        ProjectStatus `gorm:"type:text;not null;default:'Pending';check:status IN ('Pending','In Progress','Pending Review','Awaiting Payment','Completed')" json:"status"`
	Progress      int           `gorm:"not null;default:0;check:progress BETWEEN 0 AND 100" json:"progress"`
	PaymentStatus PaymentStatus `gorm:"type:text;not null;default:'Unpaid';check:payment_status IN ('Unpaid','50% Paid','Paid')" json:"payment_status"`

	RepositoryURL       *string `gorm:"type:text" json:"repository_url"`
	RepositoryConnected bool    `gorm:"not null;default:false;check:chk_projects_repository_link,NOT repository_connected OR repository_url IS NOT NULL" json:"repository_connected"`
	DefaultBranch       *string `gorm:"type:text" json:"default_branch"`

	StartDate           *time.Time `json:"start_date"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
	LastUpdate          *time.Time `json:"last_update"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Quotes     []Quote            `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"quotes,omitempty"`
	Updates    []ProjectUpdate    `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"updates,omitempty"`
	Milestones []ProjectMilestone `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"milestones,omitempty"`
	Feedback   []Feedback         `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"feedback,omitempty"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether the identity may act on the project.
func (p *Project) OwnedBy(id Identity) bool {
	return id.IsAdmin() || (id.Authenticated() && p.ClientID == id.UserID)
}
