package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecordStatusPending  = "pending"
	RecordStatusApproved = "approved"
	RecordStatusRejected = "rejected"
)

// Record is a player's completion submission. Status only ever moves
// pending -> approved or pending -> rejected.
type Record struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User       `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	DemonID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"demon_id"`
	Demon       Demon      `gorm:"constraint:OnDelete:CASCADE" json:"demon,omitempty"`
	VideoURL    string     `gorm:"type:text;not null" json:"video_url"`
	Status      string     `gorm:"size:20;not null;default:pending" json:"status"`
	SubmittedAt time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
