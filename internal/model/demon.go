package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ListTypeDemonlist = "demonlist"
	ListTypeChallenge = "challenge"
	ListTypeUnrated   = "unrated"
	ListTypeUpcoming  = "upcoming"
)

var ListTypes = []string{ListTypeDemonlist, ListTypeChallenge, ListTypeUnrated, ListTypeUpcoming}

func ValidListType(listType string) bool {
	for _, lt := range ListTypes {
		if lt == listType {
			return true
		}
	}
	return false
}

var Difficulties = []string{"Easy", "Medium", "Hard", "Insane", "Extreme"}

// Demon is a ranked level. Position is unique per list type and dense from 1
// upward; Points is derived from Position and never written independently.
type Demon struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Creator         string     `gorm:"size:255;not null" json:"creator"`
	Verifier        *string    `gorm:"size:255" json:"verifier,omitempty"`
	VerifierID      *uuid.UUID `gorm:"type:uuid" json:"verifier_id,omitempty"`
	Difficulty      string     `gorm:"size:50;not null" json:"difficulty"`
	ListType        string     `gorm:"size:50;not null;default:demonlist;uniqueIndex:idx_demons_list_position" json:"list_type"`
	Position        int        `gorm:"not null;uniqueIndex:idx_demons_list_position" json:"position"`
	Points          int        `gorm:"not null" json:"points"`
	VideoURL        *string    `gorm:"type:text" json:"video_url,omitempty"`
	CompletionCount int        `gorm:"not null;default:0" json:"completion_count"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Demon) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
