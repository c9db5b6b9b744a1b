package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitRecordRequest struct {
	DemonID  uuid.UUID `json:"demon_id" binding:"required"`
	VideoURL string    `json:"video_url" binding:"required,url"`
}

type RecordResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	DemonID     uuid.UUID  `json:"demon_id"`
	VideoURL    string     `json:"video_url"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  *uuid.UUID `json:"reviewed_by,omitempty"`
}

type RecordUserSubset struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type RecordDemonSubset struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Position   int       `json:"position"`
	Difficulty string    `json:"difficulty"`
	Points     int       `json:"points"`
}

// AdminRecordResponse is the review-queue view with submitter and demon joined in.
type AdminRecordResponse struct {
	RecordResponse
	User  RecordUserSubset  `json:"user"`
	Demon RecordDemonSubset `json:"demon"`
}
