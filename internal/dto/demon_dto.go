package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDemonRequest struct {
	Name       string     `json:"name" binding:"required,max=255"`
	Creator    string     `json:"creator" binding:"required,max=255"`
	Verifier   *string    `json:"verifier" binding:"omitempty,max=255"`
	VerifierID *uuid.UUID `json:"verifier_id"`
	Difficulty string     `json:"difficulty" binding:"required,oneof=Easy Medium Hard Insane Extreme"`
	ListType   string     `json:"list_type" binding:"required,oneof=demonlist challenge unrated upcoming"`
	Position   int        `json:"position" binding:"required,min=1"`
	VideoURL   *string    `json:"video_url" binding:"omitempty,url"`
}

type UpdateDemonRequest struct {
	Name       *string    `json:"name" binding:"omitempty,max=255"`
	Creator    *string    `json:"creator" binding:"omitempty,max=255"`
	Verifier   *string    `json:"verifier" binding:"omitempty,max=255"`
	VerifierID *uuid.UUID `json:"verifier_id"`
	Difficulty *string    `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard Insane Extreme"`
	Position   *int       `json:"position" binding:"omitempty,min=1"`
	VideoURL   *string    `json:"video_url" binding:"omitempty,url"`
}

type ReorderAssignment struct {
	DemonID  uuid.UUID `json:"demon_id" binding:"required"`
	Position int       `json:"position" binding:"required,min=1"`
}

type ReorderRequest struct {
	ListType    string              `json:"list_type" binding:"required,oneof=demonlist challenge unrated upcoming"`
	Assignments []ReorderAssignment `json:"assignments" binding:"required,min=1,dive"`
}

type DemonFilter struct {
	ListType string `form:"list_type" binding:"omitempty,oneof=demonlist challenge unrated upcoming"`
}

type DemonResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Creator         string     `json:"creator"`
	Verifier        *string    `json:"verifier,omitempty"`
	VerifierID      *uuid.UUID `json:"verifier_id,omitempty"`
	Difficulty      string     `json:"difficulty"`
	ListType        string     `json:"list_type"`
	Position        int        `json:"position"`
	Points          int        `json:"points"`
	VideoURL        *string    `json:"video_url,omitempty"`
	CompletionCount int        `json:"completion_count"`
	CreatedAt       time.Time  `json:"created_at"`
}
