package dto

import "github.com/google/uuid"

type LeaderboardEntry struct {
	Rank             int       `json:"rank"`
	UserID           uuid.UUID `json:"user_id"`
	Username         string    `json:"username"`
	AvatarURL        *string   `json:"avatar_url,omitempty"`
	Completions      int       `json:"completions"`
	CompletionPoints int       `json:"completion_points"`
	VerifierPoints   int       `json:"verifier_points"`
	TotalPoints      int       `json:"total_points"`
}
