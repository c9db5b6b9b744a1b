package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/model"
	"gorm.io/gorm"
)

// UserPointTotal is one aggregation row: points a user earned from a single
// source (completions or verifications).
type UserPointTotal struct {
	UserID      uuid.UUID
	Points      int
	Completions int
}

type LeaderboardRepository interface {
	// CompletionTotals sums the points of every demon each user holds an
	// approved record on.
	CompletionTotals(ctx context.Context) ([]UserPointTotal, error)
	// VerifierTotals sums the points of every demon each user is credited
	// with verifying.
	VerifierTotals(ctx context.Context) ([]UserPointTotal, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) CompletionTotals(ctx context.Context) ([]UserPointTotal, error) {
	var totals []UserPointTotal
	if err := r.db.WithContext(ctx).
		Model(&model.Record{}).
		Select("records.user_id AS user_id, COALESCE(SUM(demons.points), 0) AS points, COUNT(records.id) AS completions").
		Joins("JOIN demons ON demons.id = records.demon_id").
		Where("records.status = ?", model.RecordStatusApproved).
		Group("records.user_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	return totals, nil
}

func (r *leaderboardRepository) VerifierTotals(ctx context.Context) ([]UserPointTotal, error) {
	var totals []UserPointTotal
	if err := r.db.WithContext(ctx).
		Model(&model.Demon{}).
		Select("demons.verifier_id AS user_id, COALESCE(SUM(demons.points), 0) AS points, 0 AS completions").
		Where("demons.verifier_id IS NOT NULL").
		Group("demons.verifier_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	return totals, nil
}
