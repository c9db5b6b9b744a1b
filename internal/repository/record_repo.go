package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/model"
	"github.com/mintygd/demonlist/pkg/apperror"
	"gorm.io/gorm"
)

type RecordRepository interface {
	Create(ctx context.Context, record *model.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Record, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Record, error)
	FindAllWithRelations(ctx context.Context) ([]model.Record, error)
	// Review moves a pending record to the given status and, on approval,
	// bumps the demon's completion count in the same transaction. Returns
	// apperror.ErrAlreadyReviewed when the record is no longer pending.
	Review(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, reviewedAt time.Time) error
}

type recordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(ctx context.Context, record *model.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Record, error) {
	var record model.Record
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *recordRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Record, error) {
	var records []model.Record
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *recordRepository) FindAllWithRelations(ctx context.Context) ([]model.Record, error) {
	var records []model.Record
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Demon").
		Order("submitted_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *recordRepository) Review(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, reviewedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record model.Record
		if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
			return err
		}

		// Guard the transition inside the transaction: only a pending record
		// may be reviewed, so an approval can never double-increment the
		// completion count.
		res := tx.Model(&model.Record{}).
			Where("id = ? AND status = ?", id, model.RecordStatusPending).
			Updates(map[string]any{
				"status":      status,
				"reviewed_at": reviewedAt,
				"reviewed_by": reviewerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrAlreadyReviewed
		}

		if status == model.RecordStatusApproved {
			return tx.Model(&model.Demon{}).
				Where("id = ?", record.DemonID).
				Update("completion_count", gorm.Expr("completion_count + ?", 1)).Error
		}

		return nil
	})
}
