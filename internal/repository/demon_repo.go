package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/model"
	"gorm.io/gorm"
)

type DemonRepository interface {
	Create(ctx context.Context, demon *model.Demon) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Demon, error)
	FindAll(ctx context.Context) ([]model.Demon, error)
	FindByListType(ctx context.Context, listType string) ([]model.Demon, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// SetPosition writes only the position column; used for the quarantine
	// phase of a reorder where points are not yet final.
	SetPosition(ctx context.Context, id uuid.UUID, position int) error
	// SetPlacement writes position and points together.
	SetPlacement(ctx context.Context, id uuid.UUID, position, points int) error
	IncrementCompletionCount(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Transact runs fn against a repository bound to a single database
	// transaction. Every write fn performs commits or rolls back atomically.
	Transact(ctx context.Context, fn func(repo DemonRepository) error) error
}

type demonRepository struct {
	db *gorm.DB
}

func NewDemonRepository(db *gorm.DB) DemonRepository {
	return &demonRepository{db: db}
}

func (r *demonRepository) Create(ctx context.Context, demon *model.Demon) error {
	return r.db.WithContext(ctx).Create(demon).Error
}

func (r *demonRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Demon, error) {
	var demon model.Demon
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&demon).Error; err != nil {
		return nil, err
	}

	return &demon, nil
}

func (r *demonRepository) FindAll(ctx context.Context) ([]model.Demon, error) {
	var demons []model.Demon
	if err := r.db.WithContext(ctx).
		Order("list_type, position").
		Find(&demons).Error; err != nil {
		return nil, err
	}

	return demons, nil
}

func (r *demonRepository) FindByListType(ctx context.Context, listType string) ([]model.Demon, error) {
	var demons []model.Demon
	if err := r.db.WithContext(ctx).
		Where("list_type = ?", listType).
		Order("position").
		Find(&demons).Error; err != nil {
		return nil, err
	}

	return demons, nil
}

func (r *demonRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Demon{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *demonRepository) SetPosition(ctx context.Context, id uuid.UUID, position int) error {
	return r.db.WithContext(ctx).
		Model(&model.Demon{}).
		Where("id = ?", id).
		Update("position", position).Error
}

func (r *demonRepository) SetPlacement(ctx context.Context, id uuid.UUID, position, points int) error {
	return r.db.WithContext(ctx).
		Model(&model.Demon{}).
		Where("id = ?", id).
		Updates(map[string]any{"position": position, "points": points}).Error
}

func (r *demonRepository) IncrementCompletionCount(ctx context.Context, id uuid.UUID, delta int) error {
	// Increment in place so concurrent reviews cannot lose an update.
	return r.db.WithContext(ctx).
		Model(&model.Demon{}).
		Where("id = ?", id).
		Update("completion_count", gorm.Expr("completion_count + ?", delta)).Error
}

func (r *demonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Demon{}, "id = ?", id).Error
}

func (r *demonRepository) Transact(ctx context.Context, fn func(repo DemonRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&demonRepository{db: tx})
	})
}
