package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/dto"
	"github.com/mintygd/demonlist/internal/model"
	"github.com/mintygd/demonlist/internal/repository"
	"github.com/mintygd/demonlist/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const actionSubmitRecord = "submit_record"

type RecordService interface {
	Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitRecordRequest) (*dto.RecordResponse, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]dto.RecordResponse, error)
	GetReviewQueue(ctx context.Context) ([]dto.AdminRecordResponse, error)
	Approve(ctx context.Context, reviewerID, recordID uuid.UUID) error
	Reject(ctx context.Context, reviewerID, recordID uuid.UUID) error
}

type recordService struct {
	records        repository.RecordRepository
	demons         repository.DemonRepository
	redisClient    *redis.Client
	submitCooldown time.Duration
}

func NewRecordService(records repository.RecordRepository, demons repository.DemonRepository, redisClient *redis.Client, submitCooldown time.Duration) RecordService {
	return &recordService{
		records:        records,
		demons:         demons,
		redisClient:    redisClient,
		submitCooldown: submitCooldown,
	}
}

func (s *recordService) Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitRecordRequest) (*dto.RecordResponse, error) {
	if _, err := s.demons.FindByID(ctx, req.DemonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "demon not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, actionSubmitRecord, s.submitCooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimited
	}

	record := &model.Record{
		UserID:   userID,
		DemonID:  req.DemonID,
		VideoURL: req.VideoURL,
		Status:   model.RecordStatusPending,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	resp := toRecordResponse(record)
	return &resp, nil
}

func (s *recordService) GetByUser(ctx context.Context, userID uuid.UUID) ([]dto.RecordResponse, error) {
	records, err := s.records.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toRecordResponse(&records[i]))
	}

	return responses, nil
}

func (s *recordService) GetReviewQueue(ctx context.Context) ([]dto.AdminRecordResponse, error) {
	records, err := s.records.FindAllWithRelations(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdminRecordResponse, 0, len(records))
	for i := range records {
		r := &records[i]
		responses = append(responses, dto.AdminRecordResponse{
			RecordResponse: toRecordResponse(r),
			User: dto.RecordUserSubset{
				ID:       r.User.ID,
				Username: r.User.Username,
			},
			Demon: dto.RecordDemonSubset{
				ID:         r.Demon.ID,
				Name:       r.Demon.Name,
				Position:   r.Demon.Position,
				Difficulty: r.Demon.Difficulty,
				Points:     r.Demon.Points,
			},
		})
	}

	return responses, nil
}

// Approve moves a pending record to approved and credits the demon with one
// more completion. Reviewing anything but a pending record is rejected.
func (s *recordService) Approve(ctx context.Context, reviewerID, recordID uuid.UUID) error {
	return s.review(ctx, reviewerID, recordID, model.RecordStatusApproved)
}

// Reject moves a pending record to rejected. Completion counts are untouched.
func (s *recordService) Reject(ctx context.Context, reviewerID, recordID uuid.UUID) error {
	return s.review(ctx, reviewerID, recordID, model.RecordStatusRejected)
}

func (s *recordService) review(ctx context.Context, reviewerID, recordID uuid.UUID, status string) error {
	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(0, "record not found", apperror.ErrNotFound)
		}
		return err
	}

	if err := s.records.Review(ctx, recordID, status, reviewerID, time.Now()); err != nil {
		return err
	}

	// The submit cooldown exists to keep the pending queue sane; once the
	// record is reviewed the player may submit again right away.
	if err := ClearRateLimit(ctx, s.redisClient, record.UserID, actionSubmitRecord); err != nil {
		log.Printf("failed to clear submit cooldown for user %s: %v", record.UserID, err)
	}

	return nil
}

func toRecordResponse(r *model.Record) dto.RecordResponse {
	return dto.RecordResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		DemonID:     r.DemonID,
		VideoURL:    r.VideoURL,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
		ReviewedAt:  r.ReviewedAt,
		ReviewedBy:  r.ReviewedBy,
	}
}
