package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/dto"
	"github.com/mintygd/demonlist/internal/model"
	"github.com/mintygd/demonlist/internal/repository"
	"github.com/mintygd/demonlist/pkg/apperror"
	"gorm.io/gorm"
)

type AdminService interface {
	GetAllUsers(ctx context.Context) ([]dto.AdminUserResponse, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, roleName string) (*dto.AdminUserResponse, error)
}

type adminService struct {
	repo repository.UserRepository
}

func NewAdminService(repo repository.UserRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]dto.AdminUserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdminUserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toAdminUserResponse(user))
	}

	return responses, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, id uuid.UUID, roleName string) (*dto.AdminUserResponse, error) {
	if _, err := s.repo.FindByID(ctx, id.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, fmt.Sprintf("role %s not found", roleName), apperror.ErrInvalidInput)
		}
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, id, role.ID); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	resp := toAdminUserResponse(updated)
	return &resp, nil
}

func toAdminUserResponse(user *model.User) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role.Name,
		CreatedAt: user.CreatedAt,
	}
}
