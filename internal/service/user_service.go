package service

import (
	"context"
	"errors"
	"strings"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/repository/specification"
	"tabnote-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type userService struct {
	uowFactory          unitofwork.RepositoryFactory
	notificationService INotificationService
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, notificationService INotificationService) IUserService {
	return &userService{
		uowFactory:          uowFactory,
		notificationService: notificationService,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return &dto.ProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	fields := make(map[string]interface{})

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, errors.New("full name cannot be empty")
		}
		fields["full_name"] = name
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if len(fields) > 0 {
		if err := uow.UserRepository().UpdateFields(ctx, userId, fields); err != nil {
			return nil, err
		}

		if s.notificationService != nil {
			_ = s.notificationService.Notify(ctx, userId, "PROFILE_UPDATED", "Profile updated",
				"Your profile details were changed.", nil)
		}
	}

	return s.GetProfile(ctx, userId)
}
