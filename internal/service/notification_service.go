package service

import (
	"context"
	"encoding/json"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/model"
	"tabnote-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const defaultNotificationLimit = 50

type INotificationService interface {
	Notify(ctx context.Context, userId uuid.UUID, typeCode, title, message string, metadata map[string]interface{}) error
	List(ctx context.Context, userId uuid.UUID) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory) INotificationService {
	return &notificationService{uowFactory: uowFactory}
}

func (s *notificationService) Notify(ctx context.Context, userId uuid.UUID, typeCode, title, message string, metadata map[string]interface{}) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notification := &model.Notification{
		UserID:   userId,
		TypeCode: typeCode,
		Title:    title,
		Message:  message,
	}

	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		notification.Metadata = datatypes.JSON(raw)
	}

	return uow.NotificationRepository().Create(ctx, notification)
}

func (s *notificationService) List(ctx context.Context, userId uuid.UUID) ([]dto.NotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notifications, err := uow.NotificationRepository().ListByUser(ctx, userId, defaultNotificationLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		var metadata map[string]interface{}
		if len(n.Metadata) > 0 {
			_ = json.Unmarshal(n.Metadata, &metadata)
		}
		responses = append(responses, dto.NotificationResponse{
			Id:        n.ID,
			TypeCode:  n.TypeCode,
			Title:     n.Title,
			Message:   n.Message,
			Metadata:  metadata,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return responses, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkRead(ctx, id, userId)
}
