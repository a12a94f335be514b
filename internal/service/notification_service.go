package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
)

var (
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrNotificationNotOwner = errors.New("只能操作本人的通知")
)

// NotificationService 通知业务接口
type NotificationService interface {
	List(ctx context.Context, userID string, q *dto.ListNotificationsQuery) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID string, q *dto.ListNotificationsQuery) ([]dto.NotificationResponse, int64, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := s.repo.Notification.ListByUser(ctx, userID, q.UnreadOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		list = append(list, *toNotificationResponse(&items[i]))
	}
	return list, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.repo.Notification.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != userID {
		return ErrNotificationNotOwner
	}
	return s.repo.Notification.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

func toNotificationResponse(n *model.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:          n.NotificationID,
		Type:        n.Type,
		Title:       n.Title,
		Content:     n.Content,
		IsRead:      n.IsRead,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}
