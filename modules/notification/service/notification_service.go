package service

import (
	"context"

	"ndrop-api/core/cache"
	"ndrop-api/core/errors"
	"ndrop-api/core/logger"
	"ndrop-api/core/params"
	"ndrop-api/modules/notification/dto"
	"ndrop-api/modules/notification/entity"
	"ndrop-api/modules/notification/repository"

	"github.com/google/uuid"
)

const noticeType = "event_notice"

// ParticipantSource resolves the confirmed participants of an event.
// Implemented by the event repository; wired in at module init.
type ParticipantSource interface {
	GetConfirmedParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

type NotificationService struct {
	repo         repository.NotificationRepositoryInterface
	participants ParticipantSource
	cache        cache.Cache
}

// NotificationServiceInterface defines the service contract
type NotificationServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) error
	NotifyUser(ctx context.Context, userID uuid.UUID, notifType string, title string, message string, relatedEventID *uuid.UUID) error
	NotifyEventParticipants(ctx context.Context, eventID uuid.UUID, title string, message string, senderID *uuid.UUID) (int, *errors.AppError)
	Broadcast(ctx context.Context, title string, message string, senderID *uuid.UUID) *errors.AppError
	GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, participants ParticipantSource, cache cache.Cache) NotificationServiceInterface {
	return &NotificationService{
		repo:         repo,
		participants: participants,
		cache:        cache,
	}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	userID := req.UserID
	notif := &entity.Notification{
		UserID:         &userID,
		TargetType:     entity.TargetSpecific,
		Title:          req.Title,
		Message:        req.Message,
		Type:           req.Type,
		Data:           entity.JSONB(req.Data),
		RelatedEventID: req.RelatedEventID,
		SenderID:       req.SenderID,
	}

	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}

	s.invalidateUnread(ctx, userID)
	return nil
}

// NotifyUser addresses a single user. Used for meeting request and response
// notifications.
func (s *NotificationService) NotifyUser(ctx context.Context, userID uuid.UUID, notifType string, title string, message string, relatedEventID *uuid.UUID) error {
	return s.Create(ctx, &dto.CreateNotificationRequest{
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           notifType,
		RelatedEventID: relatedEventID,
	})
}

// NotifyEventParticipants inserts one notification row per confirmed
// participant and returns the recipient count. Zero participants is a
// success with zero recipients, not an error.
func (s *NotificationService) NotifyEventParticipants(ctx context.Context, eventID uuid.UUID, title string, message string, senderID *uuid.UUID) (int, *errors.AppError) {
	ids, err := s.participants.GetConfirmedParticipantIDs(ctx, eventID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to resolve participants", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	notifications := make([]entity.Notification, 0, len(ids))
	for _, id := range ids {
		userID := id
		notifications = append(notifications, entity.Notification{
			UserID:         &userID,
			TargetType:     entity.TargetSpecific,
			Title:          title,
			Message:        message,
			Type:           noticeType,
			Data:           entity.JSONB{},
			RelatedEventID: &eventID,
			SenderID:       senderID,
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to create notifications", err)
	}

	s.invalidateUnread(ctx, ids...)
	return len(ids), nil
}

// Broadcast creates a single row addressed to everyone.
func (s *NotificationService) Broadcast(ctx context.Context, title string, message string, senderID *uuid.UUID) *errors.AppError {
	notif := &entity.Notification{
		TargetType: entity.TargetAll,
		Title:      title,
		Message:    message,
		Type:       noticeType,
		Data:       entity.JSONB{},
		SenderID:   senderID,
	}

	if err := s.repo.Create(ctx, notif); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to create notification", err)
	}
	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.cache != nil {
		if count, ok, err := s.cache.GetUnreadCount(ctx, userID); err == nil && ok {
			return count, nil
		}
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetUnreadCount(ctx, userID, count); err != nil {
			logger.Warn("NotificationService:CountUnread:CacheSet", "error", err)
		}
	}
	return count, nil
}

func (s *NotificationService) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	return s.repo.DeleteByEventID(ctx, eventID)
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUnreadCount(ctx, userIDs...); err != nil {
		logger.Warn("NotificationService:InvalidateUnread", "error", err)
	}
}
