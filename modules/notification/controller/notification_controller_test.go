package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ndrop-api/core/constants"
	apperrors "ndrop-api/core/errors"
	"ndrop-api/core/params"
	"ndrop-api/core/utils"
	"ndrop-api/modules/notification/dto"
	"ndrop-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationService struct {
	markedIDs []uuid.UUID
}

func (f *fakeNotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	return nil
}

func (f *fakeNotificationService) NotifyUser(ctx context.Context, userID uuid.UUID, notifType string, title string, message string, relatedEventID *uuid.UUID) error {
	return nil
}

func (f *fakeNotificationService) NotifyEventParticipants(ctx context.Context, eventID uuid.UUID, title string, message string, senderID *uuid.UUID) (int, *apperrors.AppError) {
	return 0, nil
}

func (f *fakeNotificationService) Broadcast(ctx context.Context, title string, message string, senderID *uuid.UUID) *apperrors.AppError {
	return nil
}

func (f *fakeNotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return &entity.PaginatedNotificationEntity{}, nil
}

func (f *fakeNotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	f.markedIDs = append(f.markedIDs, ids...)
	return nil
}

func (f *fakeNotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeNotificationService) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	return nil
}

func markReadServer(svc *fakeNotificationService, userID uuid.UUID) *echo.Echo {
	e := echo.New()
	ctrl := NewNotificationController(svc)
	e.PUT("/notifications/mark-read", ctrl.MarkAsRead, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(constants.ContextTokenData, &utils.TokenData{UserID: userID})
			return next(c)
		}
	})
	return e
}

func doMarkRead(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/notifications/mark-read", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMarkAsRead(t *testing.T) {
	t.Run("valid ids reach the service", func(t *testing.T) {
		svc := &fakeNotificationService{}
		id := uuid.New()
		rec := doMarkRead(markReadServer(svc, uuid.New()), `{"ids":["`+id.String()+`"]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []uuid.UUID{id}, svc.markedIDs)
	})

	t.Run("a non-uuid id is a bad request, not a server error", func(t *testing.T) {
		svc := &fakeNotificationService{}
		rec := doMarkRead(markReadServer(svc, uuid.New()), `{"ids":["not-a-uuid"]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.markedIDs)
	})
}
