package dto

import (
	"time"

	"ndrop-api/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID             uuid.UUID              `json:"id"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Type           string                 `json:"type"`
	Data           map[string]interface{} `json:"data"`
	RelatedEventID *uuid.UUID             `json:"related_event_id,omitempty"`
	ReadAt         *time.Time             `json:"read_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.Type,
		Data:           map[string]interface{}(n.Data),
		RelatedEventID: n.RelatedEventID,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
}

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type CreateNotificationRequest struct {
	UserID         uuid.UUID              `json:"user_id"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Type           string                 `json:"type"`
	Data           map[string]interface{} `json:"data"`
	RelatedEventID *uuid.UUID             `json:"related_event_id,omitempty"`
	SenderID       *uuid.UUID             `json:"sender_id,omitempty"`
}
