package dto

import (
	"time"

	"ndrop-api/modules/meeting/entity"
)

type SlotInput struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	IsBlocked bool      `json:"is_blocked"`
}

type CreateSlotsRequest struct {
	Slots []SlotInput `json:"slots" validate:"required,min=1"`
}

type RequestMeetingRequest struct {
	EventID     string `json:"event_id" validate:"required"`
	SlotID      string `json:"slot_id" validate:"required"`
	RecipientID string `json:"recipient_id" validate:"required"`
	Message     string `json:"message"`
}

const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

type RespondMeetingRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

type MeetingResponse struct {
	ID          string                `json:"id"`
	EventID     string                `json:"event_id"`
	SlotID      string                `json:"slot_id"`
	RequesterID string                `json:"requester_id"`
	RecipientID string                `json:"recipient_id"`
	Status      entity.MeetingStatus  `json:"status"`
	Message     *string               `json:"message,omitempty"`
	SlotStart   *time.Time            `json:"slot_start,omitempty"`
	SlotEnd     *time.Time            `json:"slot_end,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

func ToMeetingResponse(m *entity.Meeting) *MeetingResponse {
	if m == nil {
		return nil
	}
	return &MeetingResponse{
		ID:          m.ID.String(),
		EventID:     m.EventID.String(),
		SlotID:      m.SlotID.String(),
		RequesterID: m.RequesterID.String(),
		RecipientID: m.RecipientID.String(),
		Status:      m.Status,
		Message:     m.Message,
		CreatedAt:   m.CreatedAt,
	}
}

func ToMeetingDetailResponse(m *entity.MeetingDetail) MeetingResponse {
	resp := ToMeetingResponse(&m.Meeting)
	start := m.SlotStart
	end := m.SlotEnd
	resp.SlotStart = &start
	resp.SlotEnd = &end
	return *resp
}
