package dto

import (
	"time"

	"ndrop-api/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	MaxParticipants int       `json:"max_participants"`
}

type UpdateEventRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	MaxParticipants int        `json:"max_participants"`
	Status          string     `json:"status"`
}

type EventResponse struct {
	ID                  uuid.UUID `json:"id"`
	Code                string    `json:"code"`
	Title               string    `json:"title"`
	Description         *string   `json:"description,omitempty"`
	Location            *string   `json:"location,omitempty"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	Status              string    `json:"status"`
}

func ToEventResponse(e *entity.Event) *EventResponse {
	if e == nil {
		return nil
	}
	return &EventResponse{
		ID:                  e.ID,
		Code:                e.Code,
		Title:               e.Title,
		Description:         e.Description,
		Location:            e.Location,
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: e.CurrentParticipants,
		Status:              string(e.Status),
	}
}

type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

type ConnectionCountResponse struct {
	TotalConnections int `json:"total_connections"`
}
