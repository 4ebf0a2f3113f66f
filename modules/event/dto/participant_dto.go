package dto

import (
	"time"

	"ndrop-api/modules/event/entity"

	"github.com/google/uuid"
)

type JoinEventRequest struct {
	EventID   string `json:"event_id"`
	EventCode string `json:"event_code"`
	UserID    string `json:"user_id"`
}

// EventRef returns whichever reference the client supplied.
func (r *JoinEventRequest) EventRef() string {
	if r.EventCode != "" {
		return r.EventCode
	}
	return r.EventID
}

type ParticipationResponse struct {
	ID       uuid.UUID `json:"id"`
	EventID  uuid.UUID `json:"event_id"`
	UserID   uuid.UUID `json:"user_id"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

func ToParticipationResponse(p *entity.Participation) *ParticipationResponse {
	if p == nil {
		return nil
	}
	return &ParticipationResponse{
		ID:       p.ID,
		EventID:  p.EventID,
		UserID:   p.UserID,
		Status:   string(p.Status),
		JoinedAt: p.JoinedAt,
	}
}

type JoinEventResult struct {
	Participant *ParticipationResponse `json:"participant"`
	Event       *EventResponse         `json:"event"`
}

type ParticipantResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Company     *string   `json:"company,omitempty"`
	JobTitle    *string   `json:"job_title,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Interests   []string  `json:"interests"`
	Status      string    `json:"status"`
	JoinedAt    time.Time `json:"joined_at"`
}

func ToParticipantResponse(p *entity.ParticipantProfile) ParticipantResponse {
	return ParticipantResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Company:     p.Company,
		JobTitle:    p.JobTitle,
		Bio:         p.Bio,
		Interests:   []string(p.Interests),
		Status:      string(p.Status),
		JoinedAt:    p.JoinedAt,
	}
}
