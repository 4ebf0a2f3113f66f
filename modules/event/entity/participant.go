package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ParticipationStatus represents the status of a participation
type ParticipationStatus string

const (
	ParticipationStatusConfirmed ParticipationStatus = "confirmed"
	ParticipationStatusCheckedIn ParticipationStatus = "checked_in"
	ParticipationStatusRemoved   ParticipationStatus = "removed"
)

// Active reports whether the participation still counts toward the event.
func (s ParticipationStatus) Active() bool {
	return s == ParticipationStatusConfirmed || s == ParticipationStatusCheckedIn
}

// Participation links a user to an event (event_participants table).
// Rows are soft-deleted: removal flips status to 'removed', the row stays.
type Participation struct {
	ID        uuid.UUID           `db:"id" json:"id"`
	EventID   uuid.UUID           `db:"event_id" json:"event_id"`
	UserID    uuid.UUID           `db:"user_id" json:"user_id"`
	Status    ParticipationStatus `db:"status" json:"status"`
	JoinedAt  time.Time           `db:"joined_at" json:"joined_at"`
	UpdatedAt time.Time           `db:"updated_at" json:"updated_at"`
}

// ParticipantProfile is a participation joined with the user's profile,
// as returned by the participant search.
type ParticipantProfile struct {
	UserID      uuid.UUID           `db:"user_id" json:"user_id"`
	DisplayName string              `db:"display_name" json:"display_name"`
	Company     *string             `db:"company" json:"company,omitempty"`
	JobTitle    *string             `db:"job_title" json:"job_title,omitempty"`
	Bio         *string             `db:"bio" json:"bio,omitempty"`
	Interests   pq.StringArray      `db:"interests" json:"interests"`
	Status      ParticipationStatus `db:"status" json:"status"`
	JoinedAt    time.Time           `db:"joined_at" json:"joined_at"`
}
