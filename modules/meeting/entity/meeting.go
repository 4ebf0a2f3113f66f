package entity

import (
	"time"

	"github.com/google/uuid"
)

type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "pending"
	MeetingConfirmed MeetingStatus = "confirmed"
	MeetingDeclined  MeetingStatus = "declined"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Open reports whether the meeting still occupies attention: pending requests
// and confirmed bookings can be cancelled, terminal states cannot.
func (s MeetingStatus) Open() bool {
	return s == MeetingPending || s == MeetingConfirmed
}

type Meeting struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	EventID     uuid.UUID     `json:"event_id" db:"event_id"`
	SlotID      uuid.UUID     `json:"slot_id" db:"slot_id"`
	RequesterID uuid.UUID     `json:"requester_id" db:"requester_id"`
	RecipientID uuid.UUID     `json:"recipient_id" db:"recipient_id"`
	Status      MeetingStatus `json:"status" db:"status"`
	Message     *string       `json:"message,omitempty" db:"message"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// MeetingDetail is a meeting joined with its slot window for listing.
type MeetingDetail struct {
	Meeting
	SlotStart time.Time `json:"slot_start" db:"slot_start"`
	SlotEnd   time.Time `json:"slot_end" db:"slot_end"`
}
