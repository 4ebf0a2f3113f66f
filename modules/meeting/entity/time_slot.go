package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a bookable window inside an event, defined by an admin.
type TimeSlot struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`
	IsBlocked bool      `json:"is_blocked" db:"is_blocked"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TimeSlotAvailability is a slot with its booked state derived from
// confirmed meetings.
type TimeSlotAvailability struct {
	TimeSlot
	IsBooked bool `json:"is_booked" db:"is_booked"`
}
