package entity

import (
	"time"

	coreEntity "ndrop-api/core/entity"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
)

// Event represents a networking event (events table)
type Event struct {
	ID                  uuid.UUID   `db:"id" json:"id"`
	Code                string      `db:"code" json:"code"`
	Title               string      `db:"title" json:"title"`
	Description         *string     `db:"description" json:"description,omitempty"`
	Location            *string     `db:"location" json:"location,omitempty"`
	StartTime           time.Time   `db:"start_time" json:"start_time"`
	EndTime             time.Time   `db:"end_time" json:"end_time"`
	MaxParticipants     int         `db:"max_participants" json:"max_participants"`
	CurrentParticipants int         `db:"current_participants" json:"current_participants"`
	Status              EventStatus `db:"status" json:"status"`
	CreatedBy           *uuid.UUID  `db:"created_by" json:"created_by,omitempty"`
	CreatedAt           time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at" json:"updated_at"`
}

type PaginatedEventEntity = coreEntity.Pagination[Event]
