package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	coreEntity "ndrop-api/core/entity"

	"github.com/google/uuid"
)

// TargetType addresses a notification to one user or to everyone.
type TargetType string

const (
	TargetSpecific TargetType = "specific"
	TargetAll      TargetType = "all"
)

// Notification is immutable once created, except for read_at.
type Notification struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	TargetType     TargetType `db:"target_type" json:"target_type"`
	Title          string     `db:"title" json:"title"`
	Message        string     `db:"message" json:"message"`
	Type           string     `db:"type" json:"type"`
	Data           JSONB      `db:"data" json:"data"`
	RelatedEventID *uuid.UUID `db:"related_event_id" json:"related_event_id,omitempty"`
	SenderID       *uuid.UUID `db:"sender_id" json:"sender_id,omitempty"`
	ReadAt         *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(JSONB{})
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedNotificationEntity = coreEntity.Pagination[Notification]
