package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is an attendee account, provisioned on first Google sign-in.
type Profile struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Email       string         `json:"email" db:"email"`
	DisplayName string         `json:"display_name" db:"display_name"`
	AvatarURL   *string        `json:"avatar_url,omitempty" db:"avatar_url"`
	Company     *string        `json:"company,omitempty" db:"company"`
	JobTitle    *string        `json:"job_title,omitempty" db:"job_title"`
	Bio         *string        `json:"bio,omitempty" db:"bio"`
	Interests   pq.StringArray `json:"interests" db:"interests"`
	Role        string         `json:"role" db:"role"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
