package entity

import (
	"time"

	"github.com/google/uuid"
)

// BusinessCard is a user-owned public profile card (business_cards table).
// Exactly one card per user.
type BusinessCard struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Company     *string   `db:"company" json:"company,omitempty"`
	JobTitle    *string   `db:"job_title" json:"job_title,omitempty"`
	Bio         *string   `db:"bio" json:"bio,omitempty"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	ShareSlug   string    `db:"share_slug" json:"share_slug"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CollectedCard is a directed edge: collector saved someone's card
// (collected_cards table).
type CollectedCard struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CollectorID uuid.UUID  `db:"collector_id" json:"collector_id"`
	CardID      uuid.UUID  `db:"card_id" json:"card_id"`
	EventID     *uuid.UUID `db:"event_id" json:"event_id,omitempty"`
	IsFavorite  bool       `db:"is_favorite" json:"is_favorite"`
	CollectedAt time.Time  `db:"collected_at" json:"collected_at"`
}

// CollectedCardDetail is the edge joined with the card it points at.
type CollectedCardDetail struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CardID      uuid.UUID  `db:"card_id" json:"card_id"`
	EventID     *uuid.UUID `db:"event_id" json:"event_id,omitempty"`
	IsFavorite  bool       `db:"is_favorite" json:"is_favorite"`
	CollectedAt time.Time  `db:"collected_at" json:"collected_at"`
	DisplayName string     `db:"display_name" json:"display_name"`
	Company     *string    `db:"company" json:"company,omitempty"`
	JobTitle    *string    `db:"job_title" json:"job_title,omitempty"`
	AvatarURL   *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	ShareSlug   string     `db:"share_slug" json:"share_slug"`
}
