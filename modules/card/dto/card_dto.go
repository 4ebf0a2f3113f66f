package dto

import (
	"time"

	"ndrop-api/modules/card/entity"

	"github.com/google/uuid"
)

type UpdateCardRequest struct {
	DisplayName string `json:"display_name"`
	Company     string `json:"company"`
	JobTitle    string `json:"job_title"`
	Bio         string `json:"bio"`
	IsPublic    *bool  `json:"is_public"`
}

type CardResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Company     *string   `json:"company,omitempty"`
	JobTitle    *string   `json:"job_title,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	ShareSlug   string    `json:"share_slug"`
	IsPublic    bool      `json:"is_public"`
}

func ToCardResponse(c *entity.BusinessCard) *CardResponse {
	if c == nil {
		return nil
	}
	return &CardResponse{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		Company:     c.Company,
		JobTitle:    c.JobTitle,
		Bio:         c.Bio,
		AvatarURL:   c.AvatarURL,
		ShareSlug:   c.ShareSlug,
		IsPublic:    c.IsPublic,
	}
}

type CollectCardRequest struct {
	CardID    string `json:"card_id"`
	ShareSlug string `json:"share_slug"`
	EventID   string `json:"event_id"`
}

// CardRef returns whichever reference the client supplied.
func (r *CollectCardRequest) CardRef() string {
	if r.ShareSlug != "" {
		return r.ShareSlug
	}
	return r.CardID
}

type SetFavoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

type CollectedCardResponse struct {
	ID          uuid.UUID  `json:"id"`
	CardID      uuid.UUID  `json:"card_id"`
	EventID     *uuid.UUID `json:"event_id,omitempty"`
	IsFavorite  bool       `json:"is_favorite"`
	CollectedAt time.Time  `json:"collected_at"`
	DisplayName string     `json:"display_name"`
	Company     *string    `json:"company,omitempty"`
	JobTitle    *string    `json:"job_title,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	ShareSlug   string     `json:"share_slug"`
}

func ToCollectedCardResponse(c *entity.CollectedCardDetail) CollectedCardResponse {
	return CollectedCardResponse{
		ID:          c.ID,
		CardID:      c.CardID,
		EventID:     c.EventID,
		IsFavorite:  c.IsFavorite,
		CollectedAt: c.CollectedAt,
		DisplayName: c.DisplayName,
		Company:     c.Company,
		JobTitle:    c.JobTitle,
		AvatarURL:   c.AvatarURL,
		ShareSlug:   c.ShareSlug,
	}
}

type UploadImageResponse struct {
	AvatarURL string `json:"avatar_url"`
}
