package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"ndrop-api/core/errors"
	"ndrop-api/core/logger"
	"ndrop-api/core/storage"
	"ndrop-api/core/utils"
	"ndrop-api/modules/card/dto"
	"ndrop-api/modules/card/entity"
	"ndrop-api/modules/card/repository"

	"github.com/google/uuid"
)

type CardService struct {
	repo     repository.CardRepositoryInterface
	uploader storage.Uploader
}

// CardServiceInterface defines the service contract
type CardServiceInterface interface {
	GetMyCard(ctx context.Context, userID uuid.UUID) (*dto.CardResponse, *errors.AppError)
	UpdateMyCard(ctx context.Context, userID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, *errors.AppError)
	GetBySlug(ctx context.Context, slug string) (*dto.CardResponse, *errors.AppError)
	Collect(ctx context.Context, collectorID uuid.UUID, cardRef string, eventID *uuid.UUID) (*entity.CollectedCard, *errors.AppError)
	ListCollected(ctx context.Context, collectorID uuid.UUID) ([]dto.CollectedCardResponse, *errors.AppError)
	SetFavorite(ctx context.Context, collectorID uuid.UUID, collectedID uuid.UUID, favorite bool) *errors.AppError
	UploadCardImage(ctx context.Context, userID uuid.UUID, filename string, contentType string, body io.Reader) (string, *errors.AppError)

	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
	CleanupSelfCollected(ctx context.Context) (int, error)
}

func NewCardService(repo repository.CardRepositoryInterface, uploader storage.Uploader) CardServiceInterface {
	return &CardService{repo: repo, uploader: uploader}
}

func (s *CardService) GetMyCard(ctx context.Context, userID uuid.UUID) (*dto.CardResponse, *errors.AppError) {
	card, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get card", err)
	}
	if card == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Card not found", nil)
	}

	return dto.ToCardResponse(card), nil
}

func (s *CardService) UpdateMyCard(ctx context.Context, userID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, *errors.AppError) {
	card, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get card", err)
	}
	if card == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Card not found", nil)
	}

	if req.DisplayName != "" {
		card.DisplayName = req.DisplayName
	}
	if req.Company != "" {
		card.Company = &req.Company
	}
	if req.JobTitle != "" {
		card.JobTitle = &req.JobTitle
	}
	if req.Bio != "" {
		card.Bio = &req.Bio
	}
	if req.IsPublic != nil {
		card.IsPublic = *req.IsPublic
	}

	if err := s.repo.Update(ctx, card); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update card", err)
	}

	return dto.ToCardResponse(card), nil
}

// GetBySlug is the public lookup behind QR/share links.
func (s *CardService) GetBySlug(ctx context.Context, slug string) (*dto.CardResponse, *errors.AppError) {
	card, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get card", err)
	}
	if card == nil || !card.IsPublic {
		return nil, errors.NewAppError(errors.ErrNotFound, "Card not found", nil)
	}

	return dto.ToCardResponse(card), nil
}

// Collect saves another user's card. Collecting your own card is rejected,
// and a card can be collected at most once per collector.
func (s *CardService) Collect(ctx context.Context, collectorID uuid.UUID, cardRef string, eventID *uuid.UUID) (*entity.CollectedCard, *errors.AppError) {
	if cardRef == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "card reference is required", nil)
	}

	card, appErr := s.resolveCard(ctx, cardRef)
	if appErr != nil {
		return nil, appErr
	}

	if card.UserID == collectorID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "cannot collect your own card", nil)
	}

	edge := &entity.CollectedCard{
		CollectorID: collectorID,
		CardID:      card.ID,
		EventID:     eventID,
	}

	inserted, err := s.repo.Collect(ctx, edge)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to collect card", err)
	}
	if !inserted {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Card already collected", nil)
	}

	return edge, nil
}

func (s *CardService) ListCollected(ctx context.Context, collectorID uuid.UUID) ([]dto.CollectedCardResponse, *errors.AppError) {
	collected, err := s.repo.ListCollected(ctx, collectorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list collected cards", err)
	}

	result := make([]dto.CollectedCardResponse, 0, len(collected))
	for i := range collected {
		result = append(result, dto.ToCollectedCardResponse(&collected[i]))
	}
	return result, nil
}

func (s *CardService) SetFavorite(ctx context.Context, collectorID uuid.UUID, collectedID uuid.UUID, favorite bool) *errors.AppError {
	updated, err := s.repo.SetFavorite(ctx, collectorID, collectedID, favorite)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to update favorite", err)
	}
	if !updated {
		return errors.NewAppError(errors.ErrNotFound, "Collected card not found", nil)
	}
	return nil
}

func (s *CardService) UploadCardImage(ctx context.Context, userID uuid.UUID, filename string, contentType string, body io.Reader) (string, *errors.AppError) {
	if s.uploader == nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Storage is not configured", nil)
	}

	card, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to get card", err)
	}
	if card == nil {
		return "", errors.NewAppError(errors.ErrNotFound, "Card not found", nil)
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", errors.NewAppError(errors.ErrInvalidInput, "unsupported image type", nil)
	}

	key := fmt.Sprintf("cards/%s/%s%s", userID.String(), utils.GenerateRandomString(12), ext)
	url, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to upload image", err)
	}

	if err := s.repo.UpdateAvatarURL(ctx, userID, url); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to save image URL", err)
	}

	return url, nil
}

func (s *CardService) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	return s.repo.DeleteByEventID(ctx, eventID)
}

// CleanupSelfCollected removes any self-referential edges. Called from the
// maintenance worker.
func (s *CardService) CleanupSelfCollected(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteSelfCollected(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Warn("CardService:CleanupSelfCollected:Removed", "edges", removed)
	}
	return removed, nil
}

func (s *CardService) resolveCard(ctx context.Context, cardRef string) (*entity.BusinessCard, *errors.AppError) {
	var card *entity.BusinessCard
	var err error

	if id, parseErr := uuid.Parse(cardRef); parseErr == nil {
		card, err = s.repo.GetByID(ctx, id)
	} else {
		card, err = s.repo.GetBySlug(ctx, cardRef)
	}

	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get card", err)
	}
	if card == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Card not found", nil)
	}
	return card, nil
}
