package repository

import (
	"context"
	"database/sql"

	"ndrop-api/core/database"
	"ndrop-api/core/logger"
	"ndrop-api/modules/card/entity"

	"github.com/google/uuid"
)

const cardColumns = `id, user_id, display_name, company, job_title, bio, avatar_url, share_slug, is_public, created_at, updated_at`

type CardRepository struct {
	db database.IDatabase
}

func NewCardRepository(db database.IDatabase) *CardRepository {
	return &CardRepository{db: db}
}

// CardRepositoryInterface defines the repository contract
type CardRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.BusinessCard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BusinessCard, error)
	GetBySlug(ctx context.Context, slug string) (*entity.BusinessCard, error)
	Update(ctx context.Context, card *entity.BusinessCard) error
	UpdateAvatarURL(ctx context.Context, userID uuid.UUID, url string) error

	Collect(ctx context.Context, edge *entity.CollectedCard) (bool, error)
	ListCollected(ctx context.Context, collectorID uuid.UUID) ([]entity.CollectedCardDetail, error)
	SetFavorite(ctx context.Context, collectorID uuid.UUID, collectedID uuid.UUID, favorite bool) (bool, error)
	DeleteSelfCollected(ctx context.Context) (int, error)
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

func (r *CardRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.BusinessCard, error) {
	query := `SELECT ` + cardColumns + ` FROM business_cards WHERE user_id = $1`

	var card entity.BusinessCard
	err := r.db.GetContext(ctx, &card, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CardRepository:GetByUserID", err)
		return nil, err
	}

	return &card, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BusinessCard, error) {
	query := `SELECT ` + cardColumns + ` FROM business_cards WHERE id = $1`

	var card entity.BusinessCard
	err := r.db.GetContext(ctx, &card, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CardRepository:GetByID", err)
		return nil, err
	}

	return &card, nil
}

func (r *CardRepository) GetBySlug(ctx context.Context, slug string) (*entity.BusinessCard, error) {
	query := `SELECT ` + cardColumns + ` FROM business_cards WHERE share_slug = $1`

	var card entity.BusinessCard
	err := r.db.GetContext(ctx, &card, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CardRepository:GetBySlug", err)
		return nil, err
	}

	return &card, nil
}

func (r *CardRepository) Update(ctx context.Context, card *entity.BusinessCard) error {
	query := `
		UPDATE business_cards
		SET display_name = $2, company = $3, job_title = $4, bio = $5, is_public = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.db.ExecContext(ctx, query,
		card.ID, card.DisplayName, card.Company, card.JobTitle, card.Bio, card.IsPublic)
	if err != nil {
		logger.Error("CardRepository:Update", err)
		return err
	}

	return nil
}

func (r *CardRepository) UpdateAvatarURL(ctx context.Context, userID uuid.UUID, url string) error {
	query := `UPDATE business_cards SET avatar_url = $2, updated_at = NOW() WHERE user_id = $1`
	err := r.db.ExecContext(ctx, query, userID, url)
	if err != nil {
		logger.Error("CardRepository:UpdateAvatarURL", err)
		return err
	}
	return nil
}

// Collect inserts the edge once per (collector, card); a duplicate returns
// inserted=false without touching the row.
func (r *CardRepository) Collect(ctx context.Context, edge *entity.CollectedCard) (bool, error) {
	query := `
		INSERT INTO collected_cards (collector_id, card_id, event_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (collector_id, card_id) DO NOTHING
		RETURNING id, collector_id, card_id, event_id, is_favorite, collected_at
	`

	err := r.db.GetContext(ctx, edge, query, edge.CollectorID, edge.CardID, edge.EventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		logger.Error("CardRepository:Collect", err)
		return false, err
	}

	return true, nil
}

func (r *CardRepository) ListCollected(ctx context.Context, collectorID uuid.UUID) ([]entity.CollectedCardDetail, error) {
	query := `
		SELECT cc.id, cc.card_id, cc.event_id, cc.is_favorite, cc.collected_at,
		       bc.display_name, bc.company, bc.job_title, bc.avatar_url, bc.share_slug
		FROM collected_cards cc
		JOIN business_cards bc ON bc.id = cc.card_id
		WHERE cc.collector_id = $1
		ORDER BY cc.is_favorite DESC, cc.collected_at DESC
	`

	var collected []entity.CollectedCardDetail
	err := r.db.SelectContext(ctx, &collected, query, collectorID)
	if err != nil {
		logger.Error("CardRepository:ListCollected", err)
		return nil, err
	}

	return collected, nil
}

func (r *CardRepository) SetFavorite(ctx context.Context, collectorID uuid.UUID, collectedID uuid.UUID, favorite bool) (bool, error) {
	query := `
		UPDATE collected_cards SET is_favorite = $3
		WHERE id = $1 AND collector_id = $2
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, query, collectedID, collectorID, favorite)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		logger.Error("CardRepository:SetFavorite", err)
		return false, err
	}

	return true, nil
}

// DeleteSelfCollected removes edges whose collector owns the pointed-at card.
// The application rejects these on write; this repairs any that slip through.
func (r *CardRepository) DeleteSelfCollected(ctx context.Context) (int, error) {
	query := `
		WITH deleted AS (
			DELETE FROM collected_cards cc
			USING business_cards bc
			WHERE cc.card_id = bc.id AND cc.collector_id = bc.user_id
			RETURNING cc.id
		)
		SELECT COUNT(*) FROM deleted
	`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		logger.Error("CardRepository:DeleteSelfCollected", err)
		return 0, err
	}

	return count, nil
}

func (r *CardRepository) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	query := `DELETE FROM collected_cards WHERE event_id = $1`
	err := r.db.ExecContext(ctx, query, eventID)
	if err != nil {
		logger.Error("CardRepository:DeleteByEventID", err)
		return err
	}
	return nil
}
