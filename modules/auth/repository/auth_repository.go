package repository

import (
	"context"
	"database/sql"

	"ndrop-api/core/database"
	"ndrop-api/core/logger"
	"ndrop-api/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AuthRepository handles profile and OAuth state database operations
type AuthRepository struct {
	DB database.IDatabase
}

// NewAuthRepository creates a new repository instance
func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the repository contract
type AuthRepositoryInterface interface {
	GetProfileByEmail(ctx context.Context, email string) (*entity.Profile, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	CreateProfileWithCard(ctx context.Context, profile *entity.Profile, cardSlug string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, profile *entity.Profile) error

	SaveOAuthState(ctx context.Context, state *entity.OAuthState) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

const profileColumns = `id, email, display_name, avatar_url, company, job_title, bio, interests, role, created_at, updated_at`

func (r *AuthRepository) GetProfileByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	var profile entity.Profile
	err := r.DB.GetContext(ctx, &profile, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetProfileByEmail", err)
		return nil, err
	}

	return &profile, nil
}

func (r *AuthRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var profile entity.Profile
	err := r.DB.GetContext(ctx, &profile, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetProfileByID", err)
		return nil, err
	}

	return &profile, nil
}

// CreateProfileWithCard provisions a new account. The profile and its business
// card are written in one transaction so a signed-in user always has a card.
func (r *AuthRepository) CreateProfileWithCard(ctx context.Context, profile *entity.Profile, cardSlug string) (*entity.Profile, error) {
	profileQuery := `
		INSERT INTO profiles (email, display_name, avatar_url, interests, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + profileColumns + `
	`
	cardQuery := `
		INSERT INTO business_cards (user_id, display_name, avatar_url, share_slug, is_public)
		VALUES ($1, $2, $3, $4, true)
	`

	var created entity.Profile
	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &created, profileQuery,
			profile.Email, profile.DisplayName, profile.AvatarURL, profile.Interests, profile.Role); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, cardQuery,
			created.ID, created.DisplayName, created.AvatarURL, cardSlug)
		return err
	})
	if err != nil {
		logger.Error("AuthRepository:CreateProfileWithCard", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) UpdateProfile(ctx context.Context, profile *entity.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, company = $3, job_title = $4, bio = $5, interests = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		profile.ID, profile.DisplayName, profile.Company, profile.JobTitle,
		profile.Bio, profile.Interests)
	if err != nil {
		logger.Error("AuthRepository:UpdateProfile", err)
		return err
	}
	return nil
}

func (r *AuthRepository) SaveOAuthState(ctx context.Context, state *entity.OAuthState) error {
	query := `INSERT INTO oauth_states (state, expires_at) VALUES ($1, $2)`

	err := r.DB.ExecContext(ctx, query, state.State, state.ExpiresAt)
	if err != nil {
		logger.Error("AuthRepository:SaveOAuthState", err)
		return err
	}
	return nil
}

// ConsumeOAuthState deletes the state token and reports whether it existed
// unexpired. Delete-and-check keeps the token one-time use.
func (r *AuthRepository) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	query := `DELETE FROM oauth_states WHERE state = $1 AND expires_at > NOW() RETURNING state`

	var consumed string
	err := r.DB.GetContext(ctx, &consumed, query, state)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		logger.Error("AuthRepository:ConsumeOAuthState", err)
		return false, err
	}

	return true, nil
}
