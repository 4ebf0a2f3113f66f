package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ndrop-api/core/constants"
	"ndrop-api/core/database"
	"ndrop-api/core/logger"
	"ndrop-api/core/params"
	"ndrop-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// errAlreadyJoined aborts the join transaction when the conditional insert
// hits the uniqueness index. Internal to the repository; callers see the
// inserted flag instead.
var errAlreadyJoined = errors.New("participation already exists")

// EventRepository handles event, participation and feedback database operations
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	// Event CRUD (events table)
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetByCode(ctx context.Context, code string) (*entity.Event, error)
	List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedEventEntity, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Participations (event_participants table)
	Join(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.Participation, bool, error)
	GetParticipationByID(ctx context.Context, id uuid.UUID) (*entity.Participation, error)
	RemoveParticipation(ctx context.Context, id uuid.UUID) (*entity.Participation, error)
	CheckIn(ctx context.Context, id uuid.UUID) (*entity.Participation, error)
	GetConfirmedParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	SearchParticipants(ctx context.Context, eventID uuid.UUID, excludeUserID uuid.UUID, search string, tags []string) ([]entity.ParticipantProfile, error)
	DeleteParticipationsByEventID(ctx context.Context, eventID uuid.UUID) error
	ReconcileParticipantCounts(ctx context.Context) (int, error)

	// Connections (collected_cards table, read-only)
	CountConnectionsInWindow(ctx context.Context, userIDs []uuid.UUID, start time.Time, end time.Time) (int, error)

	// Feedback (event_feedback table)
	CreateFeedback(ctx context.Context, fb *entity.Feedback) error
	DeleteFeedbackByEventID(ctx context.Context, eventID uuid.UUID) error
}

// ===================== Event CRUD =====================

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (code, title, description, location, start_time, end_time,
		                    max_participants, current_participants, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
		RETURNING id, code, title, description, location, start_time, end_time,
		          max_participants, current_participants, status, created_by, created_at, updated_at
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Code, event.Title, event.Description, event.Location,
		event.StartTime, event.EndTime, event.MaxParticipants, event.Status, event.CreatedBy)
	if err != nil {
		logger.Error("EventRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, code, title, description, location, start_time, end_time,
		       max_participants, current_participants, status, created_by, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetByCode(ctx context.Context, code string) (*entity.Event, error) {
	query := `
		SELECT id, code, title, description, location, start_time, end_time,
		       max_participants, current_participants, status, created_by, created_at, updated_at
		FROM events WHERE code = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByCode", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) List(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedEventEntity, error) {
	offset := (queryParams.PageNumber - 1) * queryParams.PageSize

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, `SELECT COUNT(*) FROM events`)
	if err != nil {
		logger.Error("EventRepository:List:Count", err)
		return nil, err
	}

	query := `
		SELECT id, code, title, description, location, start_time, end_time,
		       max_participants, current_participants, status, created_by, created_at, updated_at
		FROM events
		ORDER BY start_time DESC
		LIMIT $1 OFFSET $2
	`

	var events []entity.Event
	err = r.DB.SelectContext(ctx, &events, query, queryParams.PageSize, offset)
	if err != nil {
		logger.Error("EventRepository:List:Select", err)
		return nil, err
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: totalItems,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}

func (r *EventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, start_time = $5, end_time = $6,
		    max_participants = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Location,
		event.StartTime, event.EndTime, event.MaxParticipants, event.Status)
	if err != nil {
		logger.Error("EventRepository:Update", err)
		return err
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:Delete", err)
		return err
	}
	return nil
}

// ===================== Participations =====================

// Join inserts a confirmed participation and increments the event counter in
// one transaction. The partial unique index on (event_id, user_id) for
// non-removed rows is the arbiter: if it fires, nothing is written and the
// inserted flag comes back false.
func (r *EventRepository) Join(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.Participation, bool, error) {
	var participation entity.Participation

	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO event_participants (event_id, user_id, status)
			VALUES ($1, $2, 'confirmed')
			ON CONFLICT (event_id, user_id) WHERE status <> 'removed' DO NOTHING
			RETURNING id, event_id, user_id, status, joined_at, updated_at
		`
		if err := tx.GetContext(ctx, &participation, insert, eventID, userID); err != nil {
			if err == sql.ErrNoRows {
				return errAlreadyJoined
			}
			return err
		}

		increment := `
			UPDATE events
			SET current_participants = current_participants + 1, updated_at = NOW()
			WHERE id = $1
		`
		_, err := tx.ExecContext(ctx, increment, eventID)
		return err
	})

	if err == errAlreadyJoined {
		return nil, false, nil
	}
	if err != nil {
		logger.Error("EventRepository:Join", err)
		return nil, false, err
	}

	return &participation, true, nil
}

func (r *EventRepository) GetParticipationByID(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	query := `
		SELECT id, event_id, user_id, status, joined_at, updated_at
		FROM event_participants WHERE id = $1
	`

	var participation entity.Participation
	err := r.DB.GetContext(ctx, &participation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetParticipationByID", err)
		return nil, err
	}

	return &participation, nil
}

// RemoveParticipation soft-deletes the participation and, when the prior
// status still counted toward the event, decrements the counter (floored at
// zero) in the same transaction. Returns nil when the row does not exist.
func (r *EventRepository) RemoveParticipation(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	var removed *entity.Participation

	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		var current entity.Participation
		lock := `
			SELECT id, event_id, user_id, status, joined_at, updated_at
			FROM event_participants WHERE id = $1 FOR UPDATE
		`
		if err := tx.GetContext(ctx, &current, lock, id); err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}

		update := `UPDATE event_participants SET status = 'removed', updated_at = NOW() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, update, id); err != nil {
			return err
		}

		if current.Status.Active() {
			decrement := `
				UPDATE events
				SET current_participants = GREATEST(current_participants - 1, 0), updated_at = NOW()
				WHERE id = $1
			`
			if _, err := tx.ExecContext(ctx, decrement, current.EventID); err != nil {
				return err
			}
		}

		current.Status = entity.ParticipationStatusRemoved
		removed = &current
		return nil
	})

	if err != nil {
		logger.Error("EventRepository:RemoveParticipation", err)
		return nil, err
	}

	return removed, nil
}

func (r *EventRepository) CheckIn(ctx context.Context, id uuid.UUID) (*entity.Participation, error) {
	query := `
		UPDATE event_participants
		SET status = 'checked_in', updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed'
		RETURNING id, event_id, user_id, status, joined_at, updated_at
	`

	var participation entity.Participation
	err := r.DB.GetContext(ctx, &participation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:CheckIn", err)
		return nil, err
	}

	return &participation, nil
}

func (r *EventRepository) GetConfirmedParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM event_participants WHERE event_id = $1 AND status = 'confirmed'`

	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetConfirmedParticipantIDs", err)
		return nil, err
	}

	return ids, nil
}

func (r *EventRepository) SearchParticipants(ctx context.Context, eventID uuid.UUID, excludeUserID uuid.UUID, search string, tags []string) ([]entity.ParticipantProfile, error) {
	query := `
		SELECT ep.user_id, pr.display_name, pr.company, pr.job_title, pr.bio,
		       COALESCE(pr.interests, '{}') AS interests, ep.status, ep.joined_at
		FROM event_participants ep
		JOIN profiles pr ON pr.id = ep.user_id
		WHERE ep.event_id = $1
		  AND ep.status <> 'removed'
		  AND ep.user_id <> $2
		  AND ($3 = '' OR pr.display_name ILIKE '%' || $3 || '%'
		       OR COALESCE(pr.company, '') ILIKE '%' || $3 || '%'
		       OR COALESCE(pr.job_title, '') ILIKE '%' || $3 || '%'
		       OR COALESCE(pr.bio, '') ILIKE '%' || $3 || '%')
		  AND (cardinality($4::text[]) = 0 OR COALESCE(pr.interests, '{}') @> $4)
		ORDER BY ep.joined_at
		LIMIT $5
	`

	if tags == nil {
		tags = []string{}
	}

	var participants []entity.ParticipantProfile
	err := r.DB.SelectContext(ctx, &participants, query,
		eventID, excludeUserID, search, pq.Array(tags), constants.MaxParticipantSearchResults)
	if err != nil {
		logger.Error("EventRepository:SearchParticipants", err)
		return nil, err
	}

	return participants, nil
}

func (r *EventRepository) DeleteParticipationsByEventID(ctx context.Context, eventID uuid.UUID) error {
	query := `DELETE FROM event_participants WHERE event_id = $1`
	err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		logger.Error("EventRepository:DeleteParticipationsByEventID", err)
		return err
	}
	return nil
}

// ReconcileParticipantCounts recomputes current_participants from source rows
// for every event whose counter has drifted. Returns the number of repaired rows.
func (r *EventRepository) ReconcileParticipantCounts(ctx context.Context) (int, error) {
	query := `
		WITH repaired AS (
			UPDATE events e
			SET current_participants = sub.cnt, updated_at = NOW()
			FROM (
				SELECT e2.id, COUNT(p.id) FILTER (WHERE p.status IN ('confirmed', 'checked_in')) AS cnt
				FROM events e2
				LEFT JOIN event_participants p ON p.event_id = e2.id
				GROUP BY e2.id
			) sub
			WHERE e.id = sub.id AND e.current_participants IS DISTINCT FROM sub.cnt
			RETURNING e.id
		)
		SELECT COUNT(*) FROM repaired
	`

	var repaired int
	err := r.DB.GetContext(ctx, &repaired, query)
	if err != nil {
		logger.Error("EventRepository:ReconcileParticipantCounts", err)
		return 0, err
	}

	return repaired, nil
}

// ===================== Connections =====================

func (r *EventRepository) CountConnectionsInWindow(ctx context.Context, userIDs []uuid.UUID, start time.Time, end time.Time) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM collected_cards WHERE collector_id IN (?) AND collected_at BETWEEN ? AND ?`,
		userIDs, start, end)
	if err != nil {
		return 0, err
	}

	query = r.DB.SQLx().Rebind(query)

	var count int
	err = r.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		logger.Error("EventRepository:CountConnectionsInWindow", err)
		return 0, err
	}

	return count, nil
}

// ===================== Feedback =====================

func (r *EventRepository) CreateFeedback(ctx context.Context, fb *entity.Feedback) error {
	query := `
		INSERT INTO event_feedback (event_id, user_id, rating, comment)
		VALUES (:event_id, :user_id, :rating, :comment)
		RETURNING id
	`
	rows, err := r.DB.NamedQueryContext(ctx, query, fb)
	if err != nil {
		logger.Error("EventRepository:CreateFeedback", err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&fb.ID)
	}
	return nil
}

func (r *EventRepository) DeleteFeedbackByEventID(ctx context.Context, eventID uuid.UUID) error {
	query := `DELETE FROM event_feedback WHERE event_id = $1`
	err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		logger.Error("EventRepository:DeleteFeedbackByEventID", err)
		return err
	}
	return nil
}
