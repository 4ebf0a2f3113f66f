package repository

import (
	"context"
	"database/sql"

	"ndrop-api/core/database"
	"ndrop-api/core/logger"
	"ndrop-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MeetingRepository handles time slot and meeting database operations
type MeetingRepository struct {
	DB database.IDatabase
}

// NewMeetingRepository creates a new repository instance
func NewMeetingRepository(db database.IDatabase) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// MeetingRepositoryInterface defines the repository contract
type MeetingRepositoryInterface interface {
	// Slots (time_slots table)
	CreateSlots(ctx context.Context, slots []entity.TimeSlot) ([]entity.TimeSlot, error)
	GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error)
	ListSlots(ctx context.Context, eventID uuid.UUID) ([]entity.TimeSlotAvailability, error)

	// Meetings (meetings table)
	CreateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error)
	GetMeetingByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error)
	ListMeetingsForUser(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) ([]entity.MeetingDetail, error)
	ConfirmMeeting(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MeetingStatus) error
	HasConfirmedForSlot(ctx context.Context, slotID uuid.UUID) (bool, error)

	// Participation lookup (event_participants table)
	IsActiveParticipant(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (bool, error)

	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

// ===================== Slots =====================

func (r *MeetingRepository) CreateSlots(ctx context.Context, slots []entity.TimeSlot) ([]entity.TimeSlot, error) {
	query := `
		INSERT INTO time_slots (event_id, start_time, end_time, is_blocked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, event_id, start_time, end_time, is_blocked, created_at
	`

	created := make([]entity.TimeSlot, 0, len(slots))
	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		for _, slot := range slots {
			var row entity.TimeSlot
			if err := tx.GetContext(ctx, &row, query,
				slot.EventID, slot.StartTime, slot.EndTime, slot.IsBlocked); err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		logger.Error("MeetingRepository:CreateSlots", err)
		return nil, err
	}

	return created, nil
}

func (r *MeetingRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.TimeSlot, error) {
	query := `
		SELECT id, event_id, start_time, end_time, is_blocked, created_at
		FROM time_slots WHERE id = $1
	`

	var slot entity.TimeSlot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetSlotByID", err)
		return nil, err
	}

	return &slot, nil
}

// ListSlots returns an event's non-blocked slots with is_booked derived from
// confirmed meetings rather than stored, so a cancellation frees the slot
// with no second write.
func (r *MeetingRepository) ListSlots(ctx context.Context, eventID uuid.UUID) ([]entity.TimeSlotAvailability, error) {
	query := `
		SELECT s.id, s.event_id, s.start_time, s.end_time, s.is_blocked, s.created_at,
		       EXISTS (
		           SELECT 1 FROM meetings m
		           WHERE m.slot_id = s.id AND m.status = 'confirmed'
		       ) AS is_booked
		FROM time_slots s
		WHERE s.event_id = $1 AND s.is_blocked = false
		ORDER BY s.start_time ASC
	`

	var slots []entity.TimeSlotAvailability
	err := r.DB.SelectContext(ctx, &slots, query, eventID)
	if err != nil {
		logger.Error("MeetingRepository:ListSlots", err)
		return nil, err
	}

	return slots, nil
}

// ===================== Meetings =====================

func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	query := `
		INSERT INTO meetings (event_id, slot_id, requester_id, recipient_id, status, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, event_id, slot_id, requester_id, recipient_id, status, message, created_at, updated_at
	`

	var created entity.Meeting
	err := r.DB.GetContext(ctx, &created, query,
		meeting.EventID, meeting.SlotID, meeting.RequesterID,
		meeting.RecipientID, meeting.Status, meeting.Message)
	if err != nil {
		logger.Error("MeetingRepository:CreateMeeting", err)
		return nil, err
	}

	return &created, nil
}

func (r *MeetingRepository) GetMeetingByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	query := `
		SELECT id, event_id, slot_id, requester_id, recipient_id, status, message, created_at, updated_at
		FROM meetings WHERE id = $1
	`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetMeetingByID", err)
		return nil, err
	}

	return &meeting, nil
}

func (r *MeetingRepository) ListMeetingsForUser(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) ([]entity.MeetingDetail, error) {
	query := `
		SELECT m.id, m.event_id, m.slot_id, m.requester_id, m.recipient_id,
		       m.status, m.message, m.created_at, m.updated_at,
		       s.start_time AS slot_start, s.end_time AS slot_end
		FROM meetings m
		JOIN time_slots s ON s.id = m.slot_id
		WHERE m.event_id = $1 AND (m.requester_id = $2 OR m.recipient_id = $2)
		ORDER BY s.start_time ASC, m.created_at ASC
	`

	var meetings []entity.MeetingDetail
	err := r.DB.SelectContext(ctx, &meetings, query, eventID, userID)
	if err != nil {
		logger.Error("MeetingRepository:ListMeetingsForUser", err)
		return nil, err
	}

	return meetings, nil
}

// ConfirmMeeting promotes a pending meeting to confirmed only while no other
// confirmed meeting occupies the same slot. The guard runs inside the UPDATE
// itself so two concurrent accepts cannot both win.
func (r *MeetingRepository) ConfirmMeeting(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE meetings
		SET status = 'confirmed', updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
		  AND NOT EXISTS (
		      SELECT 1 FROM meetings other
		      WHERE other.slot_id = meetings.slot_id
		        AND other.status = 'confirmed'
		        AND other.id <> meetings.id
		  )
		RETURNING id
	`

	var confirmed uuid.UUID
	err := r.DB.GetContext(ctx, &confirmed, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		logger.Error("MeetingRepository:ConfirmMeeting", err)
		return false, err
	}

	return true, nil
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MeetingStatus) error {
	query := `UPDATE meetings SET status = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("MeetingRepository:UpdateStatus", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) HasConfirmedForSlot(ctx context.Context, slotID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM meetings WHERE slot_id = $1 AND status = 'confirmed')`

	var booked bool
	err := r.DB.GetContext(ctx, &booked, query, slotID)
	if err != nil {
		logger.Error("MeetingRepository:HasConfirmedForSlot", err)
		return false, err
	}

	return booked, nil
}

// ===================== Participation =====================

func (r *MeetingRepository) IsActiveParticipant(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM event_participants
			WHERE event_id = $1 AND user_id = $2 AND status <> 'removed'
		)
	`

	var active bool
	err := r.DB.GetContext(ctx, &active, query, eventID, userID)
	if err != nil {
		logger.Error("MeetingRepository:IsActiveParticipant", err)
		return false, err
	}

	return active, nil
}

func (r *MeetingRepository) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE event_id = $1`, eventID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM time_slots WHERE event_id = $1`, eventID)
		return err
	})
	if err != nil {
		logger.Error("MeetingRepository:DeleteByEventID", err)
		return err
	}
	return nil
}
