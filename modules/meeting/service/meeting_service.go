package service

import (
	"context"

	"ndrop-api/core/errors"
	"ndrop-api/core/logger"
	"ndrop-api/modules/meeting/dto"
	"ndrop-api/modules/meeting/entity"
	"ndrop-api/modules/meeting/repository"

	"github.com/google/uuid"
)

const (
	notifMeetingRequest  = "meeting_request"
	notifMeetingResponse = "meeting_response"
	notifMeetingCancel   = "meeting_cancelled"
)

// Notifier delivers meeting notifications. Implemented by the notification
// service; wired in at module init.
type Notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, notifType string, title string, message string, relatedEventID *uuid.UUID) error
}

type MeetingService struct {
	repo     repository.MeetingRepositoryInterface
	notifier Notifier
}

// MeetingServiceInterface defines the service contract
type MeetingServiceInterface interface {
	CreateSlots(ctx context.Context, eventID uuid.UUID, req *dto.CreateSlotsRequest) ([]entity.TimeSlot, *errors.AppError)
	ListSlots(ctx context.Context, eventID uuid.UUID) ([]entity.TimeSlotAvailability, *errors.AppError)

	RequestMeeting(ctx context.Context, requesterID uuid.UUID, req *dto.RequestMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	Respond(ctx context.Context, userID uuid.UUID, meetingID uuid.UUID, action string) (*dto.MeetingResponse, *errors.AppError)
	Cancel(ctx context.Context, userID uuid.UUID, meetingID uuid.UUID) *errors.AppError
	MyMeetings(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) ([]dto.MeetingResponse, *errors.AppError)

	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

func NewMeetingService(repo repository.MeetingRepositoryInterface, notifier Notifier) MeetingServiceInterface {
	return &MeetingService{repo: repo, notifier: notifier}
}

func (s *MeetingService) CreateSlots(ctx context.Context, eventID uuid.UUID, req *dto.CreateSlotsRequest) ([]entity.TimeSlot, *errors.AppError) {
	if len(req.Slots) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "at least one slot is required", nil)
	}

	slots := make([]entity.TimeSlot, 0, len(req.Slots))
	for _, in := range req.Slots {
		if !in.EndTime.After(in.StartTime) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "slot end time must be after start time", nil)
		}
		slots = append(slots, entity.TimeSlot{
			EventID:   eventID,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			IsBlocked: in.IsBlocked,
		})
	}

	created, err := s.repo.CreateSlots(ctx, slots)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create slots", err)
	}

	return created, nil
}

func (s *MeetingService) ListSlots(ctx context.Context, eventID uuid.UUID) ([]entity.TimeSlotAvailability, *errors.AppError) {
	slots, err := s.repo.ListSlots(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list slots", err)
	}
	return slots, nil
}

// RequestMeeting creates a pending meeting request against a free slot.
// Both sides must be active participants of the event.
func (s *MeetingService) RequestMeeting(ctx context.Context, requesterID uuid.UUID, req *dto.RequestMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid event id", nil)
	}
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid slot id", nil)
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid recipient id", nil)
	}

	if recipientID == requesterID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "cannot request a meeting with yourself", nil)
	}

	for _, userID := range []uuid.UUID{requesterID, recipientID} {
		active, err := s.repo.IsActiveParticipant(ctx, eventID, userID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check participation", err)
		}
		if !active {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "both users must be participants of the event", nil)
		}
	}

	slot, err := s.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get slot", err)
	}
	if slot == nil || slot.EventID != eventID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
	}
	if slot.IsBlocked {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "slot is blocked", nil)
	}

	booked, err := s.repo.HasConfirmedForSlot(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check slot availability", err)
	}
	if booked {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Slot is already booked", nil)
	}

	meeting := &entity.Meeting{
		EventID:     eventID,
		SlotID:      slotID,
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      entity.MeetingPending,
	}
	if req.Message != "" {
		meeting.Message = &req.Message
	}

	created, err := s.repo.CreateMeeting(ctx, meeting)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create meeting", err)
	}

	s.notify(ctx, recipientID, notifMeetingRequest, "New meeting request",
		"You have received a meeting request", &eventID)

	return dto.ToMeetingResponse(created), nil
}

// Respond accepts or declines a pending meeting request. Only the recipient
// may respond. Accepting books the slot; if another confirmed meeting took
// the slot first, the accept fails with a conflict and the request stays
// pending.
func (s *MeetingService) Respond(ctx context.Context, userID uuid.UUID, meetingID uuid.UUID, action string) (*dto.MeetingResponse, *errors.AppError) {
	meeting, err := s.repo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	if meeting.RecipientID != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the recipient can respond", nil)
	}
	if meeting.Status != entity.MeetingPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "meeting is not pending", nil)
	}

	switch action {
	case dto.ActionAccept:
		confirmed, err := s.repo.ConfirmMeeting(ctx, meetingID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to confirm meeting", err)
		}
		if !confirmed {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Slot is no longer available", nil)
		}
		meeting.Status = entity.MeetingConfirmed
		s.notify(ctx, meeting.RequesterID, notifMeetingResponse, "Meeting confirmed",
			"Your meeting request was accepted", &meeting.EventID)

	case dto.ActionDecline:
		if err := s.repo.UpdateStatus(ctx, meetingID, entity.MeetingDeclined); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to decline meeting", err)
		}
		meeting.Status = entity.MeetingDeclined
		s.notify(ctx, meeting.RequesterID, notifMeetingResponse, "Meeting declined",
			"Your meeting request was declined", &meeting.EventID)

	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "action must be accept or decline", nil)
	}

	return dto.ToMeetingResponse(meeting), nil
}

// Cancel voids a pending or confirmed meeting. Either party may cancel;
// cancelling a confirmed meeting frees its slot.
func (s *MeetingService) Cancel(ctx context.Context, userID uuid.UUID, meetingID uuid.UUID) *errors.AppError {
	meeting, err := s.repo.GetMeetingByID(ctx, meetingID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	if meeting.RequesterID != userID && meeting.RecipientID != userID {
		return errors.NewAppError(errors.ErrForbidden, "Only a participant of the meeting can cancel", nil)
	}
	if !meeting.Status.Open() {
		return errors.NewAppError(errors.ErrInvalidInput, "meeting is already closed", nil)
	}

	if err := s.repo.UpdateStatus(ctx, meetingID, entity.MeetingCancelled); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to cancel meeting", err)
	}

	other := meeting.RequesterID
	if userID == meeting.RequesterID {
		other = meeting.RecipientID
	}
	s.notify(ctx, other, notifMeetingCancel, "Meeting cancelled",
		"A meeting you were part of was cancelled", &meeting.EventID)

	return nil
}

func (s *MeetingService) MyMeetings(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) ([]dto.MeetingResponse, *errors.AppError) {
	meetings, err := s.repo.ListMeetingsForUser(ctx, eventID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list meetings", err)
	}

	result := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, dto.ToMeetingDetailResponse(&meetings[i]))
	}
	return result, nil
}

func (s *MeetingService) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	return s.repo.DeleteByEventID(ctx, eventID)
}

// notify is best effort, a failed notification never fails the operation.
func (s *MeetingService) notify(ctx context.Context, userID uuid.UUID, notifType string, title string, message string, eventID *uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyUser(ctx, userID, notifType, title, message, eventID); err != nil {
		logger.Warn("MeetingService:Notify", "type", notifType, "error", err)
	}
}
