package service

import (
	"context"

	"ndrop-api/core/errors"
	"ndrop-api/core/logger"
	"ndrop-api/core/params"
	"ndrop-api/core/utils"
	"ndrop-api/modules/event/dto"
	"ndrop-api/modules/event/entity"
	"ndrop-api/modules/event/repository"

	"github.com/google/uuid"
)

// EventDependent owns rows that reference an event and must go before the
// event row itself. Other modules register themselves at wiring time.
type EventDependent interface {
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

// EventService handles event and participation business logic
type EventService struct {
	repo       repository.EventRepositoryInterface
	dependents []EventDependent
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, createdBy uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	ListEvents(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID uuid.UUID) *errors.AppError

	Join(ctx context.Context, eventRef string, userID uuid.UUID) (*dto.JoinEventResult, *errors.AppError)
	RemoveParticipant(ctx context.Context, participationID uuid.UUID) *errors.AppError
	CheckIn(ctx context.Context, participationID uuid.UUID) (*dto.ParticipationResponse, *errors.AppError)
	SearchParticipants(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID, search string, tags []string) ([]dto.ParticipantResponse, *errors.AppError)
	CountConnections(ctx context.Context, eventID uuid.UUID) (int, *errors.AppError)
	SubmitFeedback(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, req *dto.SubmitFeedbackRequest) *errors.AppError

	RegisterDependent(dep EventDependent)
	ReconcileCounters(ctx context.Context) (int, error)
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepositoryInterface) EventServiceInterface {
	return &EventService{repo: repo}
}

// RegisterDependent adds a module whose rows must be deleted with the event.
func (s *EventService) RegisterDependent(dep EventDependent) {
	s.dependents = append(s.dependents, dep)
}

// ===================== Event CRUD =====================

func (s *EventService) CreateEvent(ctx context.Context, createdBy uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}

	code, err := utils.GenerateEventCode()
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate join code", err)
	}

	event := &entity.Event{
		Code:            code,
		Title:           req.Title,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		Status:          entity.EventStatusUpcoming,
		CreatedBy:       &createdBy,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if req.Location != "" {
		event.Location = &req.Location
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	return dto.ToEventResponse(created), nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	return dto.ToEventResponse(event), nil
}

func (s *EventService) ListEvents(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError) {
	result, err := s.repo.List(ctx, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}
	return result, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if req.Location != "" {
		event.Location = &req.Location
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.MaxParticipants > 0 {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.Status != "" {
		switch entity.EventStatus(req.Status) {
		case entity.EventStatusUpcoming, entity.EventStatusOngoing, entity.EventStatusCompleted:
			event.Status = entity.EventStatus(req.Status)
		default:
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid event status", nil)
		}
	}

	if !event.EndTime.After(event.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	return dto.ToEventResponse(event), nil
}

// DeleteEvent removes dependent rows first and the event row last. Dependent
// deletes are best effort: a failed sub-delete is logged and the cascade
// continues, leaving at worst orphaned rows rather than a half-dead event.
func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID) *errors.AppError {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	for _, dep := range s.dependents {
		if err := dep.DeleteByEventID(ctx, eventID); err != nil {
			logger.Error("EventService:DeleteEvent:Dependent", "event_id", eventID.String(), "error", err)
		}
	}
	if err := s.repo.DeleteFeedbackByEventID(ctx, eventID); err != nil {
		logger.Error("EventService:DeleteEvent:Feedback", "event_id", eventID.String(), "error", err)
	}
	if err := s.repo.DeleteParticipationsByEventID(ctx, eventID); err != nil {
		logger.Error("EventService:DeleteEvent:Participations", "event_id", eventID.String(), "error", err)
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}

	return nil
}

// ===================== Participation =====================

// Join resolves the event by id or join code and joins the user to it.
func (s *EventService) Join(ctx context.Context, eventRef string, userID uuid.UUID) (*dto.JoinEventResult, *errors.AppError) {
	if eventRef == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event reference is required", nil)
	}

	event, appErr := s.resolveEvent(ctx, eventRef)
	if appErr != nil {
		return nil, appErr
	}

	participation, inserted, err := s.repo.Join(ctx, event.ID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to join event", err)
	}
	if !inserted {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Already joined this event", nil)
	}

	// Re-read so the response carries the post-join counter.
	updated, err := s.repo.GetByID(ctx, event.ID)
	if err != nil || updated == nil {
		updated = event
		updated.CurrentParticipants++
	}

	return &dto.JoinEventResult{
		Participant: dto.ToParticipationResponse(participation),
		Event:       dto.ToEventResponse(updated),
	}, nil
}

func (s *EventService) RemoveParticipant(ctx context.Context, participationID uuid.UUID) *errors.AppError {
	removed, err := s.repo.RemoveParticipation(ctx, participationID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to remove participant", err)
	}
	if removed == nil {
		return errors.NewAppError(errors.ErrNotFound, "Participant not found", nil)
	}
	return nil
}

func (s *EventService) CheckIn(ctx context.Context, participationID uuid.UUID) (*dto.ParticipationResponse, *errors.AppError) {
	participation, err := s.repo.GetParticipationByID(ctx, participationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participant", err)
	}
	if participation == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Participant not found", nil)
	}
	if participation.Status != entity.ParticipationStatusConfirmed {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "only confirmed participants can check in", nil)
	}

	checkedIn, err := s.repo.CheckIn(ctx, participationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check in", err)
	}
	if checkedIn == nil {
		// Status changed between the read and the update.
		return nil, errors.NewAppError(errors.ErrInvalidInput, "only confirmed participants can check in", nil)
	}

	return dto.ToParticipationResponse(checkedIn), nil
}

func (s *EventService) SearchParticipants(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID, search string, tags []string) ([]dto.ParticipantResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	participants, err := s.repo.SearchParticipants(ctx, eventID, callerID, search, tags)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to search participants", err)
	}

	result := make([]dto.ParticipantResponse, 0, len(participants))
	for i := range participants {
		result = append(result, dto.ToParticipantResponse(&participants[i]))
	}
	return result, nil
}

// CountConnections counts collected-card edges created by the event's
// confirmed participants inside the event's time window, inclusive both ends.
func (s *EventService) CountConnections(ctx context.Context, eventID uuid.UUID) (int, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return 0, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	ids, err := s.repo.GetConfirmedParticipantIDs(ctx, eventID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := s.repo.CountConnectionsInWindow(ctx, ids, event.StartTime, event.EndTime)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to count connections", err)
	}

	return count, nil
}

func (s *EventService) SubmitFeedback(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, req *dto.SubmitFeedbackRequest) *errors.AppError {
	if req.Rating < 1 || req.Rating > 5 {
		return errors.NewAppError(errors.ErrInvalidInput, "rating must be between 1 and 5", nil)
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	fb := &entity.Feedback{
		EventID: eventID,
		UserID:  userID,
		Rating:  req.Rating,
	}
	if req.Comment != "" {
		fb.Comment = &req.Comment
	}

	if err := s.repo.CreateFeedback(ctx, fb); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to submit feedback", err)
	}

	return nil
}

// ReconcileCounters repairs drifted participant counters. Called from the
// maintenance worker.
func (s *EventService) ReconcileCounters(ctx context.Context) (int, error) {
	repaired, err := s.repo.ReconcileParticipantCounts(ctx)
	if err != nil {
		return 0, err
	}
	if repaired > 0 {
		logger.Warn("EventService:ReconcileCounters:DriftRepaired", "events", repaired)
	}
	return repaired, nil
}

func (s *EventService) resolveEvent(ctx context.Context, eventRef string) (*entity.Event, *errors.AppError) {
	var event *entity.Event
	var err error

	if id, parseErr := uuid.Parse(eventRef); parseErr == nil {
		event, err = s.repo.GetByID(ctx, id)
	} else {
		event, err = s.repo.GetByCode(ctx, eventRef)
	}

	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return event, nil
}
