package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/repositories"
)

// EventBroadcaster рассылает обновления события подписчикам (websocket).
type EventBroadcaster interface {
	BroadcastEventUpdate(eventID int, payload interface{})
}

type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput, authHeader string) (*models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	GetAllEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id int, input UpdateEventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int) (int, error)

	// ParticipateInEvent регистрирует пользователя в одном из трёх списков
	// события. role нечувствительна к регистру; повторная регистрация в том
	// же списке — no-op.
	ParticipateInEvent(ctx context.Context, eventID, userID int, role string) (*models.Event, error)
	RegisterPlayer(ctx context.Context, eventID, userID int) (*models.Event, error)
	RegisterSpectator(ctx context.Context, eventID, userID int) (*models.Event, error)
	RegisterReferee(ctx context.Context, eventID, userID int) (*models.Event, error)

	GetEventsBySportType(ctx context.Context, sportTypeID int) ([]models.Event, error)
	GetUpcomingEvents(ctx context.Context) ([]models.Event, error)
	GetFinishedEvents(ctx context.Context) ([]models.Event, error)
}

type CreateEventInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IconURL     *string    `json:"icon_url,omitempty"`
	SportTypeID *int       `json:"sport_type_id,omitempty"`
	VenueID     *int       `json:"venue_id,omitempty"`
}

// UpdateEventInput перезаписывает поля события целиком: каждое значение,
// включая пустое, становится новым состоянием (частичного обновления нет).
type UpdateEventInput struct {
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Status      models.EventStatus `json:"status"`
	StartDate   *time.Time         `json:"start_date,omitempty"`
	EndDate     *time.Time         `json:"end_date,omitempty"`
	Result      *string            `json:"result,omitempty"`
}

type eventService struct {
	txRunner   repositories.TxRunner
	eventRepo  repositories.EventRepository
	rosterRepo repositories.EventRosterRepository
	userRepo   repositories.UserRepository
	auth       AuthService
	broadcast  EventBroadcaster
}

func NewEventService(
	txRunner repositories.TxRunner,
	eventRepo repositories.EventRepository,
	rosterRepo repositories.EventRosterRepository,
	userRepo repositories.UserRepository,
	auth AuthService,
	broadcast EventBroadcaster,
) EventService {
	return &eventService{
		txRunner:   txRunner,
		eventRepo:  eventRepo,
		rosterRepo: rosterRepo,
		userRepo:   userRepo,
		auth:       auth,
		broadcast:  broadcast,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, input CreateEventInput, authHeader string) (*models.Event, error) {
	organizer, err := s.auth.CurrentUser(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, ErrEventTitleRequired
	}

	event := &models.Event{
		Title:        input.Title,
		Description:  input.Description,
		CreationDate: time.Now(),
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IconURL:      input.IconURL,
		Status:       models.EventStatusCreated,
		SportTypeID:  input.SportTypeID,
		OrganizerID:  &organizer.ID,
		VenueID:      input.VenueID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventReferenceInvalid) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event.Organizer = organizer
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadEventRelations(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int, input UpdateEventInput) (*models.Event, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Status = input.Status
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate
	event.Result = input.Result

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}

	if s.broadcast != nil {
		s.broadcast.BroadcastEventUpdate(event.ID, event)
	}
	return event, nil
}

// DeleteEvent сначала очищает все три списка участия и только затем
// удаляет само событие; обе операции в одной транзакции.
func (s *eventService) DeleteEvent(ctx context.Context, id int) (int, error) {
	if _, err := s.getEvent(ctx, id); err != nil {
		return 0, err
	}

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.rosterRepo.ClearForEvent(ctx, exec, id); err != nil {
			return err
		}
		if err := s.eventRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *eventService) ParticipateInEvent(ctx context.Context, eventID, userID int, role string) (*models.Event, error) {
	rosterRole := models.EventRosterRole(strings.ToLower(role))
	switch rosterRole {
	case models.RosterPlayer, models.RosterSpectator, models.RosterReferee:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRosterRole, role)
	}
	return s.register(ctx, rosterRole, eventID, userID)
}

func (s *eventService) RegisterPlayer(ctx context.Context, eventID, userID int) (*models.Event, error) {
	return s.register(ctx, models.RosterPlayer, eventID, userID)
}

func (s *eventService) RegisterSpectator(ctx context.Context, eventID, userID int) (*models.Event, error) {
	return s.register(ctx, models.RosterSpectator, eventID, userID)
}

func (s *eventService) RegisterReferee(ctx context.Context, eventID, userID int) (*models.Event, error) {
	return s.register(ctx, models.RosterReferee, eventID, userID)
}

func (s *eventService) register(ctx context.Context, role models.EventRosterRole, eventID, userID int) (*models.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	// Идемпотентность: уже зарегистрированный пользователь — no-op.
	registered, err := s.rosterRepo.Exists(ctx, role, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s registration: %w", role, err)
	}
	if !registered {
		if err := s.rosterRepo.Add(ctx, nil, role, eventID, userID); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", role, err)
		}
	}

	if err := s.loadEventRelations(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetEventsBySportType(ctx context.Context, sportTypeID int) ([]models.Event, error) {
	events, err := s.eventRepo.ListBySportTypeID(ctx, sportTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by sport type %d: %w", sportTypeID, err)
	}
	return events, nil
}

// GetUpcomingEvents возвращает события с датой начала строго после текущего
// момента.
func (s *eventService) GetUpcomingEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.ListByStartDateAfter(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetFinishedEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.ListByStatus(ctx, models.EventStatusFinished)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished events: %w", err)
	}
	return events, nil
}

func (s *eventService) getEvent(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (s *eventService) loadEventRelations(ctx context.Context, event *models.Event) error {
	if event.OrganizerID != nil {
		organizer, err := s.userRepo.GetByID(ctx, *event.OrganizerID)
		if err != nil {
			if !errors.Is(err, repositories.ErrUserNotFound) {
				return fmt.Errorf("failed to load organizer for event %d: %w", event.ID, err)
			}
		} else {
			sanitizeUser(organizer)
			event.Organizer = organizer
		}
	}

	for _, load := range []struct {
		role models.EventRosterRole
		dst  *[]models.User
	}{
		{models.RosterPlayer, &event.Players},
		{models.RosterSpectator, &event.Spectators},
		{models.RosterReferee, &event.Referees},
	} {
		users, err := s.rosterRepo.ListUsers(ctx, load.role, event.ID)
		if err != nil {
			return fmt.Errorf("failed to load %s of event %d: %w", load.role, event.ID, err)
		}
		sanitizeUsers(users)
		*load.dst = users
	}
	return nil
}
