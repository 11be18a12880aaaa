package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/sport-events/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventReferenceInvalid = errors.New("event sport type, organizer or venue invalid")
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	ListBySportTypeID(ctx context.Context, sportTypeID int) ([]models.Event, error)
	ListByStatus(ctx context.Context, status models.EventStatus) ([]models.Event, error)
	ListByOrganizerID(ctx context.Context, organizerID int) ([]models.Event, error)
	ListByVenueID(ctx context.Context, venueID int) ([]models.Event, error)
	ListByStartDateAfter(ctx context.Context, after time.Time) ([]models.Event, error)
	ListByStartDateBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	// ClearOrganizerForUser обнуляет organizer_id во всех событиях,
	// организованных пользователем.
	ClearOrganizerForUser(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const eventColumns = `
	id, title, description, creation_date, start_date, end_date,
	result, icon_url, status, sport_type_id, organizer_id, venue_id`

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events
			(title, description, creation_date, start_date, end_date,
			 result, icon_url, status, sport_type_id, organizer_id, venue_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.CreationDate,
		event.StartDate,
		event.EndDate,
		event.Result,
		event.IconURL,
		event.Status,
		event.SportTypeID,
		event.OrganizerID,
		event.VenueID,
	).Scan(&event.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrEventReferenceInvalid
		}
		return err
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT` + eventColumns + `FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := `SELECT` + eventColumns + `FROM events ORDER BY id`
	return r.queryEvents(ctx, query)
}

func (r *postgresEventRepository) ListBySportTypeID(ctx context.Context, sportTypeID int) ([]models.Event, error) {
	query := `SELECT` + eventColumns + `FROM events WHERE sport_type_id = $1 ORDER BY id`
	return r.queryEvents(ctx, query, sportTypeID)
}

func (r *postgresEventRepository) ListByStatus(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	query := `SELECT` + eventColumns + `FROM events WHERE status = $1 ORDER BY id`
	return r.queryEvents(ctx, query, status)
}

func (r *postgresEventRepository) ListByOrganizerID(ctx context.Context, organizerID int) ([]models.Event, error) {
	query := `SELECT` + eventColumns + `FROM events WHERE organizer_id = $1 ORDER BY id`
	return r.queryEvents(ctx, query, organizerID)
}

func (r *postgresEventRepository) ListByVenueID(ctx context.Context, venueID int) ([]models.Event, error) {
	query := `SELECT` + eventColumns + `FROM events WHERE venue_id = $1 ORDER BY id`
	return r.queryEvents(ctx, query, venueID)
}

func (r *postgresEventRepository) ListByStartDateAfter(ctx context.Context, after time.Time) ([]models.Event, error) {
	// Строго после: start_date > $1
	query := `SELECT` + eventColumns + `FROM events WHERE start_date > $1 ORDER BY start_date`
	return r.queryEvents(ctx, query, after)
}

func (r *postgresEventRepository) ListByStartDateBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	query := `SELECT` + eventColumns + `FROM events WHERE start_date BETWEEN $1 AND $2 ORDER BY start_date`
	return r.queryEvents(ctx, query, from, to)
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, start_date = $3, end_date = $4,
			result = $5, icon_url = $6, status = $7, sport_type_id = $8,
			organizer_id = $9, venue_id = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Result,
		event.IconURL,
		event.Status,
		event.SportTypeID,
		event.OrganizerID,
		event.VenueID,
		event.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrEventReferenceInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)

	result, err := executor.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) ClearOrganizerForUser(ctx context.Context, exec SQLExecutor, userID int) error {
	executor := r.getExecutor(exec)

	_, err := executor.ExecContext(ctx,
		`UPDATE events SET organizer_id = NULL WHERE organizer_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear organizer for user %d: %w", userID, err)
	}
	return nil
}

func (r *postgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.CreationDate,
		&event.StartDate,
		&event.EndDate,
		&event.Result,
		&event.IconURL,
		&event.Status,
		&event.SportTypeID,
		&event.OrganizerID,
		&event.VenueID,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
