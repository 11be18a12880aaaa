package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/sport-events/models"
	"github.com/lib/pq"
)

var (
	ErrRosterEntryInvalid = errors.New("roster event or user invalid")
	ErrUnknownRosterRole  = errors.New("unknown roster role")
)

// rosterTables мапит роль участия на таблицу связи. Имена таблиц
// фиксированы здесь и никогда не приходят извне.
var rosterTables = map[models.EventRosterRole]string{
	models.RosterPlayer:    "event_players",
	models.RosterSpectator: "event_spectators",
	models.RosterReferee:   "event_referees",
}

// EventRosterRepository управляет тремя списками участия события.
// Каждый список — отдельная таблица (event_id, user_id).
type EventRosterRepository interface {
	// Add регистрирует пользователя в списке. Повторное добавление — no-op.
	Add(ctx context.Context, exec SQLExecutor, role models.EventRosterRole, eventID, userID int) error
	Exists(ctx context.Context, role models.EventRosterRole, eventID, userID int) (bool, error)
	ListUsers(ctx context.Context, role models.EventRosterRole, eventID int) ([]models.User, error)
	ClearForEvent(ctx context.Context, exec SQLExecutor, eventID int) error
	RemoveUserFromAll(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresEventRosterRepository struct {
	db *sql.DB
}

func NewPostgresEventRosterRepository(db *sql.DB) EventRosterRepository {
	return &postgresEventRosterRepository{db: db}
}

func (r *postgresEventRosterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func rosterTable(role models.EventRosterRole) (string, error) {
	table, ok := rosterTables[role]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRosterRole, role)
	}
	return table, nil
}

func (r *postgresEventRosterRepository) Add(ctx context.Context, exec SQLExecutor, role models.EventRosterRole, eventID, userID int) error {
	table, err := rosterTable(role)
	if err != nil {
		return err
	}
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING`, table)

	_, err = executor.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrRosterEntryInvalid
		}
		return fmt.Errorf("failed to add user %d to %s of event %d: %w", userID, table, eventID, err)
	}
	return nil
}

func (r *postgresEventRosterRepository) Exists(ctx context.Context, role models.EventRosterRole, eventID, userID int) (bool, error) {
	table, err := rosterTable(role)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM %s WHERE event_id = $1 AND user_id = $2)`, table)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s membership: %w", table, err)
	}
	return exists, nil
}

func (r *postgresEventRosterRepository) ListUsers(ctx context.Context, role models.EventRosterRole, eventID int) ([]models.User, error) {
	table, err := rosterTable(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT u.id, u.name, u.email, u.phone, u.avatar_url, u.password_hash, u.created_at
		FROM users u
		JOIN %s er ON er.user_id = u.id
		WHERE er.event_id = $1
		ORDER BY u.id`, table)

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s of event %d: %w", table, eventID, err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *postgresEventRosterRepository) ClearForEvent(ctx context.Context, exec SQLExecutor, eventID int) error {
	executor := r.getExecutor(exec)
	// Порядок не важен внутри одной транзакции, но все три списка
	// должны быть пусты до удаления самого события.
	for _, table := range []string{"event_players", "event_spectators", "event_referees"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE event_id = $1`, table)
		if _, err := executor.ExecContext(ctx, query, eventID); err != nil {
			return fmt.Errorf("failed to clear %s for event %d: %w", table, eventID, err)
		}
	}
	return nil
}

func (r *postgresEventRosterRepository) RemoveUserFromAll(ctx context.Context, exec SQLExecutor, userID int) error {
	executor := r.getExecutor(exec)
	for _, table := range []string{"event_players", "event_spectators", "event_referees"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table)
		if _, err := executor.ExecContext(ctx, query, userID); err != nil {
			return fmt.Errorf("failed to remove user %d from %s: %w", userID, table, err)
		}
	}
	return nil
}
