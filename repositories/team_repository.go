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
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamCaptainInvalid = errors.New("team captain conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	ListByCaptainID(ctx context.Context, captainID int) ([]models.Team, error)
	// Update пишет только name и logo_url; смена капитана идёт
	// отдельным UpdateCaptain, чтобы её можно было выполнять в одной
	// транзакции с остальными правками.
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	UpdateCaptain(ctx context.Context, exec SQLExecutor, teamID int, captainID *int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	// ClearCaptainForUser обнуляет captain_id во всех командах,
	// где пользователь является капитаном.
	ClearCaptainForUser(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (name, logo_url, captain_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		team.Name,
		team.LogoURL,
		team.CaptainID,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "teams_captain_id_fkey" {
				return ErrTeamCaptainInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, logo_url, captain_id, created_at
		FROM teams
		WHERE id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT id, name, logo_url, captain_id, created_at
		FROM teams
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	return collectTeams(rows)
}

func (r *postgresTeamRepository) ListByCaptainID(ctx context.Context, captainID int) ([]models.Team, error) {
	query := `
		SELECT id, name, logo_url, captain_id, created_at
		FROM teams
		WHERE captain_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, captainID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by captain %d: %w", captainID, err)
	}
	defer rows.Close()

	return collectTeams(rows)
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE teams
		SET name = $1, logo_url = $2
		WHERE id = $3`

	result, err := executor.ExecContext(ctx, query,
		team.Name,
		team.LogoURL,
		team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateCaptain(ctx context.Context, exec SQLExecutor, teamID int, captainID *int) error {
	executor := r.getExecutor(exec)

	result, err := executor.ExecContext(ctx,
		`UPDATE teams SET captain_id = $1 WHERE id = $2`, captainID, teamID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "teams_captain_id_fkey" {
				return ErrTeamCaptainInvalid
			}
		}
		return fmt.Errorf("failed to update captain for team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)

	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) ClearCaptainForUser(ctx context.Context, exec SQLExecutor, userID int) error {
	executor := r.getExecutor(exec)

	_, err := executor.ExecContext(ctx,
		`UPDATE teams SET captain_id = NULL WHERE captain_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear captain for user %d: %w", userID, err)
	}
	return nil
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.LogoURL,
		&team.CaptainID,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func collectTeams(rows *sql.Rows) ([]models.Team, error) {
	teams := make([]models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}
