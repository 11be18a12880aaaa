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
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrTeamMemberConflict = errors.New("team member already exists")
	ErrTeamMemberInvalid  = errors.New("team member team or user invalid")
)

type TeamMemberRepository interface {
	Create(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error
	GetByTeamAndUser(ctx context.Context, teamID, userID int) (*models.TeamMember, error)
	ExistsByTeamAndUser(ctx context.Context, teamID, userID int) (bool, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.TeamMember, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error
	DeleteByUserID(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresTeamMemberRepository struct {
	db *sql.DB
}

func NewPostgresTeamMemberRepository(db *sql.DB) TeamMemberRepository {
	return &postgresTeamMemberRepository{db: db}
}

func (r *postgresTeamMemberRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamMemberRepository) Create(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_members (team_id, user_id, role, join_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		member.TeamID,
		member.UserID,
		member.Role,
		member.JoinDate,
	).Scan(&member.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation: одна запись на пару (team, user)
				if pqErr.Constraint == "team_members_team_id_user_id_key" {
					return ErrTeamMemberConflict
				}
			case "23503": // foreign_key_violation
				return ErrTeamMemberInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamMemberRepository) GetByTeamAndUser(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	query := `
		SELECT id, team_id, user_id, role, join_date
		FROM team_members
		WHERE team_id = $1 AND user_id = $2`

	var member models.TeamMember
	err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(
		&member.ID,
		&member.TeamID,
		&member.UserID,
		&member.Role,
		&member.JoinDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan team member: %w", err)
	}
	return &member, nil
}

func (r *postgresTeamMemberRepository) ExistsByTeamAndUser(ctx context.Context, teamID, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return exists, nil
}

func (r *postgresTeamMemberRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT
			tm.id, tm.team_id, tm.user_id, tm.role, tm.join_date,
			u.id, u.name, u.email, u.phone, u.avatar_url, u.created_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.join_date, tm.id`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		err := rows.Scan(
			&member.ID,
			&member.TeamID,
			&member.UserID,
			&member.Role,
			&member.JoinDate,
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Phone,
			&user.AvatarURL,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		member.User = &user
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return members, nil
}

func (r *postgresTeamMemberRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)

	result, err := executor.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team member %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}

func (r *postgresTeamMemberRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)

	_, err := executor.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete members of team %d: %w", teamID, err)
	}
	return nil
}

func (r *postgresTeamMemberRepository) DeleteByUserID(ctx context.Context, exec SQLExecutor, userID int) error {
	executor := r.getExecutor(exec)

	_, err := executor.ExecContext(ctx, `DELETE FROM team_members WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete memberships of user %d: %w", userID, err)
	}
	return nil
}
