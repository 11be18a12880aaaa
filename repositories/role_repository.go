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
	ErrRoleNotFound           = errors.New("role not found")
	ErrRoleAssignmentInvalid  = errors.New("role assignment user or role invalid")
	ErrRoleAssignmentNotFound = errors.New("role assignment not found")
)

type RoleRepository interface {
	GetByID(ctx context.Context, id int) (*models.Role, error)
	GetByName(ctx context.Context, name models.RoleName) (*models.Role, error)
	ListByUserID(ctx context.Context, userID int) ([]models.Role, error)

	// AssignToUser добавляет роль пользователю. Повторное назначение
	// той же роли — no-op (множество ролей уникально).
	AssignToUser(ctx context.Context, exec SQLExecutor, userID, roleID int) error
	RemoveFromUser(ctx context.Context, userID, roleID int) error
	RemoveAllFromUser(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresRoleRepository struct {
	db *sql.DB
}

func NewPostgresRoleRepository(db *sql.DB) RoleRepository {
	return &postgresRoleRepository{db: db}
}

func (r *postgresRoleRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoleRepository) GetByID(ctx context.Context, id int) (*models.Role, error) {
	query := `SELECT id, name FROM roles WHERE id = $1`

	var role models.Role
	err := r.db.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to scan role: %w", err)
	}
	return &role, nil
}

func (r *postgresRoleRepository) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	query := `SELECT id, name FROM roles WHERE name = $1`

	var role models.Role
	err := r.db.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to scan role by name: %w", err)
	}
	return &role, nil
}

func (r *postgresRoleRepository) ListByUserID(ctx context.Context, userID int) ([]models.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles for user %d: %w", userID, err)
	}
	defer rows.Close()

	roles := make([]models.Role, 0)
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", err)
	}
	return roles, nil
}

func (r *postgresRoleRepository) AssignToUser(ctx context.Context, exec SQLExecutor, userID, roleID int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING`

	_, err := executor.ExecContext(ctx, query, userID, roleID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrRoleAssignmentInvalid
		}
		return fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}
	return nil
}

func (r *postgresRoleRepository) RemoveFromUser(ctx context.Context, userID, roleID int) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to remove role %d from user %d: %w", roleID, userID, err)
	}
	return checkAffectedRows(result, ErrRoleAssignmentNotFound)
}

func (r *postgresRoleRepository) RemoveAllFromUser(ctx context.Context, exec SQLExecutor, userID int) error {
	executor := r.getExecutor(exec)

	_, err := executor.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear roles for user %d: %w", userID, err)
	}
	return nil
}
