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
	ErrSportTypeNotFound     = errors.New("sport type not found")
	ErrSportTypeNameConflict = errors.New("sport type name conflict")
)

type SportTypeRepository interface {
	Create(ctx context.Context, sportType *models.SportType) error
	GetByID(ctx context.Context, id int) (*models.SportType, error)
	List(ctx context.Context) ([]models.SportType, error)
	Update(ctx context.Context, sportType *models.SportType) error
	Delete(ctx context.Context, id int) error
}

type postgresSportTypeRepository struct {
	db *sql.DB
}

func NewPostgresSportTypeRepository(db *sql.DB) SportTypeRepository {
	return &postgresSportTypeRepository{db: db}
}

func (r *postgresSportTypeRepository) Create(ctx context.Context, sportType *models.SportType) error {
	query := `
		INSERT INTO sport_types (name, category, rules, icon_url, min_players, max_players)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		sportType.Name,
		sportType.Category,
		sportType.Rules,
		sportType.IconURL,
		sportType.MinPlayers,
		sportType.MaxPlayers,
	).Scan(&sportType.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "sport_types_name_key" {
				return ErrSportTypeNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresSportTypeRepository) GetByID(ctx context.Context, id int) (*models.SportType, error) {
	query := `
		SELECT id, name, category, rules, icon_url, min_players, max_players
		FROM sport_types
		WHERE id = $1`

	var st models.SportType
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&st.ID,
		&st.Name,
		&st.Category,
		&st.Rules,
		&st.IconURL,
		&st.MinPlayers,
		&st.MaxPlayers,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSportTypeNotFound
		}
		return nil, fmt.Errorf("failed to scan sport type: %w", err)
	}
	return &st, nil
}

func (r *postgresSportTypeRepository) List(ctx context.Context) ([]models.SportType, error) {
	query := `
		SELECT id, name, category, rules, icon_url, min_players, max_players
		FROM sport_types
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sport types: %w", err)
	}
	defer rows.Close()

	sportTypes := make([]models.SportType, 0)
	for rows.Next() {
		var st models.SportType
		err := rows.Scan(
			&st.ID,
			&st.Name,
			&st.Category,
			&st.Rules,
			&st.IconURL,
			&st.MinPlayers,
			&st.MaxPlayers,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sport type row: %w", err)
		}
		sportTypes = append(sportTypes, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sport type rows: %w", err)
	}
	return sportTypes, nil
}

func (r *postgresSportTypeRepository) Update(ctx context.Context, sportType *models.SportType) error {
	query := `
		UPDATE sport_types
		SET name = $1, category = $2, rules = $3, icon_url = $4, min_players = $5, max_players = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		sportType.Name,
		sportType.Category,
		sportType.Rules,
		sportType.IconURL,
		sportType.MinPlayers,
		sportType.MaxPlayers,
		sportType.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "sport_types_name_key" {
				return ErrSportTypeNameConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrSportTypeNotFound)
}

func (r *postgresSportTypeRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sport_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sport type %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrSportTypeNotFound)
}
