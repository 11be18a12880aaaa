package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/repositories"
)

type SportTypeService interface {
	CreateSportType(ctx context.Context, sportType *models.SportType) error
	GetSportTypeByID(ctx context.Context, id int) (*models.SportType, error)
	GetAllSportTypes(ctx context.Context) ([]models.SportType, error)
	UpdateSportType(ctx context.Context, id int, sportType *models.SportType) (*models.SportType, error)
	DeleteSportType(ctx context.Context, id int) error
}

type sportTypeService struct {
	sportTypeRepo repositories.SportTypeRepository
}

func NewSportTypeService(sportTypeRepo repositories.SportTypeRepository) SportTypeService {
	return &sportTypeService{sportTypeRepo: sportTypeRepo}
}

func (s *sportTypeService) CreateSportType(ctx context.Context, sportType *models.SportType) error {
	if err := s.sportTypeRepo.Create(ctx, sportType); err != nil {
		if errors.Is(err, repositories.ErrSportTypeNameConflict) {
			return ErrSportTypeNameConflict
		}
		return fmt.Errorf("failed to create sport type: %w", err)
	}
	return nil
}

func (s *sportTypeService) GetSportTypeByID(ctx context.Context, id int) (*models.SportType, error) {
	sportType, err := s.sportTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportTypeNotFound) {
			return nil, ErrSportTypeNotFound
		}
		return nil, fmt.Errorf("failed to get sport type %d: %w", id, err)
	}
	return sportType, nil
}

func (s *sportTypeService) GetAllSportTypes(ctx context.Context) ([]models.SportType, error) {
	return s.sportTypeRepo.List(ctx)
}

func (s *sportTypeService) UpdateSportType(ctx context.Context, id int, sportType *models.SportType) (*models.SportType, error) {
	sportType.ID = id
	if err := s.sportTypeRepo.Update(ctx, sportType); err != nil {
		if errors.Is(err, repositories.ErrSportTypeNotFound) {
			return nil, ErrSportTypeNotFound
		}
		if errors.Is(err, repositories.ErrSportTypeNameConflict) {
			return nil, ErrSportTypeNameConflict
		}
		return nil, fmt.Errorf("failed to update sport type %d: %w", id, err)
	}
	return sportType, nil
}

func (s *sportTypeService) DeleteSportType(ctx context.Context, id int) error {
	if err := s.sportTypeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSportTypeNotFound) {
			return ErrSportTypeNotFound
		}
		return fmt.Errorf("failed to delete sport type %d: %w", id, err)
	}
	return nil
}
