package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/repositories"
)

type VenueService interface {
	CreateVenue(ctx context.Context, venue *models.Venue) error
	GetVenueByID(ctx context.Context, id int) (*models.Venue, error)
	GetAllVenues(ctx context.Context) ([]models.Venue, error)
	UpdateVenue(ctx context.Context, id int, venue *models.Venue) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int) error
}

type venueService struct {
	venueRepo repositories.VenueRepository
}

func NewVenueService(venueRepo repositories.VenueRepository) VenueService {
	return &venueService{venueRepo: venueRepo}
}

func (s *venueService) CreateVenue(ctx context.Context, venue *models.Venue) error {
	return s.venueRepo.Create(ctx, venue)
}

func (s *venueService) GetVenueByID(ctx context.Context, id int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue %d: %w", id, err)
	}
	return venue, nil
}

func (s *venueService) GetAllVenues(ctx context.Context) ([]models.Venue, error) {
	return s.venueRepo.List(ctx)
}

func (s *venueService) UpdateVenue(ctx context.Context, id int, venue *models.Venue) (*models.Venue, error) {
	venue.ID = id
	if err := s.venueRepo.Update(ctx, venue); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to update venue %d: %w", id, err)
	}
	return venue, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, id int) error {
	if err := s.venueRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return ErrVenueNotFound
		}
		return fmt.Errorf("failed to delete venue %d: %w", id, err)
	}
	return nil
}
