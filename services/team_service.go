package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/repositories"
)

type TeamService interface {
	CreateTeamWithCaptain(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	GetAllTeams(ctx context.Context) ([]models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error

	// JoinTeam и LeaveTeam резолвят действующего пользователя по заголовку
	// Authorization; ошибки сессии (ErrInvalidToken/ErrSessionExpired)
	// пробрасываются наружу.
	JoinTeam(ctx context.Context, teamID int, authHeader string) (*models.Team, error)
	LeaveTeam(ctx context.Context, teamID int, authHeader string) (*models.Team, error)
}

type CreateTeamInput struct {
	Name      string  `json:"name"`
	LogoURL   *string `json:"logo_url,omitempty"`
	CaptainID int     `json:"captain_id"`
}

type UpdateTeamInput struct {
	Name      string  `json:"name"`
	LogoURL   *string `json:"logo_url,omitempty"`
	CaptainID *int    `json:"captain_id,omitempty"`
}

type teamService struct {
	txRunner   repositories.TxRunner
	teamRepo   repositories.TeamRepository
	memberRepo repositories.TeamMemberRepository
	userRepo   repositories.UserRepository
	auth       AuthService
}

func NewTeamService(
	txRunner repositories.TxRunner,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.TeamMemberRepository,
	userRepo repositories.UserRepository,
	auth AuthService,
) TeamService {
	return &teamService{
		txRunner:   txRunner,
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		auth:       auth,
	}
}

func (s *teamService) CreateTeamWithCaptain(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}

	captain, err := s.userRepo.GetByID(ctx, input.CaptainID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get captain %d: %w", input.CaptainID, err)
	}

	team := &models.Team{
		Name:      input.Name,
		LogoURL:   input.LogoURL,
		CaptainID: &captain.ID,
	}

	// Команда, ссылка на капитана и его членство создаются в одной
	// транзакции: наблюдаемо либо всё, либо ничего.
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   captain.ID,
			Role:     models.TeamRoleCaptain,
			JoinDate: time.Now(),
		}
		if err := s.memberRepo.Create(ctx, exec, member); err != nil {
			return fmt.Errorf("failed to create captain membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.loadTeamRelations(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	if err := s.loadTeamRelations(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetAllTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	team.Name = input.Name
	team.LogoURL = input.LogoURL

	// Новый капитан перерезолвливается по id, только если он отличается
	// от текущего.
	var newCaptainID *int
	if input.CaptainID != nil && (team.CaptainID == nil || *team.CaptainID != *input.CaptainID) {
		captain, err := s.userRepo.GetByID(ctx, *input.CaptainID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get new captain %d: %w", *input.CaptainID, err)
		}
		newCaptainID = &captain.ID
	}

	// Правка полей и передача капитанства идут одной транзакцией.
	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Update(ctx, exec, team); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to update team %d: %w", id, err)
		}
		if newCaptainID != nil {
			if err := s.teamRepo.UpdateCaptain(ctx, exec, team.ID, newCaptainID); err != nil {
				if errors.Is(err, repositories.ErrTeamCaptainInvalid) {
					return ErrUserNotFound
				}
				if errors.Is(err, repositories.ErrTeamNotFound) {
					return ErrTeamNotFound
				}
				return fmt.Errorf("failed to transfer captaincy of team %d: %w", id, err)
			}
			team.CaptainID = newCaptainID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.loadTeamRelations(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if _, err := s.teamRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", id, err)
	}

	// Сначала записи членства, затем сама команда.
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.memberRepo.DeleteByTeamID(ctx, exec, id); err != nil {
			return err
		}
		if err := s.teamRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		return nil
	})
}

func (s *teamService) JoinTeam(ctx context.Context, teamID int, authHeader string) (*models.Team, error) {
	user, err := s.auth.CurrentUser(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	isAlreadyMember, err := s.memberRepo.ExistsByTeamAndUser(ctx, team.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isAlreadyMember {
		return nil, ErrAlreadyMember
	}

	member := &models.TeamMember{
		TeamID:   team.ID,
		UserID:   user.ID,
		Role:     models.TeamRoleRepresentative,
		JoinDate: time.Now(),
	}
	if err := s.memberRepo.Create(ctx, nil, member); err != nil {
		// Гонка двух одновременных join: уникальный индекс (team, user)
		// отлавливает дубликат, который пропустила проверка выше.
		if errors.Is(err, repositories.ErrTeamMemberConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if err := s.loadTeamRelations(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) LeaveTeam(ctx context.Context, teamID int, authHeader string) (*models.Team, error) {
	user, err := s.auth.CurrentUser(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	member, err := s.memberRepo.GetByTeamAndUser(ctx, team.ID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	// Капитан не может просто выйти: сначала передача капитанства.
	if team.CaptainID != nil && *team.CaptainID == user.ID {
		return nil, ErrCaptainMustTransfer
	}

	if err := s.memberRepo.Delete(ctx, nil, member.ID); err != nil {
		return nil, fmt.Errorf("failed to delete membership: %w", err)
	}

	if err := s.loadTeamRelations(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) loadTeamRelations(ctx context.Context, team *models.Team) error {
	members, err := s.memberRepo.ListByTeamID(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("failed to load members for team %d: %w", team.ID, err)
	}
	for i := range members {
		sanitizeUser(members[i].User)
	}
	team.Members = members

	if team.CaptainID != nil {
		captain, err := s.userRepo.GetByID(ctx, *team.CaptainID)
		if err != nil {
			if !errors.Is(err, repositories.ErrUserNotFound) {
				return fmt.Errorf("failed to load captain for team %d: %w", team.ID, err)
			}
		} else {
			sanitizeUser(captain)
			team.Captain = captain
		}
	}
	return nil
}
