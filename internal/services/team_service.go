package services

import (
	"context"
	"strings"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure TeamServiceImpl implements TeamService
var _ TeamService = (*TeamServiceImpl)(nil)

// TeamServiceImpl handles team directory operations
type TeamServiceImpl struct {
	teamRepo repositories.TeamRepository
}

// NewTeamService creates a new TeamServiceImpl
func NewTeamService(teamRepo repositories.TeamRepository) *TeamServiceImpl {
	return &TeamServiceImpl{
		teamRepo: teamRepo,
	}
}

// CreateTeam creates a new team
func (s *TeamServiceImpl) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("invalid team", map[string]string{"name": "required"})
	}
	team := &models.Team{Name: name}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeam returns a team by id
func (s *TeamServiceImpl) GetTeam(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	return s.teamRepo.FindByID(ctx, id)
}

// ListTeams returns all teams
func (s *TeamServiceImpl) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.teamRepo.FindAll(ctx)
}
