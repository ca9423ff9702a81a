package services

import (
	"context"
	"strings"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl handles user directory operations
type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserServiceImpl
func NewUserService(userRepo repositories.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

// GetUser returns a user by id
func (s *UserServiceImpl) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// ListUsers returns users with pagination
func (s *UserServiceImpl) ListUsers(ctx context.Context, page, limit int) ([]*models.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	users, err := s.userRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// CreateUser creates a directory user (administrative path, no password)
func (s *UserServiceImpl) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	fields := map[string]string{}
	if strings.TrimSpace(user.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(user.Email) == "" {
		fields["email"] = "required"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid user", fields)
	}
	if len(user.Roles) == 0 {
		user.Roles = []models.Role{models.RoleUser}
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies profile-completion fields to the user's own record
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID primitive.ObjectID, params UpdateProfileParams) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, apperrors.Validation("invalid profile", map[string]string{"name": "required"})
		}
		user.Name = *params.Name
	}
	if params.Manager != nil {
		user.Manager = *params.Manager
	}
	if params.TeamRole != nil {
		user.TeamRole = *params.TeamRole
	}
	if params.Teams != nil {
		user.Teams = params.Teams
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
