package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/acronyms-api/internal/apperror"
	"github.com/sakif/acronyms-api/internal/model"
	"github.com/sakif/acronyms-api/internal/repository"
)

// UserService manages the users that can own acronyms.
type UserService struct {
	users    repository.UserRepository
	acronyms repository.AcronymRepository
	logger   *slog.Logger
}

func NewUserService(users repository.UserRepository, acronyms repository.AcronymRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		acronyms: acronyms,
		logger:   logger,
	}
}

func (s *UserService) Create(ctx context.Context, name, username string) (*model.User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}

	user := &model.User{Name: name, Username: username}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Acronyms lists the acronyms a user owns. An unknown user is ErrNotFound,
// not an empty list.
func (s *UserService) Acronyms(ctx context.Context, userID int64) ([]model.Acronym, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	acronyms, err := s.acronyms.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user acronyms",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing user acronyms: %w", err)
	}
	return acronyms, nil
}
