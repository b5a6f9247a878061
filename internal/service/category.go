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

// CategoryService manages categories. Linking categories to acronyms lives
// on AcronymService.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	category := &model.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("failed to create category",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created",
		slog.Int64("id", category.ID),
		slog.String("name", category.Name),
	)
	return category, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Acronyms lists the acronyms attached to a category.
func (s *CategoryService) Acronyms(ctx context.Context, categoryID int64) ([]model.Acronym, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	acronyms, err := s.categories.ListAcronyms(ctx, categoryID)
	if err != nil {
		s.logger.Error("failed to list category acronyms",
			slog.Int64("category_id", categoryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing category acronyms: %w", err)
	}
	return acronyms, nil
}
