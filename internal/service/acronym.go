// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     -> parses requests, writes responses
//	Service (Business layer) -> presence checks, orchestration, logging
//	Repository (Data layer)  -> reads/writes the database
//
// Services take repository INTERFACES, not *sqlite.DB, so tests can inject
// in-memory fakes (see acronym_test.go) and nothing in here imports SQL.
//
// Services also never see HTTP: they accept plain values and return
// apperror values, and the handler decides what status code that means.
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

// AcronymService handles business logic for acronyms and their relationships.
//
// It needs the category repository too: attaching a category is phrased from
// the acronym's side (/api/acronyms/{id}/categories/{catID}).
type AcronymService struct {
	acronyms   repository.AcronymRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewAcronymService(
	acronyms repository.AcronymRepository,
	categories repository.CategoryRepository,
	logger *slog.Logger,
) *AcronymService {
	return &AcronymService{
		acronyms:   acronyms,
		categories: categories,
		logger:     logger,
	}
}

// AcronymInput carries the writable fields of an acronym. Create and Update
// both take it, so they always agree on what a client may set.
type AcronymInput struct {
	Short  string
	Long   string
	UserID *int64
}

// normalize trims both forms and rejects blanks. This is the only validation
// acronyms get: there is no length limit and no uniqueness rule.
func (in AcronymInput) normalize() (AcronymInput, error) {
	in.Short = strings.TrimSpace(in.Short)
	in.Long = strings.TrimSpace(in.Long)

	if in.Short == "" {
		return in, apperror.ValidationFailed("short", "short is required")
	}
	if in.Long == "" {
		return in, apperror.ValidationFailed("long", "long is required")
	}
	return in, nil
}

func (s *AcronymService) List(ctx context.Context) ([]model.Acronym, error) {
	acronyms, err := s.acronyms.List(ctx, repository.ListOptions{Sort: repository.SortByID})
	if err != nil {
		s.logger.Error("failed to list acronyms", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing acronyms: %w", err)
	}
	return acronyms, nil
}

// Sorted lists every acronym ordered by its short form.
func (s *AcronymService) Sorted(ctx context.Context) ([]model.Acronym, error) {
	acronyms, err := s.acronyms.List(ctx, repository.ListOptions{Sort: repository.SortByShort})
	if err != nil {
		s.logger.Error("failed to list sorted acronyms", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing sorted acronyms: %w", err)
	}
	return acronyms, nil
}

// Create stores a new acronym. The repository assigns the id.
func (s *AcronymService) Create(ctx context.Context, in AcronymInput) (*model.Acronym, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	acronym := &model.Acronym{
		Short:  in.Short,
		Long:   in.Long,
		UserID: in.UserID,
	}

	if err := s.acronyms.Create(ctx, acronym); err != nil {
		s.logger.Error("failed to create acronym",
			slog.String("short", in.Short),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating acronym: %w", err)
	}

	s.logger.Info("acronym created",
		slog.Int64("id", acronym.ID),
		slog.String("short", acronym.Short),
	)

	return acronym, nil
}

// GetByID returns apperror.ErrNotFound if the acronym doesn't exist.
func (s *AcronymService) GetByID(ctx context.Context, id int64) (*model.Acronym, error) {
	// NotFound is an ordinary outcome, so it propagates without being logged.
	return s.acronyms.GetByID(ctx, id)
}

// Update replaces short, long and owner of an existing acronym.
//
// STRATEGY: "fetch then update"
// The fetch gives a clean NotFound before anything is written, and it means
// a missing id can never turn into an insert.
func (s *AcronymService) Update(ctx context.Context, id int64, in AcronymInput) (*model.Acronym, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	acronym, err := s.acronyms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acronym.Short = in.Short
	acronym.Long = in.Long
	acronym.UserID = in.UserID

	if err := s.acronyms.Update(ctx, acronym); err != nil {
		s.logger.Error("failed to update acronym",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating acronym: %w", err)
	}

	s.logger.Info("acronym updated", slog.Int64("id", acronym.ID))

	return acronym, nil
}

func (s *AcronymService) Delete(ctx context.Context, id int64) error {
	if err := s.acronyms.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("acronym deleted", slog.Int64("id", id))
	return nil
}

// Search finds acronyms whose short or long form equals term exactly.
// The term is not trimmed: " LOL" and "LOL" are different searches.
func (s *AcronymService) Search(ctx context.Context, term string) ([]model.Acronym, error) {
	if term == "" {
		return nil, apperror.ValidationFailed("term", "term query parameter is required")
	}

	acronyms, err := s.acronyms.Search(ctx, term)
	if err != nil {
		s.logger.Error("failed to search acronyms",
			slog.String("term", term),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("searching acronyms: %w", err)
	}
	return acronyms, nil
}

func (s *AcronymService) First(ctx context.Context) (*model.Acronym, error) {
	return s.acronyms.First(ctx)
}

// Owner returns the user that owns the acronym. Missing acronym, unowned
// acronym and missing user all come back as ErrNotFound.
func (s *AcronymService) Owner(ctx context.Context, id int64) (*model.User, error) {
	return s.acronyms.Owner(ctx, id)
}

// AttachCategory links the acronym to the category.
//
// Both rows are looked up first so a bad id is a 404 naming the missing side,
// rather than an opaque foreign key failure. Attaching an existing link
// succeeds without creating a duplicate.
func (s *AcronymService) AttachCategory(ctx context.Context, acronymID, categoryID int64) error {
	if err := s.requirePair(ctx, acronymID, categoryID); err != nil {
		return err
	}

	if err := s.categories.Attach(ctx, acronymID, categoryID); err != nil {
		s.logger.Error("failed to attach category",
			slog.Int64("acronym_id", acronymID),
			slog.Int64("category_id", categoryID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("attaching category: %w", err)
	}

	s.logger.Info("category attached",
		slog.Int64("acronym_id", acronymID),
		slog.Int64("category_id", categoryID),
	)
	return nil
}

// DetachCategory unlinks the acronym from the category. Detaching a link that
// does not exist is a no-op, but both the acronym and the category must.
func (s *AcronymService) DetachCategory(ctx context.Context, acronymID, categoryID int64) error {
	if err := s.requirePair(ctx, acronymID, categoryID); err != nil {
		return err
	}

	if err := s.categories.Detach(ctx, acronymID, categoryID); err != nil {
		s.logger.Error("failed to detach category",
			slog.Int64("acronym_id", acronymID),
			slog.Int64("category_id", categoryID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("detaching category: %w", err)
	}

	s.logger.Info("category detached",
		slog.Int64("acronym_id", acronymID),
		slog.Int64("category_id", categoryID),
	)
	return nil
}

// Categories lists the categories an acronym belongs to.
func (s *AcronymService) Categories(ctx context.Context, acronymID int64) ([]model.Category, error) {
	if _, err := s.acronyms.GetByID(ctx, acronymID); err != nil {
		return nil, err
	}

	categories, err := s.categories.ListForAcronym(ctx, acronymID)
	if err != nil {
		s.logger.Error("failed to list acronym categories",
			slog.Int64("acronym_id", acronymID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing acronym categories: %w", err)
	}
	return categories, nil
}

func (s *AcronymService) requirePair(ctx context.Context, acronymID, categoryID int64) error {
	if _, err := s.acronyms.GetByID(ctx, acronymID); err != nil {
		return err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return nil
}
