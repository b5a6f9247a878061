// Package repository declares the storage contracts the services depend on.
//
// Services import these interfaces, never a concrete database package, so a
// test can hand them an in-memory fake and production can hand them SQLite.
package repository

import (
	"context"

	"github.com/sakif/acronyms-api/internal/model"
)

// SortOrder selects the ORDER BY of an acronym listing.
type SortOrder int

const (
	// SortByID is insertion order, which is also "store order" for First.
	SortByID SortOrder = iota
	// SortByShort orders by the short form ascending, ties broken by id.
	SortByShort
)

type ListOptions struct {
	Sort SortOrder
}

type AcronymRepository interface {
	Create(ctx context.Context, acronym *model.Acronym) error
	GetByID(ctx context.Context, id int64) (*model.Acronym, error)
	List(ctx context.Context, opts ListOptions) ([]model.Acronym, error)
	Update(ctx context.Context, acronym *model.Acronym) error
	Delete(ctx context.Context, id int64) error

	// Search returns acronyms whose short OR long form equals term exactly.
	Search(ctx context.Context, term string) ([]model.Acronym, error)
	// First returns the lowest-id acronym, or ErrNotFound on an empty table.
	First(ctx context.Context) (*model.Acronym, error)
	// Owner follows the acronym's user_id to the owning user.
	Owner(ctx context.Context, acronymID int64) (*model.User, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Acronym, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// CategoryRepository also owns the acronym_category join table, since every
// join operation is phrased from one side or the other of that relationship.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)

	Attach(ctx context.Context, acronymID, categoryID int64) error
	Detach(ctx context.Context, acronymID, categoryID int64) error
	ListForAcronym(ctx context.Context, acronymID int64) ([]model.Category, error)
	ListAcronyms(ctx context.Context, categoryID int64) ([]model.Acronym, error)
}
