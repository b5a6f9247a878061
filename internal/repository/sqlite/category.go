package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/acronyms-api/internal/apperror"
	"github.com/sakif/acronyms-api/internal/model"
	"github.com/sakif/acronyms-api/internal/repository"
)

var _ repository.CategoryRepository = (*CategoryDB)(nil)

// CategoryDB implements repository.CategoryRepository over the categories
// table and the acronym_category join table.
type CategoryDB struct {
	conn *sql.DB
}

func (db *CategoryDB) Create(ctx context.Context, category *model.Category) error {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`,
		category.Name,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating category %q: %w", category.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading category id: %w", err)
	}
	category.ID = id

	return nil
}

func (db *CategoryDB) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqlite: getting category %d: %w", id, err)
	}

	return &c, nil
}

func (db *CategoryDB) List(ctx context.Context) ([]model.Category, error) {
	return db.queryCategories(ctx, "listing categories",
		`SELECT id, name FROM categories ORDER BY id`,
	)
}

// Attach links an acronym to a category.
//
// INSERT OR IGNORE:
// (acronym_id, category_id) is the join table's primary key. Attaching a pair
// that is already linked hits that key and is silently skipped, so Attach is
// idempotent. A reference to a missing row still fails the foreign key check.
func (db *CategoryDB) Attach(ctx context.Context, acronymID, categoryID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO acronym_category (acronym_id, category_id) VALUES (?, ?)`,
		acronymID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: attaching category %d to acronym %d: %w", categoryID, acronymID, err)
	}
	return nil
}

// Detach unlinks an acronym from a category. Unlinking a pair that was never
// linked deletes nothing and is not an error.
func (db *CategoryDB) Detach(ctx context.Context, acronymID, categoryID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM acronym_category WHERE acronym_id = ? AND category_id = ?`,
		acronymID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: detaching category %d from acronym %d: %w", categoryID, acronymID, err)
	}
	return nil
}

// ListForAcronym returns the categories linked to one acronym.
func (db *CategoryDB) ListForAcronym(ctx context.Context, acronymID int64) ([]model.Category, error) {
	return db.queryCategories(ctx, "listing categories of acronym",
		`SELECT c.id, c.name
		 FROM categories c
		 JOIN acronym_category ac ON ac.category_id = c.id
		 WHERE ac.acronym_id = ?
		 ORDER BY c.id`,
		acronymID,
	)
}

// ListAcronyms returns the acronyms linked to one category.
func (db *CategoryDB) ListAcronyms(ctx context.Context, categoryID int64) ([]model.Acronym, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT a.id, a.short, a.long, a.user_id
		 FROM acronyms a
		 JOIN acronym_category ac ON ac.acronym_id = a.id
		 WHERE ac.category_id = ?
		 ORDER BY a.id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing acronyms of category: %w", err)
	}
	defer rows.Close()

	return collectAcronyms(rows, "listing acronyms of category")
}

func (db *CategoryDB) queryCategories(ctx context.Context, op, q string, args ...any) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlite: %s: scanning row: %w", op, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: %s: iterating rows: %w", op, err)
	}

	return categories, nil
}
