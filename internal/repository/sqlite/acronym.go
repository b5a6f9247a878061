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

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` fails the build if *Y stops satisfying X, instead of
// failing much later at the call site that passes it around.
var _ repository.AcronymRepository = (*AcronymDB)(nil)

const acronymColumns = `id, short, long, user_id`

// AcronymDB implements repository.AcronymRepository.
type AcronymDB struct {
	conn *sql.DB
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows, so one scan
// function serves QueryRowContext and the rows.Next() loop alike.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAcronym reads one row selected with acronymColumns.
//
// NULLABLE COLUMNS:
// user_id can be NULL. Scanning NULL into a plain int64 is an error, so we
// scan into sql.NullInt64 and convert to the model's *int64 afterwards.
func scanAcronym(s rowScanner) (model.Acronym, error) {
	var (
		a      model.Acronym
		userID sql.NullInt64
	)
	if err := s.Scan(&a.ID, &a.Short, &a.Long, &userID); err != nil {
		return model.Acronym{}, err
	}
	if userID.Valid {
		id := userID.Int64
		a.UserID = &id
	}
	return a, nil
}

// nullableID is the write-side counterpart of the NullInt64 scan above.
func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// Create inserts a new acronym and writes the generated id back into it.
//
// Any id the caller set is ignored: the column is AUTOINCREMENT and
// LastInsertId tells us what SQLite picked.
func (db *AcronymDB) Create(ctx context.Context, acronym *model.Acronym) error {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO acronyms (short, long, user_id) VALUES (?, ?, ?)`,
		acronym.Short,
		acronym.Long,
		nullableID(acronym.UserID),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating acronym: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading acronym id: %w", err)
	}
	acronym.ID = id

	return nil
}

// GetByID retrieves a single acronym. sql.ErrNoRows becomes apperror.NotFound
// so the handler can answer 404 without knowing anything about SQL.
func (db *AcronymDB) GetByID(ctx context.Context, id int64) (*model.Acronym, error) {
	a, err := scanAcronym(db.conn.QueryRowContext(ctx,
		`SELECT `+acronymColumns+` FROM acronyms WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("acronym", id)
		}
		return nil, fmt.Errorf("sqlite: getting acronym %d: %w", id, err)
	}
	return &a, nil
}

// List returns every acronym in the requested order.
//
// The ORDER BY clause is picked from a fixed set, never built from input, so
// there is nothing to inject.
func (db *AcronymDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Acronym, error) {
	orderBy := "id"
	if opts.Sort == repository.SortByShort {
		orderBy = "short ASC, id ASC"
	}

	return db.query(ctx, "listing acronyms",
		`SELECT `+acronymColumns+` FROM acronyms ORDER BY `+orderBy,
	)
}

// Update overwrites short, long and user_id. RowsAffected of zero means the
// WHERE matched nothing, which is our NotFound.
func (db *AcronymDB) Update(ctx context.Context, acronym *model.Acronym) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE acronyms SET short = ?, long = ?, user_id = ? WHERE id = ?`,
		acronym.Short,
		acronym.Long,
		nullableID(acronym.UserID),
		acronym.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating acronym %d: %w", acronym.ID, err)
	}

	return checkAffected(result, "acronym", acronym.ID)
}

// Delete removes an acronym. Its category links go with it (ON DELETE CASCADE).
func (db *AcronymDB) Delete(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM acronyms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting acronym %d: %w", id, err)
	}

	return checkAffected(result, "acronym", id)
}

// Search is an exact match on either form, not a substring match.
func (db *AcronymDB) Search(ctx context.Context, term string) ([]model.Acronym, error) {
	return db.query(ctx, "searching acronyms",
		`SELECT `+acronymColumns+` FROM acronyms
		 WHERE short = ? OR long = ?
		 ORDER BY id`,
		term, term,
	)
}

func (db *AcronymDB) First(ctx context.Context) (*model.Acronym, error) {
	a, err := scanAcronym(db.conn.QueryRowContext(ctx,
		`SELECT `+acronymColumns+` FROM acronyms ORDER BY id LIMIT 1`,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Missing("no acronyms exist")
		}
		return nil, fmt.Errorf("sqlite: getting first acronym: %w", err)
	}
	return &a, nil
}

// Owner resolves the acronym's owner in two steps so the caller can tell a
// missing acronym, an unowned acronym and a dangling owner apart.
func (db *AcronymDB) Owner(ctx context.Context, acronymID int64) (*model.User, error) {
	var userID sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id FROM acronyms WHERE id = ?`, acronymID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("acronym", acronymID)
		}
		return nil, fmt.Errorf("sqlite: getting owner of acronym %d: %w", acronymID, err)
	}
	if !userID.Valid {
		return nil, apperror.Missing(fmt.Sprintf("acronym %d has no owner", acronymID))
	}

	return getUser(ctx, db.conn, userID.Int64)
}

func (db *AcronymDB) ListByUser(ctx context.Context, userID int64) ([]model.Acronym, error) {
	return db.query(ctx, "listing acronyms by user",
		`SELECT `+acronymColumns+` FROM acronyms WHERE user_id = ? ORDER BY id`,
		userID,
	)
}

// query runs a multi-row SELECT of acronymColumns.
//
// defer rows.Close() matters: an unclosed *sql.Rows keeps its connection out
// of the pool, and with ":memory:" the pool has exactly one.
func (db *AcronymDB) query(ctx context.Context, op, q string, args ...any) ([]model.Acronym, error) {
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	defer rows.Close()

	return collectAcronyms(rows, op)
}

// collectAcronyms drains rows. The result is never nil so an empty listing
// encodes as [] rather than null.
func collectAcronyms(rows *sql.Rows, op string) ([]model.Acronym, error) {
	acronyms := []model.Acronym{}
	for rows.Next() {
		a, err := scanAcronym(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %s: scanning row: %w", op, err)
		}
		acronyms = append(acronyms, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: %s: iterating rows: %w", op, err)
	}
	return acronyms, nil
}

// checkAffected turns "zero rows changed" into NotFound for UPDATE and DELETE.
func checkAffected(result sql.Result, resource string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
