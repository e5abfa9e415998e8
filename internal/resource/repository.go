package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// Repository implements List/GetByID/Create/Update/Delete for one entity
// type against one SQLite table. E is the entity, P its payload (the
// caller-supplied mutable field set).
//
// One Repository instance exists per entity; per-entity behavior lives in
// the constructor configuration, never in copies of the operation logic.
type Repository[E any, P any] struct {
	db      *sql.DB
	table   string
	columns []string

	// scan reads key + columns (in declaration order) into an entity.
	scan func(s rowScanner) (*E, error)
	// bind produces the column values for a payload, matching columns order.
	bind func(p P) []any
	// build assembles the entity returned by Create/Update.
	build func(id int64, p P) *E

	// notFoundOnEmptyList makes List report ErrNotFound for an empty table
	// instead of an empty slice. Set only for devices; the public API has
	// always answered 404 there and clients depend on it.
	notFoundOnEmptyList bool

	selectQuery string
	insertQuery string
	updateQuery string
}

// newRepository wires the prepared SQL for a table. keyColumn is always
// "id"; the table and column list come from the per-entity constructors.
func newRepository[E any, P any](
	db *sql.DB,
	table string,
	columns []string,
	scan func(s rowScanner) (*E, error),
	bind func(p P) []any,
	build func(id int64, p P) *E,
	notFoundOnEmptyList bool,
) *Repository[E, P] {
	all := append([]string{"id"}, columns...)

	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = ?"
	}

	return &Repository[E, P]{
		db:                  db,
		table:               table,
		columns:             columns,
		scan:                scan,
		bind:                bind,
		build:               build,
		notFoundOnEmptyList: notFoundOnEmptyList,
		selectQuery: fmt.Sprintf("SELECT %s FROM %s",
			strings.Join(all, ", "), table),
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(all, ", "), placeholders(len(all))),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE id = ?",
			table, strings.Join(sets, ", ")),
	}
}

// List retrieves all rows, ordered by key. An empty table yields an empty
// slice, or ErrNotFound when the repository is configured that way.
func (r *Repository[E, P]) List(ctx context.Context) ([]E, error) {
	rows, err := r.db.QueryContext(ctx, r.selectQuery+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.table, err)
	}
	defer rows.Close()

	entities := []E{}
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", r.table, err)
		}
		entities = append(entities, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", r.table, err)
	}

	if len(entities) == 0 && r.notFoundOnEmptyList {
		return nil, ErrNotFound
	}
	return entities, nil
}

// GetByID retrieves the single row matching id, or ErrNotFound.
func (r *Repository[E, P]) GetByID(ctx context.Context, id int64) (*E, error) {
	row := r.db.QueryRowContext(ctx, r.selectQuery+" WHERE id = ?", id)
	e, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying %s by id: %w", r.table, err)
	}
	return e, nil
}

// Create allocates a key and inserts a new row in one transaction.
// Either the full row is inserted or nothing is: a failure after
// allocation rolls the insert back (the allocated value is burned,
// never handed to another caller).
func (r *Repository[E, P]) Create(ctx context.Context, p P) (*E, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting %s create: %w", r.table, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	id, err := nextID(ctx, tx, r.table)
	if err != nil {
		return nil, err
	}

	args := append([]any{id}, r.bind(p)...)
	if _, err := tx.ExecContext(ctx, r.insertQuery, args...); err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s references a missing parent row", ErrConflict, r.table)
		}
		return nil, fmt.Errorf("inserting %s: %w", r.table, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing %s create: %w", r.table, err)
	}

	return r.build(id, p), nil
}

// Update overwrites all mutable fields of the row matching id. The key and
// table membership never change. Returns ErrNotFound without writing when
// no row matches.
func (r *Repository[E, P]) Update(ctx context.Context, id int64, p P) (*E, error) {
	args := append(r.bind(p), id)
	result, err := r.db.ExecContext(ctx, r.updateQuery, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s references a missing parent row", ErrConflict, r.table)
		}
		return nil, fmt.Errorf("updating %s: %w", r.table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.build(id, p), nil
}

// Delete removes the row matching id. Returns ErrNotFound when no row
// matched, and ErrConflict when dependent rows still reference it.
func (r *Repository[E, P]) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s row is still referenced", ErrConflict, r.table)
		}
		return fmt.Errorf("deleting %s: %w", r.table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isForeignKeyViolation checks if an error is a SQLite FK constraint failure.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a scanned nullable column back to a pointer.
func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// nullableTime returns a sql.NullString for optional times (RFC3339 text).
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// formatTime renders a required timestamp column as RFC3339 text.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
