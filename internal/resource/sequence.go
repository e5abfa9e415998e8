package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// nextID allocates the next primary key for a table from the id_sequences
// counter inside the caller's transaction.
//
// The counter bump is a single atomic UPDATE, so two transactions can never
// observe the same value: the second writer blocks on the row lock until the
// first commits or rolls back. A rolled-back insert burns its value, which
// keeps allocated keys monotonically non-decreasing without reuse.
func nextID(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	var allocated int64
	err := tx.QueryRowContext(ctx,
		`UPDATE id_sequences SET next_id = next_id + 1 WHERE table_name = ? RETURNING next_id - 1`,
		table,
	).Scan(&allocated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("no id sequence registered for table %q", table)
		}
		return 0, fmt.Errorf("allocating id for %s: %w", table, err)
	}
	return allocated, nil
}
