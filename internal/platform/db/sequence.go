package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// NextSequence atomically increments and returns the counter for a code
// namespace ("order", "table", "booking"). The single upsert-returning
// statement replaces scan-the-last-record-and-increment code generation,
// which is racy under concurrent creation.
func NextSequence(ctx context.Context, tx pgx.Tx, namespace string) (int64, error) {
	var value int64
	err := tx.QueryRow(ctx, `
		INSERT INTO code_sequences (namespace, last_value)
		VALUES ($1, 1)
		ON CONFLICT (namespace)
		DO UPDATE SET last_value = code_sequences.last_value + 1
		RETURNING last_value`, namespace).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("platform/db: next sequence %q: %w", namespace, err)
	}
	return value, nil
}
