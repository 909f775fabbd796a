package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequencedTables share one sequence, so rounds, cards and LLM calls
// replay in the order they were written.
var sequencedTables = []string{tableRounds, tableCards, tableLLM}

// appender writes event rows. Each row takes the sequence after the
// highest one already stored in any sequenced table.
type appender struct {
	mu sync.Mutex
	db *sql.DB
}

func (a *appender) append(ctx context.Context, table string, cols []string, vals []any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", table, err)
	}
	defer tx.Rollback()

	last, err := lastSequence(ctx, tx)
	if err != nil {
		return err
	}

	cols = append([]string{colSequence, colTimestamp}, cols...)
	vals = append([]any{last + 1, time.Now().UTC()}, vals...)
	query, args := builder().Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return tx.Commit()
}

// lastSequence returns the highest sequence across the sequenced tables,
// or 0 when they are all empty.
func lastSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	var last int64
	for _, table := range sequencedTables {
		query, args := builder().Select(entsql.Max(colSequence)).From(entsql.Table(table)).Query()
		var n sql.NullInt64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return 0, fmt.Errorf("last sequence in %s: %w", table, err)
		}
		last = max(last, n.Int64)
	}
	return last, nil
}
