package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builders over the store's
// database.
type eventRepo struct {
	db  *sql.DB
	out *appender
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	return r.out.append(ctx, table, cols, vals)
}

// applyOpts narrows and orders sel according to opts, newest first.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT(colSequence, opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT(colSequence, opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(colTimestamp, opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(colTimestamp, opts.To.UTC()))
	}
	sel.OrderBy(entsql.Desc(colSequence))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

var roundColumns = []string{
	"session_id", "parent_session_id", "action", "mode", "level", "cards",
	"time_limit_ms", "correct", "incorrect", "score",
}

func (r *eventRepo) AppendRoundEvent(ctx context.Context, data RoundEventData) error {
	err := r.insert(ctx, tableRounds, roundColumns, []any{
		data.SessionID, data.ParentSessionID, data.Action, data.Mode, data.Level, data.Cards,
		data.TimeLimitMs, data.Correct, data.Incorrect, data.Score,
	})
	if err != nil {
		return fmt.Errorf("save round event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRounds(ctx context.Context, opts QueryOpts) ([]RoundEventRecord, error) {
	cols := append([]string{colID, colSequence, colTimestamp}, roundColumns...)
	sel := applyOpts(builder().Select(cols...).From(entsql.Table(tableRounds)), opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query round events: %w", err)
	}
	defer rows.Close()

	var out []RoundEventRecord
	for rows.Next() {
		var e RoundEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.ParentSessionID, &e.Action, &e.Mode, &e.Level, &e.Cards,
			&e.TimeLimitMs, &e.Correct, &e.Incorrect, &e.Score); err != nil {
			return nil, fmt.Errorf("scan round event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var cardColumns = []string{
	"session_id", "card_index", "parent_index", "question_text", "correct_answer",
	"heard_text", "result", "reason", "time_ms",
}

func (r *eventRepo) AppendCardEvent(ctx context.Context, data CardEventData) error {
	err := r.insert(ctx, tableCards, cardColumns, []any{
		data.SessionID, data.CardIndex, data.ParentIndex, data.QuestionText, data.CorrectAnswer,
		data.HeardText, data.Result, data.Reason, data.TimeMs,
	})
	if err != nil {
		return fmt.Errorf("save card event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryCards(ctx context.Context, sessionID string) ([]CardEventRecord, error) {
	cols := append([]string{colID, colSequence, colTimestamp}, cardColumns...)
	query, args := builder().Select(cols...).
		From(entsql.Table(tableCards)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(colSequence).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query card events: %w", err)
	}
	defer rows.Close()

	var out []CardEventRecord
	for rows.Next() {
		var e CardEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.CardIndex, &e.ParentIndex, &e.QuestionText, &e.CorrectAnswer,
			&e.HeardText, &e.Result, &e.Reason, &e.TimeMs); err != nil {
			return nil, fmt.Errorf("scan card event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
