package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableRounds = "round_events"
	tableCards  = "card_events"
	tableLLM    = "llm_request_events"

	colID        = "id"
	colSequence  = "sequence"
	colTimestamp = "timestamp"
)

// eventColumns returns the base columns every event table carries: a
// global sequence number and a UTC wall-clock timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
	}
	return append(cols, extra...)
}

func eventTable(name string, extra ...*schema.Column) *schema.Table {
	cols := eventColumns(extra...)
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	t.Indexes = []*schema.Index{
		{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
	}
	return t
}

var (
	roundEventsTable = eventTable(tableRounds,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "parent_session_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "mode", Type: field.TypeString},
		&schema.Column{Name: "level", Type: field.TypeInt},
		&schema.Column{Name: "cards", Type: field.TypeInt},
		&schema.Column{Name: "time_limit_ms", Type: field.TypeInt64},
		&schema.Column{Name: "correct", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "incorrect", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "score", Type: field.TypeInt, Default: 0},
	)

	cardEventsTable = eventTable(tableCards,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "card_index", Type: field.TypeInt},
		&schema.Column{Name: "parent_index", Type: field.TypeInt, Default: -1},
		&schema.Column{Name: "question_text", Type: field.TypeString},
		&schema.Column{Name: "correct_answer", Type: field.TypeInt},
		&schema.Column{Name: "heard_text", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "result", Type: field.TypeString},
		&schema.Column{Name: "reason", Type: field.TypeString},
		&schema.Column{Name: "time_ms", Type: field.TypeInt64, Default: 0},
	)

	llmRequestEventsTable = eventTable(tableLLM,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	)

	// Tables holds every table the store manages.
	Tables = []*schema.Table{
		roundEventsTable,
		cardEventsTable,
		llmRequestEventsTable,
	}
)

func init() {
	roundEventsTable.Indexes = append(roundEventsTable.Indexes,
		&schema.Index{Name: "round_events_session_id", Columns: []*schema.Column{roundEventsTable.Columns[3]}})
	cardEventsTable.Indexes = append(cardEventsTable.Indexes,
		&schema.Index{Name: "card_events_session_id", Columns: []*schema.Column{cardEventsTable.Columns[3]}})
	llmRequestEventsTable.Indexes = append(llmRequestEventsTable.Indexes,
		&schema.Index{Name: "llm_request_events_purpose", Columns: []*schema.Column{llmRequestEventsTable.Columns[5]}})
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
