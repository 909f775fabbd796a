package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// LLM events only.
	Purpose    string // exact purpose match
	FailedOnly bool   // success = false
}

// Round event actions.
const (
	RoundStart  = "start"
	RoundFinish = "finish"
)

// RoundEventData captures the start or finish of a board.
type RoundEventData struct {
	SessionID       string
	ParentSessionID string // set for retry boards
	Action          string // RoundStart or RoundFinish
	Mode            string
	Level           int
	Cards           int
	TimeLimitMs     int64
	Correct         int
	Incorrect       int
	Score           int
}

// RoundEventRecord is a stored round event.
type RoundEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RoundEventData
}

// CardEventData captures the grading of a single card.
type CardEventData struct {
	SessionID     string
	CardIndex     int
	ParentIndex   int // -1 unless graded on a retry board
	QuestionText  string
	CorrectAnswer int
	HeardText     string
	Result        string
	Reason        string
	TimeMs        int64
}

// CardEventRecord is a stored card event.
type CardEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	CardEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendRoundEvent records a board starting or finishing.
	AppendRoundEvent(ctx context.Context, data RoundEventData) error

	// AppendCardEvent records a graded card.
	AppendCardEvent(ctx context.Context, data CardEventData) error

	// QueryRounds returns round events, newest first.
	QueryRounds(ctx context.Context, opts QueryOpts) ([]RoundEventRecord, error)

	// QueryCards returns the card events of one board in grading order.
	QueryCards(ctx context.Context, sessionID string) ([]CardEventRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM request event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
