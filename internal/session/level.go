package session

import "time"

// MinTimeLimit is the floor of the per-card countdown.
const MinTimeLimit = 3 * time.Second

// TimeLimit returns the per-card countdown for a level: 10s at level 1,
// one second less per level, never below MinTimeLimit. Levels below 1
// are treated as level 1.
func TimeLimit(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	limit := time.Duration(11-level) * time.Second
	if limit < MinTimeLimit {
		return MinTimeLimit
	}
	return limit
}
