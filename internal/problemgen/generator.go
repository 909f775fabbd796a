package problemgen

import (
	"math/rand/v2"
	"time"
)

// Generator produces batches of times-table problems.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded from the wall clock.
func New() *Generator {
	now := uint64(time.Now().UnixNano())
	return NewSeeded(now, now>>1)
}

// NewSeeded creates a Generator with a fixed PCG seed. Batches are
// reproducible for the same seed pair.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Generate returns count problems whose operands are drawn independently
// and uniformly from [MinOperand, MaxOperand]. Duplicates are allowed.
func (g *Generator) Generate(count int) []Problem {
	if count <= 0 {
		return []Problem{}
	}
	problems := make([]Problem, count)
	for i := range problems {
		problems[i] = NewProblem(g.operand(), g.operand())
	}
	return problems
}

func (g *Generator) operand() int {
	return MinOperand + g.rng.IntN(MaxOperand-MinOperand+1)
}
