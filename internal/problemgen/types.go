package problemgen

import "fmt"

// MinOperand and MaxOperand bound both factors of a times-table card.
const (
	MinOperand = 2
	MaxOperand = 9
)

// Problem is a single multiplication card. Immutable once generated.
type Problem struct {
	A      int
	B      int
	Answer int
}

// NewProblem builds a Problem from two operands, computing the product.
func NewProblem(a, b int) Problem {
	return Problem{A: a, B: b, Answer: a * b}
}

// Text returns the unanswered face of the card, e.g. "3 × 4 = ?".
func (p Problem) Text() string {
	return fmt.Sprintf("%d × %d = ?", p.A, p.B)
}

// Expression returns the card without the answer slot, e.g. "3 × 4".
func (p Problem) Expression() string {
	return fmt.Sprintf("%d × %d", p.A, p.B)
}

// Check reports whether guess is the product.
func (p Problem) Check(guess int) bool {
	return guess == p.Answer
}
