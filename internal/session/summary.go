package session

// Summary holds the data displayed on the finished screen.
type Summary struct {
	Correct   int
	Incorrect int
	Total     int
	Score     int // 0-100
}

// Summarize counts results and computes the percentage score, rounded
// half up. A board with no cards scores 0.
func Summarize(s *Session) Summary {
	sum := Summary{Total: len(s.Results)}
	for _, r := range s.Results {
		switch r {
		case Correct:
			sum.Correct++
		case Incorrect:
			sum.Incorrect++
		}
	}
	sum.Score = Score(sum.Correct, sum.Total)
	return sum
}

// Score returns round(correct/total*100) using integer arithmetic.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (correct*200 + total) / (2 * total)
}
