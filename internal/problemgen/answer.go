package problemgen

import (
	"math"
	"unicode"
)

// ParseAnswer extracts the first maximal run of decimal digits from a
// transcription and returns it as an integer.
//
// Normalization rules:
// - Any Unicode decimal digit counts, so "１２" yields 12
// - Signs, separators and number words are ignored
// - "the answer is twelve 12" yields 12, "no numbers here" yields false
// - A run too long for int saturates at math.MaxInt, which never matches
func ParseAnswer(text string) (int, bool) {
	n, found := 0, false
	for _, r := range text {
		if !unicode.IsDigit(r) {
			if found {
				break
			}
			continue
		}
		found = true
		d := digitValue(r)
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + d
	}
	return n, found
}

// digitValue returns the value of a decimal digit rune. Unicode encodes
// decimal digits as contiguous runs of complete 0-9 sets, so the offset
// from the start of the run gives the value.
func digitValue(r rune) int {
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10
}
