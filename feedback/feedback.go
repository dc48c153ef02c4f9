// Package feedback computes the colored five-cell response a Wordle
// guess receives against a hypothetical solution, and encodes that
// response as a compact base-3 integer.
package feedback

import "strings"

// Cell is the color of a single letter position in a guess.
type Cell int

const (
	Absent Cell = iota
	Present
	Correct
)

// Length is the fixed word length this package operates on.
const Length = 5

// MaxValue is the largest encoded Feedback value, 3^Length - 1.
const MaxValue = 242

// Feedback is the colored response for a guess of Length letters.
type Feedback [Length]Cell

// Compute returns the Feedback for guess against solution, using Wordle's
// duplicate-letter rule: exact matches are resolved first and consume
// their solution slot, then remaining guess letters are checked for
// presence against unconsumed solution slots, left to right.
//
// Compute panics if guess and solution differ in length; callers are
// expected to only ever compare equal-length words.
func Compute(guess, solution string) Feedback {
	if len(guess) != len(solution) {
		panic("feedback: guess and solution must be the same length")
	}

	g := []byte(guess)
	s := []byte(solution)
	n := len(g)

	var fb Feedback
	consumed := make([]bool, n)

	// pass 1: exact matches
	for i := 0; i < n; i++ {
		if g[i] == s[i] {
			fb[i] = Correct
			consumed[i] = true
		}
	}

	// pass 2: presence, scanning left to right for the first unconsumed slot
	for i := 0; i < n; i++ {
		if fb[i] == Correct {
			continue
		}
		for j := 0; j < n; j++ {
			if consumed[j] {
				continue
			}
			if g[i] == s[j] {
				fb[i] = Present
				consumed[j] = true
				break
			}
		}
	}

	return fb
}

// Encode packs fb into a base-3 integer, position 0 contributing the
// least-significant trit.
func Encode(fb Feedback) uint32 {
	var v uint32
	p := uint32(1)
	for i := 0; i < Length; i++ {
		v += uint32(fb[i]) * p
		p *= 3
	}
	return v
}

// Decode unpacks a base-3 integer produced by Encode back into a Feedback.
func Decode(v uint32) Feedback {
	var fb Feedback
	for i := 0; i < Length; i++ {
		fb[i] = Cell(v % 3)
		v /= 3
	}
	return fb
}

// Parse reads a textual feedback string: 'c'/'C' -> Correct, 'p'/'P' ->
// Present, and '_', '-', 'a' -> Absent. Any other rune, or a string whose
// length isn't Length, fails with ok=false and a zero-valued Feedback.
func Parse(text string) (fb Feedback, ok bool) {
	if len(text) != Length {
		return Feedback{}, false
	}

	for i := 0; i < Length; i++ {
		switch text[i] {
		case 'c', 'C':
			fb[i] = Correct
		case 'p', 'P':
			fb[i] = Present
		case '_', '-', 'a':
			fb[i] = Absent
		default:
			return Feedback{}, false
		}
	}
	return fb, true
}

// Display renders fb as a row of emoji squares, green/yellow/white for
// Correct/Present/Absent respectively.
func Display(fb Feedback) string {
	var b strings.Builder
	for _, c := range fb {
		switch c {
		case Correct:
			b.WriteString("🟩")
		case Present:
			b.WriteString("🟨")
		default:
			b.WriteString("⬜")
		}
	}
	return b.String()
}
