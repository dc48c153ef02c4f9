package searchstate

import (
	"sort"

	"github.com/de-upayan/wordle-engine/dictionary"
	"github.com/de-upayan/wordle-engine/keyboard"
)

// WordEntropy pairs a candidate guess with its fixed-point entropy,
// scaled by 1000 (spec.md §3).
type WordEntropy struct {
	Word    dictionary.Word
	Entropy uint32
}

// sortEntropiesDecreasing sorts in place: decreasing Entropy, ties
// broken by ascending word text, matching spec.md §3's "ties broken by
// word" for a deterministic, reproducible ranking.
func sortEntropiesDecreasing(we []WordEntropy) {
	sort.Slice(we, func(i, j int) bool {
		if we[i].Entropy != we[j].Entropy {
			return we[i].Entropy > we[j].Entropy
		}
		return we[i].Word.Text < we[j].Word.Text
	})
}

// ScoredEntropy pairs a WordEntropy with an integer keyboard tie-break
// score (spec.md §3).
type ScoredEntropy struct {
	Entropy WordEntropy
	Score   int
}

// scoreWord computes the keyboard tie-break score for a word: for each
// distinct letter (first occurrence only) add its keyboard state's
// weight (spec.md §4.3).
func scoreWord(word string, kb keyboard.Keyboard) int {
	seen := make(map[rune]bool, len(word))
	score := 0
	for _, r := range word {
		if seen[r] {
			continue
		}
		seen[r] = true
		score += int(kb.State(r))
	}
	return score
}

// newScoredEntropy builds a ScoredEntropy from a WordEntropy and a
// Keyboard.
func newScoredEntropy(we WordEntropy, kb keyboard.Keyboard) ScoredEntropy {
	return ScoredEntropy{Entropy: we, Score: scoreWord(we.Word.Text, kb)}
}

// sortScoredDecreasing sorts in place: decreasing Score, ties retaining
// the input (H2) order — spec.md §3 "ties retaining the H2 order", so
// this must be a stable sort.
func sortScoredDecreasing(se []ScoredEntropy) {
	sort.SliceStable(se, func(i, j int) bool {
		return se[i].Score > se[j].Score
	})
}
