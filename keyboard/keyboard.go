// Package keyboard defines the tie-break scoring contract the search
// engine's ScoredEntropy uses. The engine treats a Keyboard purely as a
// per-letter state lookup; the decoration logic that derives that state
// from a history of guesses is an external collaborator's concern
// (spec.md §1), not something the engine depends on.
package keyboard

import "github.com/de-upayan/wordle-engine/feedback"

// LetterState is the decoration state of one keyboard letter. The
// numeric values are the tie-break weights spec.md §4.3 adds into a
// ScoredEntropy score, grounded in original_source/keyboard.h's
// Letter::State enum (kAbsent=0, kPresent=1, kUntested=3): a letter
// that has never been guessed is worth more to probe than one already
// known present, which is worth more than one already known absent.
// There is no separate "correct" weight — the original folds a
// Correct-position letter into Present when updating the keyboard,
// since either way the letter is confirmed to be in the word.
type LetterState int

const (
	Absent   LetterState = 0
	Present  LetterState = 1
	Untested LetterState = 3
)

// Keyboard is the read-only contract the search engine's tie-break
// scoring depends on.
type Keyboard interface {
	// State returns the decoration state of the given lowercase letter.
	State(letter rune) LetterState
}

// Tracker is a convenience, mutable Keyboard implementation an
// interactive layer could drive with Update. It is grounded in
// original_source/keyboard.cpp's per-letter update rule, but its update
// logic is not exercised by the search engine itself — only the
// Keyboard interface is, via ScoredEntropy.
type Tracker struct {
	states map[rune]LetterState
}

// NewTracker creates a Tracker with every letter Untested.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[rune]LetterState)}
}

// State implements Keyboard.
func (t *Tracker) State(letter rune) LetterState {
	if s, ok := t.states[letter]; ok {
		return s
	}
	return Untested
}

// Update folds one guess's Feedback into the tracker. A letter is
// Present if any position of this guess colors it Correct or Present
// (Correct is folded into Present, per the original's rule — either
// way the letter is confirmed to be in the word); it is Absent only if
// every position of this guess shows it Absent. A letter already
// recorded Present or Absent is not reconsidered: with duplicate
// letters, one guess can color one copy Present and another copy of
// the same letter Absent (the solution has fewer copies than guessed),
// so only the aggregate over this guess's occurrences — not a single
// position — is a safe, permanent signal.
func (t *Tracker) Update(guess string, fb feedback.Feedback) {
	runes := []rune(guess)
	n := len(runes)
	if n > len(fb) {
		n = len(fb)
	}

	presentThisGuess := make(map[rune]bool, n)
	seenThisGuess := make(map[rune]bool, n)
	for i := 0; i < n; i++ {
		r := runes[i]
		seenThisGuess[r] = true
		if fb[i] != feedback.Absent {
			presentThisGuess[r] = true
		}
	}

	for r := range seenThisGuess {
		if _, known := t.states[r]; known {
			continue
		}
		if presentThisGuess[r] {
			t.states[r] = Present
		} else {
			t.states[r] = Absent
		}
	}
}
