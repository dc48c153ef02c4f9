package service

import (
	"encoding/json"
	"fmt"

	"github.com/de-upayan/wordle-engine/feedback"
)

// GuessEntry is one guess-and-its-feedback pair in a game's history.
// Feedback is marshaled as the 5-character pattern string accepted by
// feedback.Parse (c=correct, p=present, _=absent), matching the wire
// convention of spec_full.md §6.5.
type GuessEntry struct {
	Guess    string           `json:"guess"`
	Feedback feedback.Feedback `json:"-"`
}

// MarshalJSON renders Feedback as the ASCII pattern string UnmarshalJSON
// parses it back from, not feedback.Display's emoji rendering: the two
// methods must be inverses of each other for a guess entry to survive a
// marshal/unmarshal round trip.
func (g GuessEntry) MarshalJSON() ([]byte, error) {
	type wire struct {
		Guess    string `json:"guess"`
		Feedback string `json:"feedback"`
	}
	return json.Marshal(wire{Guess: g.Guess, Feedback: toPattern(g.Feedback)})
}

// UnmarshalJSON parses Feedback from a pattern string.
func (g *GuessEntry) UnmarshalJSON(data []byte) error {
	var wire struct {
		Guess    string `json:"guess"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	fb, ok := feedback.Parse(wire.Feedback)
	if !ok {
		return fmt.Errorf("invalid feedback pattern %q", wire.Feedback)
	}
	g.Guess = wire.Guess
	g.Feedback = fb
	return nil
}

// toPattern renders fb in the same c/p/_ vocabulary feedback.Parse
// accepts.
func toPattern(fb feedback.Feedback) string {
	var b [feedback.Length]byte
	for i, c := range fb {
		switch c {
		case feedback.Correct:
			b[i] = 'c'
		case feedback.Present:
			b[i] = 'p'
		default:
			b[i] = '_'
		}
	}
	return string(b[:])
}

// GameState is the full history of a game: a sequence of guess/feedback
// pairs, from which the current search State is rebuilt by replaying
// each guess through ConsiderGuess.
type GameState struct {
	History []GuessEntry `json:"history"`
}

// SuggestRequest is the body of POST /api/v1/suggest/stream.
type SuggestRequest struct {
	GameState GameState `json:"gameState"`
}

// CloseRequest is the body of POST /api/v1/suggest/close.
type CloseRequest struct {
	StreamID string `json:"streamId"`
}

// SuggestionItem is a single ranked candidate guess.
type SuggestionItem struct {
	Word    string  `json:"word"`
	Entropy uint32  `json:"entropy"`
	Score   int     `json:"score"`
}

// SuggestionsEvent is the payload of the SSE "suggestions" event.
type SuggestionsEvent struct {
	StreamID         string           `json:"streamId"`
	Suggestions      []SuggestionItem `json:"suggestions"`
	RemainingWords   int              `json:"remainingWords"`
	RemainingAnswers int              `json:"remainingAnswers"`
}

// CacheReport is the payload of GET /api/v1/cache/report (spec_full.md §6.6).
type CacheReport struct {
	Size              int `json:"size"`
	TotalHits         int `json:"totalHits"`
	TotalMisses       int `json:"totalMisses"`
	TotalInserts      int `json:"totalInserts"`
	HitsSinceReport   int `json:"hitsSinceReport"`
	MissesSinceReport int `json:"missesSinceReport"`
	InsSinceReport    int `json:"insSinceReport"`
}
