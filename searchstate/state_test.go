package searchstate

import (
	"bytes"
	"testing"

	"github.com/de-upayan/wordle-engine/dictionary"
	"github.com/de-upayan/wordle-engine/dictionary/sampledict"
	"github.com/de-upayan/wordle-engine/feedback"
	"github.com/de-upayan/wordle-engine/keyboard"
	"github.com/de-upayan/wordle-engine/workerpool"
)

func newTestInitial(t *testing.T) *State {
	t.Helper()
	table, err := dictionary.NewTable(sampledict.Solutions, sampledict.Allowed)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	pool := workerpool.NewSize(2)
	cache := NewCache()
	fc, err := NewFilterCache(0)
	if err != nil {
		t.Fatalf("NewFilterCache: %v", err)
	}
	s := NewInitial(pool, cache, fc, table.All)
	cache.MarkInitial(s.Identity())
	return s
}

func TestConsiderGuessFiltersConsistentWords(t *testing.T) {
	s := newTestInitial(t)

	guess := s.words[0].Text
	target := s.words[len(s.words)/2].Text
	value := feedback.Encode(feedback.Compute(guess, target))

	child := s.ConsiderGuess(guess, value, false)
	for _, w := range child.Words() {
		if feedback.Encode(feedback.Compute(guess, w.Text)) != value {
			t.Errorf("child word %q does not match feedback value %d", w.Text, value)
		}
	}
	// Every word consistent with (guess, value) in the parent must survive.
	for _, w := range s.words {
		if feedback.Encode(feedback.Compute(guess, w.Text)) == value {
			found := false
			for _, cw := range child.Words() {
				if cw.Text == w.Text {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("word %q consistent with feedback but missing from child", w.Text)
			}
		}
	}
}

func TestConsiderGuessReturnsSharedPointerOnRepeat(t *testing.T) {
	s := newTestInitial(t)
	guess := s.words[0].Text
	target := s.words[len(s.words)/2].Text
	value := feedback.Encode(feedback.Compute(guess, target))

	a := s.ConsiderGuess(guess, value, false)
	b := s.ConsiderGuess(guess, value, false)

	if a != b {
		t.Errorf("ConsiderGuess did not return the same cached *State pointer on repeat")
	}
}

func TestConsiderGuessEmptyResultNotCached(t *testing.T) {
	s := newTestInitial(t)
	guess := s.words[0].Text

	// Force an impossible combination: position 0 Present with every other
	// position Correct. No word can produce it, because the four exact
	// matches consume every other slot, leaving nowhere for position 0's
	// letter to be present.
	impossible := feedback.Encode(feedback.Feedback{
		feedback.Present, feedback.Correct, feedback.Correct, feedback.Correct, feedback.Correct,
	})
	// Ensure no word in the subset actually produces "impossible"; if one
	// did, the test would be skipped — the only property under test is
	// that an EMPTY result is never cached.
	empty := true
	for _, w := range s.words {
		if feedback.Encode(feedback.Compute(guess, w.Text)) == impossible {
			empty = false
			break
		}
	}
	if !empty {
		t.Skip("no feedback value in this tiny dictionary yields an empty subset")
	}

	before := s.cache.Len()
	child := s.ConsiderGuess(guess, impossible, false)
	if child.NWords() != 0 {
		t.Fatalf("expected empty child, got %d words", child.NWords())
	}
	if s.cache.Len() != before {
		t.Errorf("empty child was inserted into the cache")
	}
}

func TestBestGuessZeroSolutions(t *testing.T) {
	s := newTestInitial(t)
	s.words = nil
	s.nSolutions = 0
	s.solutions = nil

	if got := s.BestGuess(keyboard.NewTracker()); got != nil {
		t.Errorf("BestGuess with 0 solutions = %v, want nil", got)
	}
}

func TestBestGuessOneSolution(t *testing.T) {
	s := newTestInitial(t)
	only := s.solutions
	if len(only) == 0 {
		only = s.words.Solutions()
	}
	one := only[:1]
	s.words = one
	s.nSolutions = 1
	s.solutions = one

	got := s.BestGuess(keyboard.NewTracker())
	if len(got) != 1 {
		t.Fatalf("BestGuess with 1 solution returned %d entries, want 1", len(got))
	}
	if got[0].Entropy.Word.Text != one[0].Text {
		t.Errorf("BestGuess word = %q, want %q", got[0].Entropy.Word.Text, one[0].Text)
	}
	if got[0].Score != 0 {
		t.Errorf("BestGuess score = %d, want 0", got[0].Score)
	}
}

func TestRunFullPipelinePrunesBelowRatio(t *testing.T) {
	s := newTestInitial(t)
	s.ensureFullyComputed()

	if !s.IsFullyComputed() {
		t.Fatal("state not marked fully computed")
	}
	if s.MaxEntropy() == 0 && len(s.entropy) != 0 {
		t.Errorf("maxEntropy is 0 but entropy band is non-empty")
	}
	for _, e := range s.entropy {
		if e.Entropy == 0 {
			t.Errorf("entropy band contains a zero-entropy entry %q", e.Word.Text)
		}
		threshold := uint32(float64(s.MaxEntropy()) * EntropyRatio)
		if e.Entropy < threshold {
			t.Errorf("entropy %d for %q is below ratio threshold %d", e.Entropy, e.Word.Text, threshold)
		}
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	s := newTestInitial(t)
	guess := s.words[0].Text
	target := s.words[len(s.words)/2].Text
	value := feedback.Encode(feedback.Compute(guess, target))
	child := s.ConsiderGuess(guess, value, true)

	var buf bytes.Buffer
	if err := child.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored, err := Deserialize(&buf, s)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if restored.Identity() != child.Identity() {
		t.Errorf("restored identity = %q, want %q", restored.Identity(), child.Identity())
	}
	if restored.NWords() != child.NWords() {
		t.Errorf("restored NWords = %d, want %d", restored.NWords(), child.NWords())
	}
	if restored.IsFullyComputed() != child.IsFullyComputed() {
		t.Errorf("restored fullyComputed = %v, want %v", restored.IsFullyComputed(), child.IsFullyComputed())
	}
	if restored.MaxEntropy() != child.MaxEntropy() {
		t.Errorf("restored maxEntropy = %d, want %d", restored.MaxEntropy(), child.MaxEntropy())
	}
}

func TestPruneByRatioKeepsTrueMaximum(t *testing.T) {
	we := []WordEntropy{
		{Word: dictionary.Word{Text: "aaaaa"}, Entropy: 1000},
		{Word: dictionary.Word{Text: "bbbbb"}, Entropy: 100},
		{Word: dictionary.Word{Text: "ccccc"}, Entropy: 950},
	}
	pruned, maxH := pruneByRatio(we)

	if maxH != 1000 {
		t.Fatalf("maxH = %d, want 1000", maxH)
	}
	foundMax := false
	for _, e := range pruned {
		if e.Word.Text == "aaaaa" {
			foundMax = true
		}
		if e.Word.Text == "bbbbb" {
			t.Errorf("low-entropy entry %q survived pruning", e.Word.Text)
		}
	}
	if !foundMax {
		t.Errorf("true maximum entry did not survive its own pruning pass")
	}
}
