// Package dictionary holds the immutable word table the search engine
// is built from: an ordered list of (word, is_solution) pairs, loaded
// once at startup from an out-of-scope collaborator (spec.md §6.1).
package dictionary

import (
	"fmt"
	"strings"

	"github.com/de-upayan/wordle-engine/feedback"
)

// Word is an immutable lowercase word of fixed length, tagged with
// whether it is a possible solution (as opposed to merely an allowed
// guess). Equality is by string.
type Word struct {
	Text       string
	IsSolution bool
}

// Words is an ordered sequence of Word. Two Words values with the same
// sequence of Text strings are the same "word subset" for caching
// purposes (spec.md §3, Invariant 7); Identity materializes that key.
type Words []Word

// Identity returns the word-subset identity used as a state cache key:
// the concatenation of the words' strings in order.
func (ws Words) Identity() string {
	var b strings.Builder
	for _, w := range ws {
		b.WriteString(w.Text)
	}
	return b.String()
}

// NSolutions counts the words in ws flagged as possible solutions.
func (ws Words) NSolutions() int {
	n := 0
	for _, w := range ws {
		if w.IsSolution {
			n++
		}
	}
	return n
}

// Solutions returns the subsequence of ws flagged as possible solutions.
func (ws Words) Solutions() Words {
	var out Words
	for _, w := range ws {
		if w.IsSolution {
			out = append(out, w)
		}
	}
	return out
}

// Table is the immutable, process-wide word table: solutions first,
// then allowed-but-not-solution words, per spec.md §6.1.
type Table struct {
	All Words
}

// NewTable validates and builds a Table from two ordered word lists.
// Each word is lowercased first; it must then be exactly feedback.Length
// bytes long and contain only ASCII letters. NewTable rejects anything
// else as a format error rather than silently truncating or skipping it,
// since a malformed dictionary would otherwise corrupt every cache key
// derived from it. Duplicate words are not checked for.
func NewTable(solutions, allowed []string) (*Table, error) {
	all := make(Words, 0, len(solutions)+len(allowed))

	for _, w := range solutions {
		word, err := validateWord(w)
		if err != nil {
			return nil, fmt.Errorf("dictionary: solution %q: %w", w, err)
		}
		all = append(all, Word{Text: word, IsSolution: true})
	}
	for _, w := range allowed {
		word, err := validateWord(w)
		if err != nil {
			return nil, fmt.Errorf("dictionary: allowed word %q: %w", w, err)
		}
		all = append(all, Word{Text: word, IsSolution: false})
	}

	return &Table{All: all}, nil
}

func validateWord(w string) (string, error) {
	lower := strings.ToLower(w)
	if len(lower) != feedback.Length {
		return "", fmt.Errorf("word must be %d characters, got %d", feedback.Length, len(lower))
	}
	for _, r := range lower {
		if r < 'a' || r > 'z' {
			return "", fmt.Errorf("word must contain only letters, got %q", w)
		}
	}
	return lower, nil
}
