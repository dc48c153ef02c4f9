// Package searchstate implements the search tree at the center of the
// engine (spec.md §4.3): a State is a node identified by the subset of
// words still consistent with the history so far, lazily computing a
// two-level Shannon-entropy ranking over candidate next guesses.
//
// State and its Cache live in the same package, rather than Cache
// living in package statecache alongside State's serialization helpers,
// because the two are mutually referencing concrete types (spec.md §9,
// "cyclic ownership") — something Go's package/import model can't
// express directly the way the original's forward-declared C++ classes
// do. statecache.Cache is a generic container State instantiates for
// itself.
package searchstate

import (
	"fmt"
	"io"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/de-upayan/wordle-engine/dictionary"
	"github.com/de-upayan/wordle-engine/feedback"
	"github.com/de-upayan/wordle-engine/keyboard"
	"github.com/de-upayan/wordle-engine/statecache"
	"github.com/de-upayan/wordle-engine/workerpool"
)

// Tunables fixed by spec.md §2/§3 (original_source/config.h: MAX_N_SOLUTIONS_PRINTED,
// ENTROPY_2_TOP_N, ENTROPY_RATIO).
const (
	// MaxPrinted is the largest n_solutions for which State.Solutions is populated.
	MaxPrinted = 12
	// Entropy2TopN bounds the length of a fully-computed State's entropy2.
	Entropy2TopN = 1000
	// EntropyRatio is the pruning threshold applied against max_entropy.
	EntropyRatio = 0.9

	// filterCacheSize bounds the LRU filter-result cache (spec_full.md §4.3);
	// it has no bearing on correctness, only on how often consider_guess's
	// filter step is recomputed.
	filterCacheSize = 8192
)

// Cache is the process-wide mapping from word-subset identity to shared
// States (spec.md §4.4).
type Cache = statecache.Cache[*State]

// NewCache creates an empty State Cache.
func NewCache() *Cache {
	return statecache.New[*State]()
}

// FilterCache is a bounded, ordinary-eviction cache of consider_guess's
// filter step, keyed by (parent identity, guess, feedback value). It is
// not the state cache: eviction here only costs recomputation, never
// correctness, since the state cache remains the sole authority on
// whether a word subset has already been materialized.
type FilterCache = lru.Cache[filterKey, dictionary.Words]

type filterKey struct {
	parent string
	guess  string
	value  uint32
}

// NewFilterCache creates a FilterCache holding up to size filter
// results. size <= 0 uses filterCacheSize.
func NewFilterCache(size int) (*FilterCache, error) {
	if size <= 0 {
		size = filterCacheSize
	}
	return lru.New[filterKey, dictionary.Words](size)
}

// State is one node of the search tree (spec.md §3).
type State struct {
	allWords dictionary.Words // borrowed, shared, immutable after startup
	words    dictionary.Words // owned subset
	identity string

	nSolutions int
	solutions  dictionary.Words

	pool        *workerpool.Pool
	cache       *Cache
	filterCache *FilterCache

	// mu guards the one-shot fully_computed transition and the fields
	// below it (spec.md §5): either set once under the lock at
	// construction time (the eager path, before the state is published
	// to the cache) or set once via ensureFullyComputed (the lazy path).
	mu                 sync.Mutex
	maxEntropy         uint32
	entropy            []WordEntropy
	entropy2           []WordEntropy
	highestEntropy2End int
	fullyComputed      bool
}

// NewInitial constructs the initial state containing every word in
// allWords, with no entropy computed yet (spec.md §4.3
// construct_initial). The caller is responsible for inserting it into
// cache — construction alone does not publish it.
func NewInitial(pool *workerpool.Pool, cache *Cache, filterCache *FilterCache, allWords dictionary.Words) *State {
	s := &State{
		allWords:    allWords,
		words:       allWords,
		identity:    allWords.Identity(),
		pool:        pool,
		cache:       cache,
		filterCache: filterCache,
	}
	s.nSolutions = allWords.NSolutions()
	if s.nSolutions > 0 && s.nSolutions <= MaxPrinted {
		s.solutions = allWords.Solutions()
	}
	return s
}

// Identity returns the word-subset identity used as this state's cache
// key.
func (s *State) Identity() string { return s.identity }

// Words returns the candidate words still consistent with this state's history.
func (s *State) Words() dictionary.Words { return s.words }

// NWords returns len(Words()).
func (s *State) NWords() int { return len(s.words) }

// NSolutions returns the number of words in Words() flagged as solutions.
func (s *State) NSolutions() int { return s.nSolutions }

// Solutions returns the solution subset of Words(), populated only when
// 0 < NSolutions() <= MaxPrinted (spec.md §3 Invariant 3).
func (s *State) Solutions() dictionary.Words { return s.solutions }

// MaxEntropy returns the highest H value computed for this state's
// candidate guesses, or 0 if none have been computed yet.
func (s *State) MaxEntropy() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxEntropy
}

// IsFullyComputed reports whether entropy2 has been produced.
func (s *State) IsFullyComputed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullyComputed
}

// EntropyOf does a linear search of this state's entropy band for word,
// returning 0 if absent (spec.md §4.3, diagnostic only).
func (s *State) EntropyOf(word string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entropy {
		if e.Word.Text == word {
			return e.Entropy
		}
	}
	return 0
}

// Entropy2Of does a linear search of this state's entropy2 band for
// word, returning 0 if absent.
func (s *State) Entropy2Of(word string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entropy2 {
		if e.Word.Text == word {
			return e.Entropy
		}
	}
	return 0
}

// ConsiderGuess filters Words() by (guess, value), returning the shared
// child State for the resulting subset (spec.md §4.3). An empty
// resulting subset is never inserted into the cache — it is returned as
// a standalone, uncached State (spec.md §9 open question, resolved:
// "do not insert empty children").
func (s *State) ConsiderGuess(guess string, value uint32, doFullCompute bool) *State {
	filtered := s.filter(guess, value)

	if len(filtered) == 0 {
		return newChild(s, filtered, false)
	}

	identity := filtered.Identity()
	if cached, ok := s.cache.At(identity); ok {
		return cached
	}

	child := newChild(s, filtered, doFullCompute)
	actual, _ := s.cache.Insert(identity, child)
	return actual
}

func (s *State) filter(guess string, value uint32) dictionary.Words {
	key := filterKey{parent: s.identity, guess: guess, value: value}

	if s.filterCache != nil {
		if cached, ok := s.filterCache.Get(key); ok {
			return cached
		}
	}

	var out dictionary.Words
	for _, w := range s.words {
		if feedback.Encode(feedback.Compute(guess, w.Text)) == value {
			out = append(out, w)
		}
	}

	if s.filterCache != nil {
		s.filterCache.Add(key, out)
	}
	return out
}

// newChild builds a fresh, not-yet-published State for the filtered
// word subset, running the entropy pipeline eagerly, lazily, or not at
// all per spec.md §4.3's edge cases.
func newChild(parent *State, words dictionary.Words, doFullCompute bool) *State {
	s := &State{
		allWords:    parent.allWords,
		words:       words,
		identity:    words.Identity(),
		pool:        parent.pool,
		cache:       parent.cache,
		filterCache: parent.filterCache,
	}
	s.nSolutions = words.NSolutions()
	if s.nSolutions > 0 && s.nSolutions <= MaxPrinted {
		s.solutions = words.Solutions()
	}

	switch {
	case s.nSolutions <= 2:
		// skip the H pass at construction; BestGuess short-circuits for 0
		// or 1 solutions and otherwise runs the full pipeline on demand.
	case doFullCompute:
		s.mu.Lock()
		s.runFullPipeline()
		s.fullyComputed = true
		s.mu.Unlock()
	default:
		s.mu.Lock()
		s.runLazyPipeline()
		s.mu.Unlock()
	}

	return s
}

// ensureFullyComputed runs the full entropy pipeline on demand if it
// has not already run, under the one-shot lock spec.md §5 requires for
// the fully_computed transition.
func (s *State) ensureFullyComputed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fullyComputed {
		return
	}
	s.runFullPipeline()
	s.fullyComputed = true
}

// BestGuess returns the best next guesses for this state, tie-broken by
// keyboard score (spec.md §4.3).
func (s *State) BestGuess(kb keyboard.Keyboard) []ScoredEntropy {
	if s.nSolutions == 0 {
		return nil
	}
	if s.nSolutions == 1 {
		return []ScoredEntropy{{Entropy: WordEntropy{Word: s.solutions[0], Entropy: 0}, Score: 0}}
	}

	s.ensureFullyComputed()

	s.mu.Lock()
	band := make([]WordEntropy, s.highestEntropy2End)
	copy(band, s.entropy2[:s.highestEntropy2End])
	s.mu.Unlock()

	scored := make([]ScoredEntropy, len(band))
	for i, we := range band {
		scored[i] = newScoredEntropy(we, kb)
	}
	sortScoredDecreasing(scored)

	if len(scored) == 0 {
		return scored
	}
	top := scored[0].Score
	end := 0
	for end < len(scored) && scored[end].Score == top {
		end++
	}
	return scored[:end]
}

// matchCounts tallies, for each feedback value, how many solutions in
// s.words would produce that value against word (spec.md §4.3's H/H2
// core algorithm).
func (s *State) matchCounts(word string) (counts [feedback.MaxValue + 1]int) {
	for _, w := range s.words {
		if !w.IsSolution {
			continue
		}
		counts[feedback.Encode(feedback.Compute(word, w.Text))]++
	}
	return counts
}

// computeH computes H(word): the entropy of the feedback distribution
// word induces over s.words' solutions, scaled by 1000.
func (s *State) computeH(word string) uint32 {
	if s.nSolutions == 0 {
		return 0
	}
	counts := s.matchCounts(word)

	var h float64
	total := float64(s.nSolutions)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log(p)
	}
	return uint32(h * 1000)
}

// computeH2 computes H2(word): the expected max follow-up entropy after
// guessing word, by recursively materializing each nonzero-feedback
// child via ConsiderGuess(word, v, false) and reading its MaxEntropy.
// The child computation runs synchronously on the calling goroutine
// (never re-submitted to the pool), per spec.md §9's recursive-
// parallelism guidance.
func (s *State) computeH2(word string) uint32 {
	if s.nSolutions == 0 {
		return 0
	}
	counts := s.matchCounts(word)

	var h2 float64
	total := float64(s.nSolutions)
	for v, c := range counts {
		if c == 0 {
			continue
		}
		child := s.ConsiderGuess(word, uint32(v), false)
		p := float64(c) / total
		h2 += p * float64(child.MaxEntropy())
	}
	return uint32(h2)
}

// pruneByRatio filters we in place to entries with h > 0 and h >=
// EntropyRatio * max(we), returning the pruned slice and that max
// (spec.md §3 Invariant 4). The returned max is the true maximum even
// if, as happens when every h is 0, no entry survives pruning.
func pruneByRatio(we []WordEntropy) ([]WordEntropy, uint32) {
	var maxH uint32
	for _, e := range we {
		if e.Entropy > maxH {
			maxH = e.Entropy
		}
	}
	threshold := uint32(float64(maxH) * EntropyRatio)

	out := we[:0]
	for _, e := range we {
		if e.Entropy > 0 && e.Entropy >= threshold {
			out = append(out, e)
		}
	}
	return out, maxH
}

// highestBandEnd returns the index one past the leading run of entries
// sharing we[0]'s entropy value (spec.md §9's end-check-first guidance,
// to avoid dereferencing past end when the whole vector is tied).
func highestBandEnd(we []WordEntropy) int {
	if len(we) == 0 {
		return 0
	}
	top := we[0].Entropy
	i := 0
	for i < len(we) && we[i].Entropy == top {
		i++
	}
	return i
}

// runLazyPipeline computes H (only) over s.words, single-threaded, for
// the do_full_compute=false path (spec.md §4.3). Caller must hold s.mu.
func (s *State) runLazyPipeline() {
	entropy := make([]WordEntropy, 0, len(s.words))
	for _, w := range s.words {
		entropy = append(entropy, WordEntropy{Word: w, Entropy: s.computeH(w.Text)})
	}

	pruned, maxH := pruneByRatio(entropy)
	sortEntropiesDecreasing(pruned)

	s.entropy = pruned
	s.maxEntropy = maxH
}

// runFullPipeline computes H over allWords (parallel, worker-pruned,
// merged, sorted, globally pruned) and then H2 over the top
// min(Entropy2TopN, len(entropy)) candidates (spec.md §4.3 steps 1-6).
// Caller must hold s.mu.
func (s *State) runFullPipeline() {
	numBlocks := s.pool.NumWorkers()
	total := len(s.allWords)

	var mu sync.Mutex
	var merged []WordEntropy

	s.pool.RunBatch(total, numBlocks, func(_, start, end int) {
		local := make([]WordEntropy, 0, end-start)
		for i := start; i < end; i++ {
			w := s.allWords[i]
			local = append(local, WordEntropy{Word: w, Entropy: s.computeH(w.Text)})
		}
		pruned, _ := pruneByRatio(local)

		mu.Lock()
		merged = append(merged, pruned...)
		mu.Unlock()
	})

	sortEntropiesDecreasing(merged)

	var maxH uint32
	if len(merged) > 0 {
		maxH = merged[0].Entropy
	}
	threshold := uint32(float64(maxH) * EntropyRatio)
	cut := len(merged)
	for cut > 0 && merged[cut-1].Entropy < threshold {
		cut--
	}
	merged = merged[:cut]

	s.entropy = merged
	s.maxEntropy = maxH

	m := len(merged)
	if m > Entropy2TopN {
		m = Entropy2TopN
	}
	entropy2 := make([]WordEntropy, m)

	if m > 0 {
		s.pool.RunBatch(m, numBlocks, func(_, start, end int) {
			for i := start; i < end; i++ {
				we := merged[i]
				entropy2[i] = WordEntropy{Word: we.Word, Entropy: we.Entropy + s.computeH2(we.Word.Text)}
			}
		})
	}

	sortEntropiesDecreasing(entropy2)
	s.entropy2 = entropy2
	s.highestEntropy2End = highestBandEnd(entropy2)
}

// Serialize writes this state in the binary layout of spec.md §6.3. The
// initial state must never be serialized (its caller is responsible for
// skipping it — Cache.Persist does this automatically for the key it
// recorded as the initial state's).
func (s *State) Serialize(w io.Writer) error {
	s.mu.Lock()
	fullyComputed := s.fullyComputed
	entropy := s.entropy
	entropy2 := s.entropy2
	s.mu.Unlock()

	var fc uint8
	if fullyComputed {
		fc = 1
	}
	if err := statecache.WriteU8(w, fc); err != nil {
		return err
	}

	if err := statecache.WriteU32(w, uint32(len(s.words))); err != nil {
		return err
	}
	for _, word := range s.words {
		if err := statecache.WriteWord(w, word.Text, word.IsSolution); err != nil {
			return err
		}
	}

	if err := writeEntropyList(w, entropy); err != nil {
		return err
	}

	if fullyComputed {
		if err := writeEntropyList(w, entropy2); err != nil {
			return err
		}
	}

	return nil
}

func writeEntropyList(w io.Writer, list []WordEntropy) error {
	if err := statecache.WriteU32(w, uint32(len(list))); err != nil {
		return err
	}
	for _, e := range list {
		if err := statecache.WriteWord(w, e.Word.Text, e.Word.IsSolution); err != nil {
			return err
		}
		if err := statecache.WriteU32(w, e.Entropy); err != nil {
			return err
		}
	}
	return nil
}

func readEntropyList(r io.Reader) ([]WordEntropy, error) {
	n, err := statecache.ReadU32(r)
	if err != nil {
		return nil, fmt.Errorf("read entropy count: %w", err)
	}

	list := make([]WordEntropy, 0, n)
	for i := uint32(0); i < n; i++ {
		text, isSolution, err := statecache.ReadWord(r)
		if err != nil {
			return nil, fmt.Errorf("read entropy word %d: %w", i, err)
		}
		h, err := statecache.ReadU32(r)
		if err != nil {
			return nil, fmt.Errorf("read entropy value %d: %w", i, err)
		}
		// word_entropy entries with h==0 are discarded on deserialize
		// (spec.md §6.3).
		if h == 0 {
			continue
		}
		list = append(list, WordEntropy{Word: dictionary.Word{Text: text, IsSolution: isSolution}, Entropy: h})
	}
	return list, nil
}

// Deserialize reads a State previously written by Serialize, sharing
// initial's pool/cache/filterCache/allWords references — exactly the
// reconstruction original_source/state.cpp's unserialize performs via
// State::State(other, words, entropy, entropy2, fully_computed).
func Deserialize(r io.Reader, initial *State) (*State, error) {
	fc, err := statecache.ReadU8(r)
	if err != nil {
		return nil, fmt.Errorf("read fully_computed: %w", err)
	}

	nWords, err := statecache.ReadU32(r)
	if err != nil {
		return nil, fmt.Errorf("read word count: %w", err)
	}
	words := make(dictionary.Words, nWords)
	for i := uint32(0); i < nWords; i++ {
		text, isSolution, err := statecache.ReadWord(r)
		if err != nil {
			return nil, fmt.Errorf("read word %d: %w", i, err)
		}
		words[i] = dictionary.Word{Text: text, IsSolution: isSolution}
	}

	entropy, err := readEntropyList(r)
	if err != nil {
		return nil, err
	}

	var entropy2 []WordEntropy
	fullyComputed := fc != 0
	if fullyComputed {
		entropy2, err = readEntropyList(r)
		if err != nil {
			return nil, err
		}
	}

	s := &State{
		allWords:    initial.allWords,
		words:       words,
		identity:    words.Identity(),
		pool:        initial.pool,
		cache:       initial.cache,
		filterCache: initial.filterCache,
		entropy:     entropy,
		entropy2:    entropy2,
	}
	s.nSolutions = words.NSolutions()
	if s.nSolutions > 0 && s.nSolutions <= MaxPrinted {
		s.solutions = words.Solutions()
	}
	for _, e := range entropy {
		if e.Entropy > s.maxEntropy {
			s.maxEntropy = e.Entropy
		}
	}
	s.highestEntropy2End = highestBandEnd(entropy2)
	s.fullyComputed = fullyComputed

	return s, nil
}
