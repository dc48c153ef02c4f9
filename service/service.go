// Package service exposes the search engine over HTTP: a streaming
// suggestion endpoint, a way to cancel an in-flight stream, a health
// check, and a cache-statistics report. It is grounded in the teacher's
// handlers/suggest.go and cmd/run.go (SSE framing, stream-ID tracking
// via a map of close channels, the WithTag-per-stream logger) adapted
// to the engine's single-shot BestGuess rather than the teacher's
// iterative-deepening strategy callback.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/de-upayan/wordle-engine/feedback"
	"github.com/de-upayan/wordle-engine/keyboard"
	"github.com/de-upayan/wordle-engine/logx"
	"github.com/de-upayan/wordle-engine/searchstate"
)

// feedbackEncodePattern re-encodes an already-parsed Feedback (decoded
// from the request's pattern string by GuessEntry.UnmarshalJSON) into
// the uint32 ConsiderGuess expects.
func feedbackEncodePattern(_ string, fb feedback.Feedback) uint32 {
	return feedback.Encode(fb)
}

// Service wires the search engine's initial State into a set of HTTP
// handlers.
type Service struct {
	initial *searchstate.State
	cache   *searchstate.Cache
	log     *logx.Logger

	mu            sync.RWMutex
	activeStreams map[string]chan struct{}
}

// New builds a Service around initial, the engine's root State, and
// cache, the State cache whose stats back /api/v1/cache/report.
func New(initial *searchstate.State, cache *searchstate.Cache, log *logx.Logger) *Service {
	return &Service{
		initial:       initial,
		cache:         cache,
		log:           log,
		activeStreams: make(map[string]chan struct{}),
	}
}

// Routes registers the service's handlers on mux.
func (s *Service) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/suggest/stream", s.recovered(s.handleSuggestStream))
	mux.HandleFunc("/api/v1/suggest/close", s.recovered(s.handleCloseStream))
	mux.HandleFunc("/api/v1/cache/report", s.recovered(s.handleCacheReport))
}

// recovered wraps h so a panic inside it is logged and answered with
// 500 rather than crashing the process — spec_full.md §7's service-
// level panic recovery boundary: the worker pool and search tree have
// no panic recovery of their own, so the HTTP goroutine is the last
// line of defense for any single request.
func (s *Service) recovered(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic recovered in handler", "panic", fmt.Sprint(rec), "path", r.URL.Path)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		h(w, r)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Service) handleCacheReport(w http.ResponseWriter, r *http.Request) {
	stats := s.cache.Report()
	report := CacheReport{
		Size:              stats.Size,
		TotalHits:         stats.TotalHits,
		TotalMisses:       stats.TotalMisses,
		TotalInserts:      stats.TotalInserts,
		HitsSinceReport:   stats.HitsSinceReport,
		MissesSinceReport: stats.MissesSinceReport,
		InsSinceReport:    stats.InsSinceReport,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Service) handleSuggestStream(w http.ResponseWriter, r *http.Request) {
	s.log.Info("suggest stream requested", "method", r.Method, "path", r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error("error decoding suggest request", "error", err.Error())
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	streamID := uuid.New().String()
	streamLog := s.log.WithTag(streamID)

	closeChan := make(chan struct{})
	s.mu.Lock()
	s.activeStreams[streamID] = closeChan
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.activeStreams, streamID)
		s.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		streamLog.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "event: stream-created\ndata: {\"streamId\":%q}\n\n", streamID)
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-closeChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	state := s.initial
	tracker := keyboard.NewTracker()
	for _, entry := range req.GameState.History {
		if ctx.Err() != nil {
			streamLog.Debug("stream cancelled during replay")
			return
		}
		value := feedbackEncodePattern(entry.Guess, entry.Feedback)
		state = state.ConsiderGuess(entry.Guess, value, true)
		tracker.Update(entry.Guess, entry.Feedback)
	}

	best := state.BestGuess(tracker)
	items := make([]SuggestionItem, len(best))
	for i, se := range best {
		items[i] = SuggestionItem{Word: se.Entropy.Word.Text, Entropy: se.Entropy.Entropy, Score: se.Score}
	}

	event := SuggestionsEvent{
		StreamID:         streamID,
		Suggestions:      items,
		RemainingWords:   state.NWords(),
		RemainingAnswers: state.NSolutions(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		streamLog.Error("error marshaling suggestions", "error", err.Error())
		return
	}

	streamLog.Info("sending suggestions", "count", len(items), "remainingAnswers", state.NSolutions())
	fmt.Fprintf(w, "event: suggestions\ndata: %s\n\n", data)
	flusher.Flush()

	fmt.Fprintf(w, "event: stream-completed\ndata: {\"streamId\":%q,\"status\":\"completed\"}\n\n", streamID)
	flusher.Flush()

	// Give the client a moment to process the completion event before the
	// handler returns and the connection closes, matching the teacher's
	// suggest stream shutdown.
	time.Sleep(200 * time.Millisecond)
}

func (s *Service) handleCloseStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	streamLog := s.log.WithTag(req.StreamID)

	s.mu.RLock()
	closeChan, exists := s.activeStreams[req.StreamID]
	s.mu.RUnlock()

	if !exists {
		streamLog.Warn("stream not found")
		http.Error(w, "stream not found", http.StatusNotFound)
		return
	}

	select {
	case closeChan <- struct{}{}:
		streamLog.Info("stream closed")
	default:
		streamLog.Debug("stream already finished")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "closed"})
}
