// Command enginesvc starts the word-guessing search engine's HTTP
// service. Configuration is entirely by environment variable, matching
// the teacher's own logger package (LOG_LEVEL) and cmd/run.go (a single
// fixed port, generalized here to PORT) rather than a flags or config-
// file library — there was never more than a handful of settings, and
// the teacher never reached for one either.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/de-upayan/wordle-engine/dictionary"
	"github.com/de-upayan/wordle-engine/dictionary/sampledict"
	"github.com/de-upayan/wordle-engine/logx"
	"github.com/de-upayan/wordle-engine/searchstate"
	"github.com/de-upayan/wordle-engine/service"
	"github.com/de-upayan/wordle-engine/workerpool"

	"net/http"
)

func main() {
	log := logx.New()

	solutions, allowed, err := loadWordlists()
	if err != nil {
		log.Error("failed to load wordlists", "error", err.Error())
		os.Exit(1)
	}

	table, err := dictionary.NewTable(solutions, allowed)
	if err != nil {
		log.Error("failed to build dictionary table", "error", err.Error())
		os.Exit(1)
	}
	log.Info("dictionary loaded", "words", len(table.All), "solutions", table.All.NSolutions())

	pool := workerpool.New()
	defer pool.Shutdown()

	cache := searchstate.NewCache()
	filterCacheSize := envInt("FILTER_CACHE_SIZE", 0)
	filterCache, err := searchstate.NewFilterCache(filterCacheSize)
	if err != nil {
		log.Error("failed to build filter cache", "error", err.Error())
		os.Exit(1)
	}

	initial := searchstate.NewInitial(pool, cache, filterCache, table.All)
	cache.MarkInitial(initial.Identity())

	persistPath := os.Getenv("WORDLE_CACHE_PATH")
	if persistPath != "" {
		decodeOne := func(r io.Reader) (*searchstate.State, error) {
			return searchstate.Deserialize(r, initial)
		}
		keyOf := func(s *searchstate.State) string { return s.Identity() }
		if err := cache.Restore(persistPath, decodeOne, keyOf); err != nil {
			log.Warn("failed to restore state cache; continuing with an empty cache", "error", err.Error())
		} else {
			log.Info("state cache restored", "path", persistPath, "size", cache.Len())
		}
	}

	if persistPath != "" {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sig
			encodeOne := func(w io.Writer, s *searchstate.State) error { return s.Serialize(w) }
			if err := cache.Persist(persistPath, encodeOne); err != nil {
				log.Error("failed to persist state cache on shutdown", "error", err.Error())
			} else {
				log.Info("state cache persisted", "path", persistPath, "size", cache.Len())
			}
			os.Exit(0)
		}()
	}

	svc := service.New(initial, cache, log)
	mux := http.NewServeMux()
	svc.Routes(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	log.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}

// loadWordlists reads WORDLE_SOLUTIONS_PATH and WORDLE_ALLOWED_PATH (one
// lowercase word per line). The bundled sample dictionary is used only
// when neither variable is set; if either is set, both files must be
// readable.
func loadWordlists() (solutions, allowed []string, err error) {
	solutionsPath := os.Getenv("WORDLE_SOLUTIONS_PATH")
	allowedPath := os.Getenv("WORDLE_ALLOWED_PATH")

	if solutionsPath == "" && allowedPath == "" {
		return sampledict.Solutions, sampledict.Allowed, nil
	}

	if solutions, err = readWordlist(solutionsPath); err != nil {
		return nil, nil, fmt.Errorf("read solutions: %w", err)
	}
	if allowed, err = readWordlist(allowedPath); err != nil {
		return nil, nil, fmt.Errorf("read allowed words: %w", err)
	}
	return solutions, allowed, nil
}

func readWordlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}
