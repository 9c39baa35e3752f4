// Package observer publishes the running session over read-only HTTP.
package observer

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/mswork1021/pachigame/internal/reel"
	"github.com/mswork1021/pachigame/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultCapacity = 256
	defaultLimit    = 50
)

// Event is a stage notification as served on /events.
type Event struct {
	Seq      uint64    `json:"seq"`
	Kind     string    `json:"kind"`
	Reel     int       `json:"reel,omitempty"`
	Symbol   string    `json:"symbol,omitempty"`
	Reach    string    `json:"reach,omitempty"`
	EffectMS int64     `json:"effect_ms,omitempty"`
	Symbols  [3]string `json:"symbols"`
	Jackpot  bool      `json:"jackpot"`
}

func toEvent(seq uint64, n reel.Notification) Event {
	ev := Event{
		Seq:      seq,
		Kind:     n.Kind.String(),
		EffectMS: n.Effect.Milliseconds(),
		Jackpot:  n.Outcome.IsJackpot,
	}
	for i, s := range n.Outcome.Symbols {
		ev.Symbols[i] = s.String()
	}
	switch n.Kind {
	case reel.NoteReelStopped:
		ev.Reel = n.Reel
		ev.Symbol = n.Symbol.String()
	case reel.NoteReachStarted:
		ev.Reach = n.Reach.String()
	}
	return ev
}

// Observer is a game.Display that keeps the latest snapshot and a ring of recent
// stage events for HTTP readers. The game writes from its loop goroutine while
// handlers read concurrently.
type Observer struct {
	mu     sync.RWMutex
	snap   session.Snapshot
	events []Event
	head   int // index of the oldest event once the ring is full
	seq    uint64

	log *zap.Logger
}

// New returns an observer keeping capacity events.
func New(capacity int, logger *zap.Logger) *Observer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{events: make([]Event, 0, capacity), log: logger}
}

func (o *Observer) OnStage(n reel.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	ev := toEvent(o.seq, n)
	if len(o.events) < cap(o.events) {
		o.events = append(o.events, ev)
		return
	}
	o.events[o.head] = ev
	o.head = (o.head + 1) % len(o.events)
}

func (o *Observer) OnSnapshot(s session.Snapshot) {
	o.mu.Lock()
	o.snap = s
	o.mu.Unlock()
}

// Snapshot returns the latest snapshot.
func (o *Observer) Snapshot() session.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snap
}

// Recent returns up to limit events, oldest first.
func (o *Observer) Recent(limit int) []Event {
	o.mu.RLock()
	defer o.mu.RUnlock()
	n := len(o.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Event, 0, limit)
	for i := n - limit; i < n; i++ {
		out = append(out, o.events[(o.head+i)%n])
	}
	return out
}

// Routes returns the HTTP handler.
func (o *Observer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		o.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/state", o.handleState)
	r.Get("/events", o.handleEvents)
	return r
}

func (o *Observer) handleState(w http.ResponseWriter, _ *http.Request) {
	o.writeJSON(w, http.StatusOK, o.Snapshot())
}

func (o *Observer) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = v
	}
	o.writeJSON(w, http.StatusOK, o.Recent(limit))
}

func (o *Observer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		o.log.Debug("write response", zap.Error(err))
	}
}

// Serve listens on addr until ctx is done.
func (o *Observer) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           o.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	o.log.Info("observer listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
