package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionState tracks where a session's cycle loop is.
type SessionState string

const (
	SessionStateIdle         SessionState = "idle"
	SessionStateFetching     SessionState = "fetching"
	SessionStateReconciling  SessionState = "reconciling"
	SessionStateBroadcasting SessionState = "broadcasting"
	SessionStateStopped      SessionState = "stopped"
)

// Session is one subscriber connection's ingestion loop. It owns its
// recurring timer; nothing about a session is shared across connections.
type Session struct {
	ID        string
	StartedAt time.Time

	mu     sync.Mutex
	state  SessionState
	cancel context.CancelFunc
	done   chan struct{}
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Done is closed once the session's loop has fully stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// SessionScheduler drives per-session ingestion cycles: one immediate cycle
// on start, then a recurring timer until the session stops. Sessions share
// the repository, so one session's upserts are visible to every other
// session's next snapshot.
type SessionScheduler struct {
	ingestion *IngestionService
	interval  time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	logger   zerolog.Logger
}

// NewSessionScheduler creates a scheduler. A non-positive interval defaults
// to 60 seconds.
func NewSessionScheduler(ingestion *IngestionService, interval time.Duration, logger zerolog.Logger) *SessionScheduler {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &SessionScheduler{
		ingestion: ingestion,
		interval:  interval,
		sessions:  make(map[string]*Session),
		logger:    logger.With().Str("component", "session_scheduler").Logger(),
	}
}

// StartSession registers a session and starts its cycle loop. The loop ends
// when ctx is cancelled or StopSession is called; an in-flight cycle runs to
// completion and its broadcast simply finds no subscriber.
//
// Callers that must subscribe to the session's channel before the immediate
// first cycle fires pass a pre-generated sessionID; an empty one gets a
// fresh id.
func (s *SessionScheduler) StartSession(ctx context.Context, sessionID string) *Session {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	session := &Session{
		ID:        sessionID,
		StartedAt: time.Now().UTC(),
		state:     SessionStateIdle,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info().Str("session_id", session.ID).Msg("session started")
	go s.run(sessionCtx, session)

	return session
}

// StopSession cancels a session's recurring timer. Safe to call twice.
func (s *SessionScheduler) StopSession(sessionID string) {
	s.mu.RLock()
	session, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if exists {
		session.cancel()
	}
}

// ActiveSessions returns the number of live sessions.
func (s *SessionScheduler) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionScheduler) run(ctx context.Context, session *Session) {
	defer func() {
		session.setState(SessionStateStopped)
		s.mu.Lock()
		delete(s.sessions, session.ID)
		s.mu.Unlock()
		close(session.done)
		s.logger.Info().Str("session_id", session.ID).Msg("session stopped")
	}()

	// First cycle runs immediately rather than waiting a full tick.
	s.cycle(ctx, session)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cycle(ctx, session)
		}
	}
}

// cycle runs one ingestion cycle, mirroring its phases onto the session
// state. Errors are already logged downstream; the loop must outlive any
// single failure, so nothing here returns one.
//
// Stopping a session only disarms the timer. A cycle already underway runs
// on its own deadline, detached from the session's cancellation, so a batch
// fetched mid-disconnect still lands in the store and the final broadcast
// simply finds no subscriber.
func (s *SessionScheduler) cycle(ctx context.Context, session *Session) {
	defer session.setState(SessionStateIdle)

	cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.interval)
	defer cancel()

	if _, err := s.ingestion.runCycle(cycleCtx, session.ID, session.setState); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("cycle degraded")
	}
}
