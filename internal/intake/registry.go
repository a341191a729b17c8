package intake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-intake/internal/domain"
)

// DefaultMaxSessions bounds how many sessions a single process keeps alive.
const DefaultMaxSessions = 1000

// Registry keeps in-process sessions keyed by id. When full, opening a new
// session evicts the one touched least recently.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	maxSessions int
	opts        Options
}

func NewRegistry(maxSessions int, opts Options) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Registry{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		opts:        opts.withDefaults(),
	}
}

func (r *Registry) Open(_ context.Context) (string, domain.IntakeState, error) {
	id := uuid.NewString()
	sess := NewSession(id, r.opts)

	r.mu.Lock()
	if len(r.sessions) >= r.maxSessions {
		r.evictOldestLocked()
	}
	r.sessions[id] = sess
	r.mu.Unlock()

	r.opts.Logger.Debug("intake session opened", zap.String("session_id", id))
	return id, sess.State(), nil
}

func (r *Registry) Submit(_ context.Context, sessionID string, file domain.CandidateFile) (domain.IntakeState, error) {
	sess, err := r.get(sessionID)
	if err != nil {
		return domain.IntakeState{}, err
	}
	return sess.Submit(file), nil
}

func (r *Registry) Reset(_ context.Context, sessionID string) (domain.IntakeState, error) {
	sess, err := r.get(sessionID)
	if err != nil {
		return domain.IntakeState{}, err
	}
	return sess.Reset(), nil
}

func (r *Registry) State(_ context.Context, sessionID string) (domain.IntakeState, error) {
	sess, err := r.get(sessionID)
	if err != nil {
		return domain.IntakeState{}, err
	}
	return sess.State(), nil
}

func (r *Registry) Close(_ context.Context, sessionID string) error {
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) get(sessionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (r *Registry) evictOldestLocked() {
	var oldest *Session
	for _, sess := range r.sessions {
		if oldest == nil || sess.lastTouched().Before(oldest.lastTouched()) {
			oldest = sess
		}
	}
	if oldest == nil {
		return
	}
	delete(r.sessions, oldest.ID())
	oldest.Close()
	r.opts.Logger.Info("intake session evicted", zap.String("session_id", oldest.ID()))
}
