package intake

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"

	"resume-intake/internal/domain"
	"resume-intake/internal/logger"
)

const DefaultCompletionDelay = 2 * time.Second

// CompletionFunc is invoked once per accepted file, after the completion
// delay, and never for a file that was superseded or reset first.
type CompletionFunc func(sessionID string, file domain.CandidateFile)

type Options struct {
	Clock           clock.Clock
	CompletionDelay time.Duration
	OnComplete      CompletionFunc
	Logger          *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.CompletionDelay <= 0 {
		o.CompletionDelay = DefaultCompletionDelay
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Session owns one intake slot. The pending completion is tracked by an
// explicit timer handle plus a generation number: every Submit, Reset or
// Close bumps the generation, so a timer that fires late is ignored.
type Session struct {
	id         string
	clock      clock.Clock
	delay      time.Duration
	onComplete CompletionFunc
	log        *zap.Logger

	mu         sync.Mutex
	state      domain.IntakeState
	pending    *clock.Timer
	generation uint64
	touched    time.Time
}

func NewSession(id string, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		id:         id,
		clock:      opts.Clock,
		delay:      opts.CompletionDelay,
		onComplete: opts.OnComplete,
		log:        opts.Logger.With(zap.String("session_id", id)),
		state:      domain.EmptyIntakeState(),
		touched:    opts.Clock.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Submit(file domain.CandidateFile) domain.IntakeState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()
	s.state = s.state.Submit(file)
	s.touched = s.clock.Now()

	fields := logger.FileFields(file.Name, file.MediaType, file.ByteSize)
	switch s.state.Status {
	case domain.StatusPending:
		gen := s.generation
		s.pending = s.clock.AfterFunc(s.delay, func() { s.complete(gen) })
		s.log.Debug("resume accepted", append(fields, zap.Duration("completion_delay", s.delay))...)
	case domain.StatusRejected:
		s.log.Debug("resume rejected", append(fields, zap.String("reason", string(s.state.Reason)))...)
	}
	return s.state
}

func (s *Session) Reset() domain.IntakeState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()
	s.state = s.state.Reset()
	s.touched = s.clock.Now()
	s.log.Debug("intake reset")
	return s.state
}

func (s *Session) State() domain.IntakeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.clock.Now()
	return s.state
}

// Close cancels any pending completion. The state is left readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) supersedeLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.generation++
}

func (s *Session) complete(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.state.Status != domain.StatusPending {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.state = s.state.Complete()
	file := *s.state.File
	s.mu.Unlock()

	s.log.Info("resume upload complete", logger.FileFields(file.Name, file.MediaType, file.ByteSize)...)
	if s.onComplete != nil {
		s.onComplete(s.id, file)
	}
}
