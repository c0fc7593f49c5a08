package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Outcome tags a recognition attempt.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeTimedOut
	OutcomeEngineFault
	OutcomeOther
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTimedOut:
		return "timeout"
	case OutcomeEngineFault:
		return "engine-fault"
	default:
		return "other"
	}
}

// Recoverable reports whether the failure is attributed to the engine and
// counts toward recycling it.
func (o Outcome) Recoverable() bool {
	return o == OutcomeTimedOut || o == OutcomeEngineFault
}

// Result is the tagged return of Session.Recognize. Text is set only for OutcomeOK.
type Result struct {
	Outcome    Outcome
	Text       string
	Err        error
	Duration   time.Duration
	Generation int // engine handle that served the call
}

type reply struct {
	text string
	err  error
}

// Session owns the long-lived engine handle. Calls are serialized; the handle is
// torn down and recreated after MaxFailures consecutive timeouts or engine faults.
type Session struct {
	factory     EngineFactory
	logger      *slog.Logger
	timeout     time.Duration
	maxFailures int

	mu         sync.Mutex
	engine     Engine
	generation int
	failures   int
	abandoned  <-chan reply // a timed-out call still running inside the engine
}

type SessionOption func(*Session)

func WithTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMaxFailures(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxFailures = n
		}
	}
}

// NewSession creates the first engine handle. A failure here is fatal for a run
// and always wraps ErrEngineInit.
func NewSession(ctx context.Context, factory EngineFactory, logger *slog.Logger, opts ...SessionOption) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		factory:     factory,
		logger:      logger,
		timeout:     30 * time.Second,
		maxFailures: 5,
	}
	for _, o := range opts {
		o(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createLocked(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Generation is the number of engine handles created so far.
func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Failures is the current consecutive engine failure count.
func (s *Session) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// Recognize runs the engine on path within the session timeout. Timeouts and
// engine faults are returned as outcomes, not raised; once they reach the
// threshold the handle is recycled before Recognize returns. If the new handle
// cannot be created, Result.Err also wraps ErrEngineInit.
func (s *Session) Recognize(ctx context.Context, path string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		if err := s.createLocked(ctx); err != nil {
			return Result{Outcome: OutcomeOther, Err: err}
		}
	}

	res := s.race(ctx, path)
	res.Generation = s.generation

	switch {
	case res.Outcome == OutcomeOK:
		s.failures = 0
	case res.Outcome.Recoverable():
		s.failures++
		s.logger.Debug("ocr.session.failure",
			"path", path,
			"outcome", res.Outcome.String(),
			"failures", s.failures,
			"threshold", s.maxFailures,
		)
		if s.failures >= s.maxFailures {
			s.logger.Warn("ocr.session.recycle", "failures", s.failures, "generation", s.generation)
			if err := s.recreateLocked(ctx); err != nil {
				res.Err = errors.Join(res.Err, err)
			}
		}
	}
	return res
}

// Recreate disposes of the current handle and creates a fresh one, resetting
// the failure count. Disposal errors are logged and ignored.
func (s *Session) Recreate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recreateLocked(ctx)
}

// Close releases the handle, waiting up to the timeout for an abandoned call.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil
	}
	if s.abandoned != nil {
		select {
		case <-s.abandoned:
		case <-time.After(s.timeout):
			s.logger.Warn("ocr.session.close_busy", "generation", s.generation)
		}
		s.abandoned = nil
	}
	err := s.engine.Close()
	s.engine = nil
	return err
}

func (s *Session) createLocked(ctx context.Context) error {
	eng, err := s.factory(ctx)
	if err != nil {
		if !errors.Is(err, ErrEngineInit) {
			err = fmt.Errorf("%w: %w", ErrEngineInit, err)
		}
		return err
	}
	s.engine = eng
	s.generation++
	s.failures = 0
	s.logger.Info("ocr.session.engine_created", "generation", s.generation)
	return nil
}

func (s *Session) recreateLocked(ctx context.Context) error {
	old, pending := s.engine, s.abandoned
	s.engine, s.abandoned = nil, nil
	if old != nil {
		s.dispose(old, pending)
	}
	return s.createLocked(ctx)
}

// dispose closes an engine; if a timed-out call is still inside it, the close
// happens once that call returns so the handle is never used concurrently.
func (s *Session) dispose(eng Engine, pending <-chan reply) {
	closeEngine := func() {
		if err := eng.Close(); err != nil {
			s.logger.Warn("ocr.session.dispose_failed", "error", err)
		}
	}
	if pending == nil {
		closeEngine()
		return
	}
	go func() {
		<-pending
		closeEngine()
	}()
}

// race runs one engine call against the timeout; the first to complete wins.
func (s *Session) race(ctx context.Context, path string) Result {
	start := time.Now()

	if s.abandoned != nil {
		select {
		case <-s.abandoned:
			s.abandoned = nil
		case <-time.After(s.timeout):
			return Result{Outcome: OutcomeTimedOut, Err: fmt.Errorf("%w: engine still busy with a previous image", ErrTimeout), Duration: time.Since(start)}
		case <-ctx.Done():
			return Result{Outcome: OutcomeOther, Err: ctx.Err(), Duration: time.Since(start)}
		}
	}

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan reply, 1)
	eng := s.engine
	go func() {
		text, err := eng.Recognize(rctx, path)
		done <- reply{text: text, err: err}
	}()

	select {
	case r := <-done:
		res := s.classify(ctx, rctx, r)
		res.Duration = time.Since(start)
		return res
	case <-rctx.Done():
		s.abandoned = done
		if err := ctx.Err(); err != nil {
			return Result{Outcome: OutcomeOther, Err: err, Duration: time.Since(start)}
		}
		return Result{Outcome: OutcomeTimedOut, Err: fmt.Errorf("%w after %s", ErrTimeout, s.timeout), Duration: time.Since(start)}
	}
}

func (s *Session) classify(ctx, rctx context.Context, r reply) Result {
	switch {
	case r.err == nil:
		return Result{Outcome: OutcomeOK, Text: Normalize(r.text)}
	case errors.Is(r.err, ErrEngineFault):
		return Result{Outcome: OutcomeEngineFault, Err: r.err}
	case ctx.Err() == nil && errors.Is(rctx.Err(), context.DeadlineExceeded):
		return Result{Outcome: OutcomeTimedOut, Err: fmt.Errorf("%w after %s: %w", ErrTimeout, s.timeout, r.err)}
	default:
		return Result{Outcome: OutcomeOther, Err: r.err}
	}
}
