package supervisor

import (
	"context"
	"sync"
)

// StubSupervisor is an in-memory supervisor for tests and demo mode. Sessions are registered
// with a canned output sample; sent text is recorded per session.
type StubSupervisor struct {
	mu       sync.Mutex
	sessions map[string]string // sessionRef -> recent output sample
	sent     map[string][]string
	probeErr error
	sendErr  error
}

func NewStubSupervisor() *StubSupervisor {
	return &StubSupervisor{
		sessions: make(map[string]string),
		sent:     make(map[string][]string),
	}
}

func (s *StubSupervisor) Name() string { return "stub" }

// SetSession registers (or updates) a live session with the given output sample.
func (s *StubSupervisor) SetSession(sessionRef, recentOutput string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionRef] = recentOutput
}

// RemoveSession makes the session report as nonexistent.
func (s *StubSupervisor) RemoveSession(sessionRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionRef)
}

// FailProbes makes every Probe return err (nil to restore).
func (s *StubSupervisor) FailProbes(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeErr = err
}

// FailSends makes every SendText return err (nil to restore).
func (s *StubSupervisor) FailSends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

// Sent returns a copy of the texts sent to sessionRef.
func (s *StubSupervisor) Sent(sessionRef string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent[sessionRef]))
	copy(out, s.sent[sessionRef])
	return out
}

func (s *StubSupervisor) Probe(ctx context.Context, sessionRef string) (ProbeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.probeErr != nil {
		return ProbeResult{}, s.probeErr
	}
	output, ok := s.sessions[sessionRef]
	if !ok {
		return ProbeResult{Exists: false}, nil
	}
	return ProbeResult{Exists: true, RecentOutput: output}, nil
}

func (s *StubSupervisor) SendText(ctx context.Context, sessionRef, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	if _, ok := s.sessions[sessionRef]; !ok {
		return ErrNoSession
	}
	s.sent[sessionRef] = append(s.sent[sessionRef], text)
	return nil
}
