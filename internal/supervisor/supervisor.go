// Package supervisor is the only boundary to the actual worker processes. The orchestration
// core needs exactly two capabilities: check whether a session is alive (with a sample of its
// recent output) and inject text into it.
package supervisor

import (
	"context"
	"errors"
)

// ErrNoSession is returned by SendText when the target session does not exist.
var ErrNoSession = errors.New("worker session does not exist")

// ProbeResult reports whether a worker session exists and a sample of its recent output for
// activity classification.
type ProbeResult struct {
	Exists       bool
	RecentOutput string
}

// Supervisor talks to worker sessions by session reference.
type Supervisor interface {
	Name() string
	Probe(ctx context.Context, sessionRef string) (ProbeResult, error)
	SendText(ctx context.Context, sessionRef, text string) error
}
