package supervisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// TmuxSupervisor drives worker sessions through tmux: has-session for liveness, capture-pane
// for the recent output sample, send-keys for text injection. Every call carries a hard timeout
// so a wedged tmux can never stall the orchestrator tick.
type TmuxSupervisor struct {
	TmuxBin      string        // defaults to "tmux"
	CaptureLines int           // pane lines to sample; defaults to 20
	Timeout      time.Duration // per-command hard timeout; defaults to 3s
}

func (s TmuxSupervisor) Name() string { return "tmux" }

func (s TmuxSupervisor) bin() string {
	if s.TmuxBin != "" {
		return s.TmuxBin
	}
	return "tmux"
}

func (s TmuxSupervisor) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return 3 * time.Second
}

func (s TmuxSupervisor) Probe(ctx context.Context, sessionRef string) (ProbeResult, error) {
	if sessionRef == "" {
		return ProbeResult{}, errors.New("session ref required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	// Exact-match target (=) so "api" does not match "api-2".
	check := exec.CommandContext(ctx, s.bin(), "has-session", "-t", "="+sessionRef)
	if err := check.Run(); err != nil {
		if ctx.Err() != nil {
			return ProbeResult{}, ctx.Err()
		}
		// Non-zero exit means the session does not exist; that is a result, not an error.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ProbeResult{Exists: false}, nil
		}
		return ProbeResult{}, err
	}

	lines := s.CaptureLines
	if lines <= 0 {
		lines = 20
	}
	capture := exec.CommandContext(ctx, s.bin(), "capture-pane", "-p", "-t", "="+sessionRef, "-S", "-"+strconv.Itoa(lines))
	var out bytes.Buffer
	capture.Stdout = &out
	if err := capture.Run(); err != nil {
		if ctx.Err() != nil {
			return ProbeResult{}, ctx.Err()
		}
		// The session exists but the pane sample failed; report it alive with no output.
		return ProbeResult{Exists: true}, nil
	}
	return ProbeResult{Exists: true, RecentOutput: out.String()}, nil
}

func (s TmuxSupervisor) SendText(ctx context.Context, sessionRef, text string) error {
	if sessionRef == "" {
		return errors.New("session ref required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, s.bin(), "send-keys", "-t", "="+sessionRef, text, "Enter")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux send-keys to %s: %w", sessionRef, err)
	}
	return nil
}
