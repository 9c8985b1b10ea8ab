package supervisor

import (
	"context"
	"errors"
	"testing"
)

func TestStubSupervisor(t *testing.T) {
	t.Parallel()
	s := NewStubSupervisor()
	ctx := context.Background()

	res, err := s.Probe(ctx, "missing")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if res.Exists {
		t.Error("unregistered session should not exist")
	}
	if err := s.SendText(ctx, "missing", "hi"); !errors.Is(err, ErrNoSession) {
		t.Errorf("send to missing session: err = %v, want ErrNoSession", err)
	}

	s.SetSession("w1", "esc to interrupt")
	res, err = s.Probe(ctx, "w1")
	if err != nil || !res.Exists || res.RecentOutput != "esc to interrupt" {
		t.Errorf("probe w1 = %+v, %v", res, err)
	}

	if err := s.SendText(ctx, "w1", "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := s.SendText(ctx, "w1", "second"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := s.Sent("w1"); len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("sent = %v", got)
	}

	s.RemoveSession("w1")
	res, _ = s.Probe(ctx, "w1")
	if res.Exists {
		t.Error("removed session should not exist")
	}
}

func TestStubSupervisor_InjectedFailures(t *testing.T) {
	t.Parallel()
	s := NewStubSupervisor()
	ctx := context.Background()
	s.SetSession("w1", "output")

	boom := errors.New("boom")
	s.FailProbes(boom)
	if _, err := s.Probe(ctx, "w1"); !errors.Is(err, boom) {
		t.Errorf("probe err = %v, want injected", err)
	}
	s.FailProbes(nil)
	if _, err := s.Probe(ctx, "w1"); err != nil {
		t.Errorf("probe after restore: %v", err)
	}

	s.FailSends(boom)
	if err := s.SendText(ctx, "w1", "hi"); !errors.Is(err, boom) {
		t.Errorf("send err = %v, want injected", err)
	}
	s.FailSends(nil)
	if err := s.SendText(ctx, "w1", "hi"); err != nil {
		t.Errorf("send after restore: %v", err)
	}
}
