// Package scheduler drives the orchestration loop: liveness sweeps, unread pings, gentle
// pokes, scheduled reminders, delegate forwarding, and phase re-evaluation on a fixed period.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ankittk/crewdeck/internal/address"
	"github.com/ankittk/crewdeck/internal/liveness"
	"github.com/ankittk/crewdeck/internal/otel"
	"github.com/ankittk/crewdeck/internal/phase"
	"github.com/ankittk/crewdeck/internal/policy"
	"github.com/ankittk/crewdeck/internal/readtrack"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/internal/supervisor"
	"github.com/ankittk/crewdeck/pkg/models"
)

const (
	// PingCooldown is the minimum interval between notifications on the same assignment.
	PingCooldown = models.DefaultPingCooldownSeconds * time.Second
	// PingBatchSize caps how many unread items one ping mentions.
	PingBatchSize = models.DefaultPingBatchSize
	// PokeThreshold is how long an agent must be continuously idle before a poke.
	PokeThreshold = models.DefaultPokeThresholdMinutes * time.Minute
)

// Publisher receives scheduler events (e.g. the SSE hub). Optional.
type Publisher = phase.Publisher

// Scheduler owns the orchestration tick. Construct once with New, then Run it; there are no
// locks shared across ticks — correctness rests on idempotent writes and cooldown stamps.
type Scheduler struct {
	Store      store.Store
	Supervisor supervisor.Supervisor
	Policy     policy.Policy
	Monitor    *liveness.Monitor
	Engine     *phase.Engine
	Ledger     *readtrack.Ledger
	Hub        Publisher
	Interval   time.Duration
	Now        func() time.Time // defaults to time.Now

	// idleSince tracks when each agent was first observed idle. Scheduler-local and never
	// persisted: a restart costs at most one extra poke-delay cycle.
	mu        sync.Mutex
	idleSince map[string]time.Time
}

// New wires a Scheduler and its collaborators over the given store, supervisor, and policy.
func New(st store.Store, sup supervisor.Supervisor, pol policy.Policy, hub Publisher) *Scheduler {
	resolver := &address.Resolver{Store: st}
	return &Scheduler{
		Store:      st,
		Supervisor: sup,
		Policy:     pol,
		Monitor:    &liveness.Monitor{Store: st, Supervisor: sup},
		Engine:     &phase.Engine{Store: st, Hub: hub},
		Ledger:     &readtrack.Ledger{Store: st, Resolver: resolver},
		Hub:        hub,
		Interval:   models.DefaultTickSeconds * time.Second,
		idleSince:  make(map[string]time.Time),
	}
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = models.DefaultTickSeconds * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("scheduler starting", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one full pass: every active project concurrently, each isolated so one project's
// failure cannot block or corrupt another's cycle.
func (s *Scheduler) Tick(ctx context.Context) {
	projects, err := s.Store.ListProjectsByStatus(ctx, models.ProjectActive)
	if err != nil {
		slog.Error("scheduler list projects failed", "err", err)
		return
	}

	var wg sync.WaitGroup
	for _, p := range projects {
		wg.Add(1)
		go func(p store.Project) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("project tick panicked", "project", p.Name, "panic", r)
					otel.RecordTickError(ctx, p.Name, "tick")
				}
			}()
			s.runProject(ctx, p)
		}(p)
	}
	wg.Wait()
}

// runProject runs the liveness sweep, the four notification sub-tasks, and the phase engine
// pass for one project. The sub-tasks are independent and run concurrently; each swallows its
// own per-item errors.
func (s *Scheduler) runProject(ctx context.Context, p store.Project) {
	start := time.Now()
	defer func() { otel.RecordTick(ctx, p.Name, time.Since(start)) }()

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context, store.Project)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("scheduler sub-task panicked", "project", p.Name, "subtask", name, "panic", r)
					otel.RecordTickError(ctx, p.Name, name)
				}
			}()
			fn(ctx, p)
		}()
	}

	run("liveness", func(ctx context.Context, p store.Project) {
		if err := s.Monitor.ProbeAll(ctx, p.ProjectID); err != nil {
			slog.Error("liveness sweep failed", "project", p.Name, "err", err)
			otel.RecordTickError(ctx, p.Name, "liveness")
		}
	})
	run("pings", s.sendUnreadPings)
	run("pokes", s.sendGentlePokes)
	run("reminders", s.fireReminders)
	run("forwarding", s.forwardToDelegate)
	wg.Wait()

	// Phases last so activations see the statuses this tick just wrote.
	activations, err := s.Engine.Evaluate(ctx, p.ProjectID)
	if err != nil {
		slog.Error("phase evaluation failed", "project", p.Name, "err", err)
		otel.RecordTickError(ctx, p.Name, "phases")
		return
	}
	for _, act := range activations {
		otel.RecordActivation(ctx, p.Name, act.Role)
	}
}
