package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/ankittk/crewdeck/internal/otel"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

const pokeText = "You appear idle. If you are between tasks, check your unread queue, " +
	"claim an open ticket, or report what you are blocked on."

// sendGentlePokes nudges agents that have been continuously idle for the poke threshold.
// A successful poke resets the idle clock, so a persistently idle agent hears from us once per
// threshold window rather than every tick. Any non-idle observation clears the clock.
func (s *Scheduler) sendGentlePokes(ctx context.Context, p store.Project) {
	agents, err := s.Store.ListAgents(ctx, p.ProjectID)
	if err != nil {
		slog.Error("poke sweep list agents failed", "project", p.Name, "err", err)
		otel.RecordTickError(ctx, p.Name, "pokes")
		return
	}
	now := s.now()
	for _, agent := range agents {
		if agent.Status != models.AgentIdle {
			s.clearIdle(agent.AgentID)
			continue
		}
		since := s.idleStart(agent.AgentID, now)
		if now.Sub(since) < PokeThreshold {
			continue
		}
		if err := s.Supervisor.SendText(ctx, agent.SessionRef, pokeText); err != nil {
			slog.Warn("poke send failed", "project", p.Name, "agent", agent.AgentID, "err", err)
			otel.RecordTickError(ctx, p.Name, "pokes")
			continue
		}
		slog.Info("gentle poke sent", "project", p.Name, "agent", agent.AgentID, "idle_for", now.Sub(since))
		otel.RecordPoke(ctx, p.Name, agent.AgentID)
		if s.Hub != nil {
			s.Hub.PublishJSON(map[string]any{
				"type":    "gentle_poke",
				"project": p.ProjectID,
				"agent":   agent.AgentID,
			})
		}
		s.resetIdle(agent.AgentID, now)
	}
}

// idleStart returns when the agent's current idle stretch began, recording now on first sight.
func (s *Scheduler) idleStart(agentID string, now time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if since, ok := s.idleSince[agentID]; ok {
		return since
	}
	s.idleSince[agentID] = now
	return now
}

func (s *Scheduler) resetIdle(agentID string, now time.Time) {
	s.mu.Lock()
	s.idleSince[agentID] = now
	s.mu.Unlock()
}

func (s *Scheduler) clearIdle(agentID string) {
	s.mu.Lock()
	delete(s.idleSince, agentID)
	s.mu.Unlock()
}
