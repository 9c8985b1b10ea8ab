// Package liveness classifies worker sessions as active, idle, or offline.
package liveness

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/internal/supervisor"
	"github.com/ankittk/crewdeck/pkg/models"
)

// HeartbeatStale is how long since the last heartbeat before an agent counts as idle even when
// its pane shows activity markers.
const HeartbeatStale = models.DefaultHeartbeatStaleMin * time.Minute

// activityRe matches output a worker emits while it is actually doing something: tool spinners,
// streaming markers, interrupt hints. Quiet prompts match nothing and classify as idle.
var activityRe = regexp.MustCompile(`(?i)(esc to interrupt|thinking|working|running|tokens|\.{3})`)

// Monitor probes worker sessions through the supervisor and persists status changes.
// Offline is the fail-safe: a missing session, a probe error, or a probe timeout all degrade
// the agent to offline rather than raising.
type Monitor struct {
	Store      store.Store
	Supervisor supervisor.Supervisor
	Now        func() time.Time // defaults to time.Now
}

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Classify returns the status a probe result implies for the agent.
func (m *Monitor) Classify(agent store.Agent, res supervisor.ProbeResult, probeErr error) string {
	if probeErr != nil || !res.Exists {
		return models.AgentOffline
	}
	if !activityRe.MatchString(res.RecentOutput) {
		return models.AgentIdle
	}
	if m.now().Sub(agent.LastHeartbeat) > HeartbeatStale {
		return models.AgentIdle
	}
	return models.AgentActive
}

// Probe probes one agent and returns its new status without persisting it.
func (m *Monitor) Probe(ctx context.Context, agent store.Agent) string {
	res, err := m.Supervisor.Probe(ctx, agent.SessionRef)
	if err != nil {
		slog.Warn("liveness probe failed", "agent", agent.AgentID, "err", err)
	}
	return m.Classify(agent, res, err)
}

// ProbeAll probes every agent in the project, persisting status changes and refreshing the
// heartbeat for agents observed active. Launching agents whose session has not appeared yet are
// left alone. Per-agent failures never abort the sweep.
func (m *Monitor) ProbeAll(ctx context.Context, projectID string) error {
	agents, err := m.Store.ListAgents(ctx, projectID)
	if err != nil {
		return err
	}
	for _, agent := range agents {
		res, probeErr := m.Supervisor.Probe(ctx, agent.SessionRef)
		if probeErr != nil {
			slog.Warn("liveness probe failed", "agent", agent.AgentID, "err", probeErr)
		}
		if agent.Status == models.AgentLaunching && probeErr == nil && !res.Exists {
			// Still starting up; give the launch flow time before declaring it offline.
			continue
		}
		status := m.Classify(agent, res, probeErr)

		heartbeat := agent.LastHeartbeat
		if status == models.AgentActive {
			heartbeat = m.now()
		}
		if status == agent.Status && heartbeat.Equal(agent.LastHeartbeat) {
			continue
		}
		if status != agent.Status {
			heartbeat = m.now()
			slog.Info("agent status changed", "agent", agent.AgentID, "from", agent.Status, "to", status)
		}
		if err := m.Store.UpdateAgentStatus(ctx, agent.AgentID, status, heartbeat); err != nil {
			slog.Error("agent status update failed", "agent", agent.AgentID, "err", err)
		}
	}
	return nil
}
