package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ankittk/crewdeck/internal/otel"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

// sendUnreadPings nudges each agent about unread assignments. An assignment is only mentioned
// again after its per-assignment cooldown elapses, and one ping names at most PingBatchSize
// items (newest first). The notified stamp is written after the send; a failed stamp means the
// agent may hear about the same item twice, which beats silently losing the nudge.
func (s *Scheduler) sendUnreadPings(ctx context.Context, p store.Project) {
	agents, err := s.Store.ListAgents(ctx, p.ProjectID)
	if err != nil {
		slog.Error("ping sweep list agents failed", "project", p.Name, "err", err)
		otel.RecordTickError(ctx, p.Name, "pings")
		return
	}
	now := s.now()
	for _, agent := range agents {
		if agent.Status == models.AgentOffline || agent.Status == models.AgentLaunching {
			continue
		}
		items, err := s.Ledger.UnreadAssignments(ctx, p.ProjectID, agent.AgentID)
		if err != nil {
			slog.Error("unread lookup failed", "project", p.Name, "agent", agent.AgentID, "err", err)
			otel.RecordTickError(ctx, p.Name, "pings")
			continue
		}

		var due []readtrackItem
		for _, it := range items {
			last := it.Assignment.LastNotifiedAt
			if last != nil && now.Sub(*last) < PingCooldown {
				continue
			}
			due = append(due, readtrackItem{assignmentID: it.Assignment.AssignmentID, contentType: it.Content.Type, body: it.Content.Body})
			if len(due) == PingBatchSize {
				break
			}
		}
		if len(due) == 0 {
			continue
		}

		if err := s.Supervisor.SendText(ctx, agent.SessionRef, composePing(len(items), due)); err != nil {
			slog.Warn("ping send failed", "project", p.Name, "agent", agent.AgentID, "err", err)
			otel.RecordTickError(ctx, p.Name, "pings")
			continue
		}
		otel.RecordPing(ctx, p.Name, agent.AgentID)
		if s.Hub != nil {
			s.Hub.PublishJSON(map[string]any{
				"type":    "unread_ping",
				"project": p.ProjectID,
				"agent":   agent.AgentID,
				"unread":  len(items),
			})
		}

		ids := make([]int64, 0, len(due))
		for _, d := range due {
			ids = append(ids, d.assignmentID)
		}
		if err := s.Store.StampNotified(ctx, ids, now); err != nil {
			slog.Warn("notified stamp failed", "project", p.Name, "agent", agent.AgentID, "err", err)
		}
	}
}

type readtrackItem struct {
	assignmentID int64
	contentType  string
	body         string
}

// composePing renders the nudge text sent into the agent's session.
func composePing(total int, due []readtrackItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d unread update(s). Most recent:\n", total)
	for _, d := range due {
		fmt.Fprintf(&b, "- [%s] %s\n", d.contentType, snippet(d.body, 80))
	}
	if total > len(due) {
		fmt.Fprintf(&b, "(%d more not shown)\n", total-len(due))
	}
	b.WriteString("Check your unread queue and mark items read.")
	return b.String()
}

// snippet returns the first line of s truncated to max runes.
func snippet(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
