package scheduler

import (
	"context"
	"log/slog"

	"github.com/ankittk/crewdeck/internal/address"
	"github.com/ankittk/crewdeck/internal/otel"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

// forwardToDelegate mirrors director-addressed assignments onto the delegate role when the
// project policy enables forwarding. The director's own assignment is untouched; the delegate
// role gets an additional assignment on the same content so the team can act while the human
// is away. Existing delegate assignments on the content make the forward a no-op.
func (s *Scheduler) forwardToDelegate(ctx context.Context, p store.Project) {
	if s.Policy == nil || !s.Policy.ForwardingEnabled(p.ProjectID) {
		return
	}
	delegate := s.Policy.DelegateRole(p.ProjectID)

	all, err := s.Store.ListProjectAssignments(ctx, p.ProjectID)
	if err != nil {
		slog.Error("forwarding sweep failed", "project", p.Name, "err", err)
		otel.RecordTickError(ctx, p.Name, "forwarding")
		return
	}

	// Content ids that already carry a delegate-role assignment.
	covered := make(map[int64]bool)
	for _, item := range all {
		a := item.Assignment
		if a.TargetType == models.TargetRole && a.Target == delegate {
			covered[a.ContentID] = true
		}
	}

	for _, item := range all {
		a := item.Assignment
		if a.TargetType != models.TargetAgent || !address.IsDirector(a.Target) {
			continue
		}
		if covered[a.ContentID] {
			continue
		}
		if _, err := s.Store.CreateAssignment(ctx, a.ContentID, models.TargetRole, delegate); err != nil {
			slog.Error("delegate forward failed", "project", p.Name, "content_id", a.ContentID, "err", err)
			otel.RecordTickError(ctx, p.Name, "forwarding")
			continue
		}
		covered[a.ContentID] = true
		slog.Info("director assignment forwarded", "project", p.Name, "content_id", a.ContentID, "delegate", delegate)
		otel.RecordForward(ctx, p.Name)
	}
}
