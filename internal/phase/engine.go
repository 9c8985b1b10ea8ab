// Package phase gates role work on completed input artifacts and auto-progresses approved
// phases.
package phase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

// Publisher receives engine events (e.g. the SSE hub). Optional.
type Publisher interface {
	PublishJSON(v any)
}

// Engine evaluates phase activations for a project. It holds no state of its own: every pass
// recomputes eligibility from storage, and the approved -> active write is conditional so the
// at-most-one-active-phase-per-role invariant survives overlapping passes.
type Engine struct {
	Store store.Store
	Hub   Publisher
}

// Activation describes one phase the engine just activated.
type Activation struct {
	PhaseID int64  `json:"phase_id"`
	Role    string `json:"role"`
	Title   string `json:"title"`
}

// Evaluate runs one engine pass: for every role with zero active phases, activate the earliest
// approved phase whose required inputs are all satisfied. Because satisfaction is recomputed
// from current state, completing one artifact can unblock several roles in the same pass.
//
// A phase referencing a slug that no artifact bears simply never activates; that is treated as
// "not satisfied", never as an error.
func (e *Engine) Evaluate(ctx context.Context, projectID string) ([]Activation, error) {
	phases, err := e.Store.ListPhases(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return nil, nil
	}
	satisfied, err := e.satisfiedSlugs(ctx, projectID, phases)
	if err != nil {
		return nil, err
	}

	// Group by role preserving the store's creation-time order within each group.
	byRole := make(map[string][]store.Content)
	var roleOrder []string
	for _, p := range phases {
		role := p.Phase.AssignedRole
		if _, seen := byRole[role]; !seen {
			roleOrder = append(roleOrder, role)
		}
		byRole[role] = append(byRole[role], p)
	}

	var out []Activation
	for _, role := range roleOrder {
		group := byRole[role]
		if hasActive(group) {
			continue
		}
		for _, p := range group {
			if p.Phase.Status != models.PhaseApproved {
				continue
			}
			if !inputsSatisfied(p.Phase.RequiredInputs, satisfied) {
				continue
			}
			ok, err := e.Store.UpdatePhaseStatusCAS(ctx, p.ContentID, models.PhaseApproved, models.PhaseActive)
			if err != nil {
				slog.Error("phase activation write failed", "project", projectID, "phase_id", p.ContentID, "err", err)
				break
			}
			if !ok {
				// Lost the race to a concurrent pass; treat the role as handled.
				break
			}
			e.announce(ctx, projectID, p)
			out = append(out, Activation{PhaseID: p.ContentID, Role: role, Title: p.Body})
			break
		}
	}
	return out, nil
}

// satisfiedSlugs returns the set of artifact slugs that currently count as satisfied: a
// document is satisfied by existing, a phase only once completed.
func (e *Engine) satisfiedSlugs(ctx context.Context, projectID string, phases []store.Content) (map[string]bool, error) {
	docs, err := e.Store.ListContentByType(ctx, projectID, models.ContentDocument)
	if err != nil {
		return nil, err
	}
	satisfied := make(map[string]bool)
	for _, d := range docs {
		if d.Slug != nil && *d.Slug != "" {
			satisfied[*d.Slug] = true
		}
	}
	for _, p := range phases {
		if p.Slug != nil && *p.Slug != "" && p.Phase.Status == models.PhaseCompleted {
			satisfied[*p.Slug] = true
		}
	}
	return satisfied, nil
}

// announce creates the activation notification: a message addressed to the role plus the
// role-scoped reading assignment on it. Failures here are logged, not propagated; the phase is
// already active.
func (e *Engine) announce(ctx context.Context, projectID string, p store.Content) {
	role := p.Phase.AssignedRole
	slog.Info("phase activated", "project", projectID, "phase_id", p.ContentID, "role", role)

	msgID, err := e.Store.CreateContent(ctx, store.Content{
		ProjectID: projectID,
		Type:      models.ContentMessage,
		Body:      fmt.Sprintf("Phase %d is now active for %s: %s", p.ContentID, role, p.Body),
	})
	if err != nil {
		slog.Error("phase activation message failed", "phase_id", p.ContentID, "err", err)
		return
	}
	if _, err := e.Store.CreateAssignment(ctx, msgID, models.TargetRole, role); err != nil {
		slog.Error("phase activation assignment failed", "phase_id", p.ContentID, "err", err)
	}
	if e.Hub != nil {
		e.Hub.PublishJSON(map[string]any{
			"type":     "phase_activated",
			"project":  projectID,
			"phase_id": p.ContentID,
			"role":     role,
		})
	}
}

// Complete moves an active phase to completed and returns whether the write applied.
// Reactivation is impossible: completed is terminal.
func (e *Engine) Complete(ctx context.Context, phaseID int64) (bool, error) {
	return e.Store.UpdatePhaseStatusCAS(ctx, phaseID, models.PhaseActive, models.PhaseCompleted)
}

// Approve moves a draft phase to approved and returns whether the write applied.
func (e *Engine) Approve(ctx context.Context, phaseID int64) (bool, error) {
	return e.Store.UpdatePhaseStatusCAS(ctx, phaseID, models.PhaseDraft, models.PhaseApproved)
}

// Block moves any non-completed phase to blocked.
func (e *Engine) Block(ctx context.Context, phaseID int64) (bool, error) {
	return e.Store.BlockPhase(ctx, phaseID)
}

func hasActive(group []store.Content) bool {
	for _, p := range group {
		if p.Phase.Status == models.PhaseActive {
			return true
		}
	}
	return false
}

func inputsSatisfied(required []string, satisfied map[string]bool) bool {
	for _, slug := range required {
		if !satisfied[slug] {
			return false
		}
	}
	return true
}
