// Package address resolves reading-assignment targets to concrete agent identities.
//
// Resolution is dynamic: role and squad targets are recomputed from current membership every
// time, so an agent that joins a role after an assignment was created still owes a read, and
// an agent that left is no longer counted. Nothing here is ever cached.
package address

import (
	"context"

	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

// DirectorID is the canonical identity of the human operator. The director is a pseudo-agent:
// it can be addressed and can hold read records, but has no row in the agents table and is
// never probed or pinged.
const DirectorID = "human-director"

// directorAlias is the legacy spelling still found in older assignments.
const directorAlias = "director"

// IsDirector reports whether id names the human director (canonical or legacy alias).
func IsDirector(id string) bool {
	return id == DirectorID || id == directorAlias
}

// Resolver computes the concrete recipient set an assignment currently denotes.
type Resolver struct {
	Store store.Store
}

// ResolveTargets returns the agent ids the assignment addresses right now. An assignment whose
// target resolves to nobody (unknown agent, role with zero members) yields an empty set, not
// an error.
func (r *Resolver) ResolveTargets(ctx context.Context, projectID string, a store.ReadingAssignment) ([]string, error) {
	switch a.TargetType {
	case models.TargetAgent:
		if IsDirector(a.Target) {
			return []string{DirectorID}, nil
		}
		agent, err := r.Store.GetAgent(ctx, projectID, a.Target)
		if err != nil {
			return nil, err
		}
		if agent == nil {
			return nil, nil
		}
		return []string{agent.AgentID}, nil
	case models.TargetRole:
		agents, err := r.Store.ListAgentsByRole(ctx, projectID, a.Target)
		if err != nil {
			return nil, err
		}
		return agentIDs(agents), nil
	case models.TargetSquad:
		agents, err := r.Store.ListAgentsBySquad(ctx, projectID, a.Target)
		if err != nil {
			return nil, err
		}
		return agentIDs(agents), nil
	default:
		// Unknown target types resolve to nobody rather than failing the caller.
		return nil, nil
	}
}

// Includes reports whether agentID is in the assignment's current target set.
func (r *Resolver) Includes(ctx context.Context, projectID string, a store.ReadingAssignment, agentID string) (bool, error) {
	if a.TargetType == models.TargetAgent && IsDirector(a.Target) {
		return IsDirector(agentID), nil
	}
	targets, err := r.ResolveTargets(ctx, projectID, a)
	if err != nil {
		return false, err
	}
	for _, t := range targets {
		if t == agentID {
			return true, nil
		}
	}
	return false, nil
}

func agentIDs(agents []store.Agent) []string {
	out := make([]string, 0, len(agents))
	for _, a := range agents {
		out = append(out, a.AgentID)
	}
	return out
}
