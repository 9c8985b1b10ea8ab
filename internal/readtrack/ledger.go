// Package readtrack derives read/unread state from read records and dynamically resolved
// assignment targets.
package readtrack

import (
	"context"

	"github.com/ankittk/crewdeck/internal/address"
	"github.com/ankittk/crewdeck/internal/store"
)

// Ledger answers read-state questions for reading assignments. All derived state is computed
// at query time; FullyRead is a moving target as role/squad membership changes.
type Ledger struct {
	Store    store.Store
	Resolver *address.Resolver
}

// UnreadItem is one assignment an agent still owes a read on, paired with its content.
type UnreadItem struct {
	Assignment store.ReadingAssignment
	Content    store.Content
}

// MarkRead records that agentID has read the assignment. Calling it again for the same pair is
// a no-op success; at most one read record ever exists per (assignment, agent).
func (l *Ledger) MarkRead(ctx context.Context, assignmentID int64, agentID string, acknowledged bool) error {
	return l.Store.MarkRead(ctx, assignmentID, agentID, acknowledged)
}

// MarkContentRead marks every assignment on the content read for agentID, provided the agent is
// in that assignment's current target set. One read action covers all paths a content item
// reached the agent through (role fan-out plus direct thread-participant assignments).
func (l *Ledger) MarkContentRead(ctx context.Context, projectID string, contentID int64, agentID string, acknowledged bool) error {
	assignments, err := l.Store.ListAssignmentsForContent(ctx, contentID)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		ok, err := l.Resolver.Includes(ctx, projectID, a, agentID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := l.Store.MarkRead(ctx, a.AssignmentID, agentID, acknowledged); err != nil {
			return err
		}
	}
	return nil
}

// FullyRead reports whether every currently resolved target of the assignment has a read
// record. An assignment resolving to zero agents is not fully read: "nobody to read it" is
// deliberately distinct from "everyone read it".
func (l *Ledger) FullyRead(ctx context.Context, projectID string, a store.ReadingAssignment) (bool, error) {
	targets, err := l.Resolver.ResolveTargets(ctx, projectID, a)
	if err != nil {
		return false, err
	}
	if len(targets) == 0 {
		return false, nil
	}
	for _, agentID := range targets {
		read, err := l.Store.HasReadRecord(ctx, a.AssignmentID, agentID)
		if err != nil {
			return false, err
		}
		if !read {
			return false, nil
		}
	}
	return true, nil
}

// UnreadFor reports whether agentID is in the assignment's target set without a read record.
func (l *Ledger) UnreadFor(ctx context.Context, projectID string, a store.ReadingAssignment, agentID string) (bool, error) {
	ok, err := l.Resolver.Includes(ctx, projectID, a, agentID)
	if err != nil || !ok {
		return false, err
	}
	read, err := l.Store.HasReadRecord(ctx, a.AssignmentID, agentID)
	if err != nil {
		return false, err
	}
	return !read, nil
}

// ContentUnreadFor reports whether the content is unread for the agent on any of its
// assignments. One content item can carry several assignments; the union decides.
func (l *Ledger) ContentUnreadFor(ctx context.Context, projectID string, contentID int64, agentID string) (bool, error) {
	assignments, err := l.Store.ListAssignmentsForContent(ctx, contentID)
	if err != nil {
		return false, err
	}
	for _, a := range assignments {
		unread, err := l.UnreadFor(ctx, projectID, a, agentID)
		if err != nil {
			return false, err
		}
		if unread {
			return true, nil
		}
	}
	return false, nil
}

// UnreadAssignments returns every assignment in the project that agentID still owes a read on,
// newest content first (the store orders the join).
func (l *Ledger) UnreadAssignments(ctx context.Context, projectID, agentID string) ([]UnreadItem, error) {
	all, err := l.Store.ListProjectAssignments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var out []UnreadItem
	for _, item := range all {
		unread, err := l.UnreadFor(ctx, projectID, item.Assignment, agentID)
		if err != nil {
			return nil, err
		}
		if unread {
			out = append(out, UnreadItem{Assignment: item.Assignment, Content: item.Content})
		}
	}
	return out, nil
}
