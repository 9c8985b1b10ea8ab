// Package store defines the persistence interface and shared models for projects, agents,
// content, reading assignments, read records, and scheduled reminders.
package store

import (
	"strings"
	"time"
)

// Project scopes a fleet of agents and their coordination state.
type Project struct {
	ProjectID  string
	Name       string
	Status     string // active, paused, completed, archived
	CreatedAt  time.Time
	AgentCount int
}

// Agent is an autonomous worker identity. AgentID is human-readable and unique fleet-wide.
// Status is owned by the liveness monitor; creation happens through an external launch flow.
type Agent struct {
	AgentID       string
	ProjectID     string
	RoleType      string // free-form tag, not a foreign key
	SquadID       *string
	Status        string // launching, active, idle, offline
	SessionRef    string // supervisor session handle (e.g. tmux session name)
	LastHeartbeat time.Time
	CreatedAt     time.Time
}

// TicketInfo is the ticket payload of a content row.
type TicketInfo struct {
	Status       string
	Priority     string
	AssignedRole string
	ClaimedBy    *string
}

// PhaseInfo is the phase payload of a content row. RequiredInputs and ExpectedOutputs are
// ordered lists of artifact slugs.
type PhaseInfo struct {
	Status          string // draft, approved, active, completed, blocked
	RequiredInputs  []string
	ExpectedOutputs []string
	AssignedRole    string
}

// Content is the shared envelope for the five content kinds. Exactly one of Ticket/Phase is
// non-nil for those types. Slug names document and phase artifacts that other phases depend on.
// A reply's parent is never itself a reply; CreateContent redirects to the root on insert.
type Content struct {
	ContentID int64
	ProjectID string
	ChannelID *string // nil = direct message
	ParentID  *int64
	Type      string // message, document, reply, ticket, phase
	Author    *string
	Body      string
	Slug      *string
	Ticket    *TicketInfo
	Phase     *PhaseInfo
	CreatedAt time.Time
}

// ReadingAssignment declares that an addressed group owes a read of a content item.
// Targets are resolved dynamically at query time; only LastNotifiedAt is ever mutated.
type ReadingAssignment struct {
	AssignmentID   int64
	ContentID      int64
	TargetType     string // agent, role, squad
	Target         string
	AssignedAt     time.Time
	LastNotifiedAt *time.Time
}

// AssignmentWithContent pairs an assignment with its content row for unread computation.
type AssignmentWithContent struct {
	Assignment ReadingAssignment
	Content    Content
}

// ReadRecord marks that one agent has read one assignment. At most one row exists per
// (assignment, agent); MarkRead is an idempotent upsert.
type ReadRecord struct {
	RecordID     int64
	AssignmentID int64
	AgentID      string
	ReadAt       time.Time
	Acknowledged bool
}

// ScheduledReminder fires a recurring message to a role until deactivated.
type ScheduledReminder struct {
	ReminderID       int64
	ProjectID        string
	TargetRole       string
	Message          string
	FrequencyMinutes int
	IsActive         bool
	LastSentAt       *time.Time
	CreatedAt        time.Time
}

// JoinSlugs serializes an ordered slug list for storage (comma-separated).
func JoinSlugs(slugs []string) string {
	return strings.Join(slugs, ",")
}

// SplitSlugs parses a stored slug list, dropping empty entries.
func SplitSlugs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
