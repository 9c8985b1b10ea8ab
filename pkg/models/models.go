// Package models provides shared types for the Crewdeck HTTP API and external tools.
// These types mirror the API JSON and are stable for use by external consumers.
package models

import "time"

// Project scopes a fleet of agents and their coordination state.
type Project struct {
	ProjectID  string    `json:"project_id,omitempty"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	AgentCount int       `json:"agent_count,omitempty"`
}

// Agent is an autonomous worker process identity tracked by the orchestrator.
type Agent struct {
	AgentID       string    `json:"agent_id"`
	ProjectID     string    `json:"project_id,omitempty"`
	RoleType      string    `json:"role_type"`
	SquadID       *string   `json:"squad_id,omitempty"`
	Status        string    `json:"status"`
	SessionRef    string    `json:"session_ref,omitempty"`
	LastHeartbeat time.Time `json:"last_heartbeat,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// TicketInfo is the ticket-specific payload of a content item.
type TicketInfo struct {
	Status       string  `json:"status"`
	Priority     string  `json:"priority,omitempty"`
	AssignedRole string  `json:"assigned_role,omitempty"`
	ClaimedBy    *string `json:"claimed_by,omitempty"`
}

// PhaseInfo is the phase-specific payload of a content item.
type PhaseInfo struct {
	Status          string   `json:"status"`
	RequiredInputs  []string `json:"required_inputs,omitempty"`
	ExpectedOutputs []string `json:"expected_outputs,omitempty"`
	AssignedRole    string   `json:"assigned_role"`
}

// Content is the shared envelope for messages, documents, replies, tickets, and phases.
// Exactly one of Ticket/Phase is set for those types; Slug identifies document and phase artifacts.
type Content struct {
	ContentID int64       `json:"content_id"`
	ProjectID string      `json:"project_id,omitempty"`
	ChannelID *string     `json:"channel_id,omitempty"`
	ParentID  *int64      `json:"parent_id,omitempty"`
	Type      string      `json:"type"`
	Author    *string     `json:"author,omitempty"`
	Body      string      `json:"body,omitempty"`
	Slug      *string     `json:"slug,omitempty"`
	Ticket    *TicketInfo `json:"ticket,omitempty"`
	Phase     *PhaseInfo  `json:"phase,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

// ReadingAssignment declares that an addressed group owes a read of a content item.
type ReadingAssignment struct {
	AssignmentID   int64      `json:"assignment_id"`
	ContentID      int64      `json:"content_id"`
	TargetType     string     `json:"target_type"`
	Target         string     `json:"target"`
	AssignedAt     time.Time  `json:"assigned_at,omitempty"`
	LastNotifiedAt *time.Time `json:"last_notified_at,omitempty"`
}

// ReadRecord marks that one agent has read one assignment.
type ReadRecord struct {
	RecordID     int64     `json:"record_id"`
	AssignmentID int64     `json:"assignment_id"`
	AgentID      string    `json:"agent_id"`
	ReadAt       time.Time `json:"read_at"`
	Acknowledged bool      `json:"acknowledged"`
}

// PhaseActivation reports one phase the dependency engine moved to active.
type PhaseActivation struct {
	PhaseID int64  `json:"phase_id"`
	Role    string `json:"role"`
	Title   string `json:"title"`
}

// ScheduledReminder fires a recurring message to a role until deactivated.
type ScheduledReminder struct {
	ReminderID       int64      `json:"reminder_id"`
	ProjectID        string     `json:"project_id,omitempty"`
	TargetRole       string     `json:"target_role"`
	Message          string     `json:"message"`
	FrequencyMinutes int        `json:"frequency_minutes"`
	IsActive         bool       `json:"is_active"`
	LastSentAt       *time.Time `json:"last_sent_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at,omitempty"`
}
