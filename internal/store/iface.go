package store

import (
	"context"
	"time"
)

// Store is the persistence interface for the orchestration core.
// Implementations: the SQLite store in this package and *postgres.Store.
type Store interface {
	// Projects
	ListProjects(ctx context.Context) ([]Project, error)
	ListProjectsByStatus(ctx context.Context, status string) ([]Project, error)
	GetProjectByName(ctx context.Context, name string) (Project, error)
	CreateProject(ctx context.Context, name string) (Project, error)
	SetProjectStatus(ctx context.Context, name, status string) error

	// Agents
	ListAgents(ctx context.Context, projectID string) ([]Agent, error)
	ListAgentsByRole(ctx context.Context, projectID, roleType string) ([]Agent, error)
	ListAgentsBySquad(ctx context.Context, projectID, squadID string) ([]Agent, error)
	GetAgent(ctx context.Context, projectID, agentID string) (*Agent, error)
	CreateAgent(ctx context.Context, projectID, agentID, roleType string, squadID *string, sessionRef string) error
	UpdateAgentStatus(ctx context.Context, agentID, status string, heartbeat time.Time) error

	// Content
	CreateContent(ctx context.Context, c Content) (int64, error)
	GetContent(ctx context.Context, contentID int64) (*Content, error)
	ListContentByType(ctx context.Context, projectID, contentType string) ([]Content, error)
	// ListPhases returns phase rows in ascending creation order (content id as tie-break)
	// so activation picks are deterministic.
	ListPhases(ctx context.Context, projectID string) ([]Content, error)
	// UpdatePhaseStatusCAS transitions a phase only if its current status matches from;
	// returns false when the row was not in the expected state.
	UpdatePhaseStatusCAS(ctx context.Context, contentID int64, from, to string) (bool, error)
	// BlockPhase moves any non-completed phase to blocked; returns false if already completed.
	BlockPhase(ctx context.Context, contentID int64) (bool, error)
	ClaimTicket(ctx context.Context, contentID int64, agentID string) (bool, error)
	UpdateTicketStatus(ctx context.Context, contentID int64, status string) error

	// Reading assignments
	CreateAssignment(ctx context.Context, contentID int64, targetType, target string) (int64, error)
	ListAssignmentsForContent(ctx context.Context, contentID int64) ([]ReadingAssignment, error)
	// ListProjectAssignments returns every assignment in the project joined with its content,
	// newest content first.
	ListProjectAssignments(ctx context.Context, projectID string) ([]AssignmentWithContent, error)
	ListRoleAssignments(ctx context.Context, projectID, targetRole string) ([]ReadingAssignment, error)
	StampNotified(ctx context.Context, assignmentIDs []int64, at time.Time) error

	// Read records
	MarkRead(ctx context.Context, assignmentID int64, agentID string, acknowledged bool) error
	HasReadRecord(ctx context.Context, assignmentID int64, agentID string) (bool, error)
	ListReadRecords(ctx context.Context, assignmentID int64) ([]ReadRecord, error)

	// Scheduled reminders
	CreateReminder(ctx context.Context, projectID, targetRole, message string, frequencyMinutes int) (int64, error)
	ListReminders(ctx context.Context, projectID string) ([]ScheduledReminder, error)
	ListActiveReminders(ctx context.Context, projectID string) ([]ScheduledReminder, error)
	SetReminderActive(ctx context.Context, reminderID int64, active bool) error
	StampReminderSent(ctx context.Context, reminderID int64, at time.Time) error

	// Lifecycle
	SeedDemo(ctx context.Context) error
	Close() error
}
