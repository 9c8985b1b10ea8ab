package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

const contentCols = `content_id, project_id, channel_id, parent_id, type, author, body, slug, ticket_status, ticket_priority, ticket_role, ticket_claimed_by, phase_status, phase_required_inputs, phase_expected_outputs, phase_role, created_at`

func randomID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("p-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// ---- Projects ----

func (s *Store) ListProjects(ctx context.Context) ([]store.Project, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT p.project_id, p.name, p.status, p.created_at,
  (SELECT COUNT(*) FROM agents a WHERE a.project_id = p.project_id) AS agent_count
FROM projects p ORDER BY p.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Project
	for rows.Next() {
		var p store.Project
		var createdAt int64
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.Status, &createdAt, &p.AgentCount); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListProjectsByStatus(ctx context.Context, status string) ([]store.Project, error) {
	rows, err := s.Pool.Query(ctx, `SELECT project_id, name, status, created_at FROM projects WHERE status = $1 ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Project
	for rows.Next() {
		var p store.Project
		var createdAt int64
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.Status, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProjectByName(ctx context.Context, name string) (store.Project, error) {
	var p store.Project
	var createdAt int64
	err := s.Pool.QueryRow(ctx, `SELECT project_id, name, status, created_at FROM projects WHERE name = $1`, name).
		Scan(&p.ProjectID, &p.Name, &p.Status, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Project{}, fmt.Errorf("project not found: %s", name)
		}
		return store.Project{}, err
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

func (s *Store) CreateProject(ctx context.Context, name string) (store.Project, error) {
	if name == "" {
		return store.Project{}, errors.New("project name required")
	}
	id := randomID()
	now := time.Now().UTC().Unix()
	_, err := s.Pool.Exec(ctx, `INSERT INTO projects(project_id, name, status, created_at) VALUES($1, $2, $3, $4)`,
		id, name, models.ProjectActive, now)
	if err != nil {
		return store.Project{}, err
	}
	return store.Project{ProjectID: id, Name: name, Status: models.ProjectActive, CreatedAt: time.Unix(now, 0).UTC()}, nil
}

func (s *Store) SetProjectStatus(ctx context.Context, name, status string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE projects SET status = $1 WHERE name = $2`, status, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project not found: %s", name)
	}
	return nil
}

// ---- Agents ----

func scanAgents(rows pgx.Rows) ([]store.Agent, error) {
	defer rows.Close()
	var out []store.Agent
	for rows.Next() {
		var a store.Agent
		var squad *string
		var heartbeat, createdAt int64
		if err := rows.Scan(&a.AgentID, &a.ProjectID, &a.RoleType, &squad, &a.Status, &a.SessionRef, &heartbeat, &createdAt); err != nil {
			return nil, err
		}
		a.SquadID = squad
		a.LastHeartbeat = time.Unix(heartbeat, 0).UTC()
		a.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

const agentCols = `agent_id, project_id, role_type, squad_id, status, session_ref, last_heartbeat, created_at`

func (s *Store) ListAgents(ctx context.Context, projectID string) ([]store.Agent, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+agentCols+` FROM agents WHERE project_id = $1 ORDER BY created_at ASC`, projectID)
	if err != nil {
		return nil, err
	}
	return scanAgents(rows)
}

func (s *Store) ListAgentsByRole(ctx context.Context, projectID, roleType string) ([]store.Agent, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+agentCols+` FROM agents WHERE project_id = $1 AND role_type = $2 ORDER BY created_at ASC`, projectID, roleType)
	if err != nil {
		return nil, err
	}
	return scanAgents(rows)
}

func (s *Store) ListAgentsBySquad(ctx context.Context, projectID, squadID string) ([]store.Agent, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+agentCols+` FROM agents WHERE project_id = $1 AND squad_id = $2 ORDER BY created_at ASC`, projectID, squadID)
	if err != nil {
		return nil, err
	}
	return scanAgents(rows)
}

func (s *Store) GetAgent(ctx context.Context, projectID, agentID string) (*store.Agent, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+agentCols+` FROM agents WHERE project_id = $1 AND agent_id = $2`, projectID, agentID)
	if err != nil {
		return nil, err
	}
	agents, err := scanAgents(rows)
	if err != nil || len(agents) == 0 {
		return nil, err
	}
	return &agents[0], nil
}

func (s *Store) CreateAgent(ctx context.Context, projectID, agentID, roleType string, squadID *string, sessionRef string) error {
	if agentID == "" {
		return errors.New("agent id required")
	}
	if roleType == "" {
		return errors.New("role type required")
	}
	now := time.Now().UTC().Unix()
	_, err := s.Pool.Exec(ctx, `INSERT INTO agents(agent_id, project_id, role_type, squad_id, status, session_ref, last_heartbeat, created_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		agentID, projectID, roleType, squadID, models.AgentLaunching, sessionRef, now, now)
	return err
}

func (s *Store) UpdateAgentStatus(ctx context.Context, agentID, status string, heartbeat time.Time) error {
	_, err := s.Pool.Exec(ctx, `UPDATE agents SET status = $1, last_heartbeat = $2 WHERE agent_id = $3`, status, heartbeat.UTC().Unix(), agentID)
	return err
}

// ---- Content ----

func scanContents(rows pgx.Rows) ([]store.Content, error) {
	defer rows.Close()
	var out []store.Content
	for rows.Next() {
		c, err := scanContentRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanContentRow(rows pgx.Rows) (store.Content, error) {
	var c store.Content
	var channel, author, slug *string
	var parent *int64
	var tStatus, tPriority, tRole, tClaimed *string
	var pStatus, pInputs, pOutputs, pRole *string
	var createdAt int64
	if err := rows.Scan(&c.ContentID, &c.ProjectID, &channel, &parent, &c.Type, &author, &c.Body, &slug,
		&tStatus, &tPriority, &tRole, &tClaimed, &pStatus, &pInputs, &pOutputs, &pRole, &createdAt); err != nil {
		return store.Content{}, err
	}
	c.ChannelID, c.ParentID, c.Author, c.Slug = channel, parent, author, slug
	if c.Type == models.ContentTicket {
		t := &store.TicketInfo{ClaimedBy: tClaimed}
		if tStatus != nil {
			t.Status = *tStatus
		}
		if tPriority != nil {
			t.Priority = *tPriority
		}
		if tRole != nil {
			t.AssignedRole = *tRole
		}
		c.Ticket = t
	}
	if c.Type == models.ContentPhase {
		p := &store.PhaseInfo{}
		if pStatus != nil {
			p.Status = *pStatus
		}
		if pInputs != nil {
			p.RequiredInputs = store.SplitSlugs(*pInputs)
		}
		if pOutputs != nil {
			p.ExpectedOutputs = store.SplitSlugs(*pOutputs)
		}
		if pRole != nil {
			p.AssignedRole = *pRole
		}
		c.Phase = p
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return c, nil
}

func (s *Store) CreateContent(ctx context.Context, c store.Content) (int64, error) {
	if c.ProjectID == "" {
		return 0, errors.New("project id required")
	}
	if c.Type == "" {
		return 0, errors.New("content type required")
	}
	if c.Type == models.ContentReply && c.ParentID != nil {
		parent, err := s.GetContent(ctx, *c.ParentID)
		if err != nil {
			return 0, err
		}
		if parent == nil {
			return 0, fmt.Errorf("reply parent not found: %d", *c.ParentID)
		}
		if parent.Type == models.ContentReply && parent.ParentID != nil {
			c.ParentID = parent.ParentID
		}
	}

	var tStatus, tPriority, tRole, tClaimed *string
	if c.Ticket != nil {
		st := c.Ticket.Status
		if st == "" {
			st = models.TicketOpen
		}
		tStatus, tPriority, tRole = &st, &c.Ticket.Priority, &c.Ticket.AssignedRole
		tClaimed = c.Ticket.ClaimedBy
	}
	var pStatus, pInputs, pOutputs, pRole *string
	if c.Phase != nil {
		st := c.Phase.Status
		if st == "" {
			st = models.PhaseDraft
		}
		in := store.JoinSlugs(c.Phase.RequiredInputs)
		out := store.JoinSlugs(c.Phase.ExpectedOutputs)
		pStatus, pInputs, pOutputs, pRole = &st, &in, &out, &c.Phase.AssignedRole
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var id int64
	err := s.Pool.QueryRow(ctx, `INSERT INTO contents(project_id, channel_id, parent_id, type, author, body, slug, ticket_status, ticket_priority, ticket_role, ticket_claimed_by, phase_status, phase_required_inputs, phase_expected_outputs, phase_role, created_at)
VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING content_id`,
		c.ProjectID, c.ChannelID, c.ParentID, c.Type, c.Author, c.Body, c.Slug,
		tStatus, tPriority, tRole, tClaimed, pStatus, pInputs, pOutputs, pRole, createdAt.Unix()).Scan(&id)
	return id, err
}

func (s *Store) GetContent(ctx context.Context, contentID int64) (*store.Content, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+contentCols+` FROM contents WHERE content_id = $1`, contentID)
	if err != nil {
		return nil, err
	}
	contents, err := scanContents(rows)
	if err != nil || len(contents) == 0 {
		return nil, err
	}
	return &contents[0], nil
}

func (s *Store) ListContentByType(ctx context.Context, projectID, contentType string) ([]store.Content, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+contentCols+` FROM contents WHERE project_id = $1 AND type = $2 ORDER BY created_at ASC, content_id ASC`, projectID, contentType)
	if err != nil {
		return nil, err
	}
	return scanContents(rows)
}

func (s *Store) ListPhases(ctx context.Context, projectID string) ([]store.Content, error) {
	return s.ListContentByType(ctx, projectID, models.ContentPhase)
}

func (s *Store) UpdatePhaseStatusCAS(ctx context.Context, contentID int64, from, to string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `UPDATE contents SET phase_status = $1 WHERE content_id = $2 AND type = 'phase' AND phase_status = $3`, to, contentID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) BlockPhase(ctx context.Context, contentID int64) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `UPDATE contents SET phase_status = $1 WHERE content_id = $2 AND type = 'phase' AND phase_status != $3`,
		models.PhaseBlocked, contentID, models.PhaseCompleted)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ClaimTicket(ctx context.Context, contentID int64, agentID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `UPDATE contents SET ticket_status = $1, ticket_claimed_by = $2 WHERE content_id = $3 AND type = 'ticket' AND ticket_status = $4 AND ticket_claimed_by IS NULL`,
		models.TicketClaimed, agentID, contentID, models.TicketOpen)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UpdateTicketStatus(ctx context.Context, contentID int64, status string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE contents SET ticket_status = $1 WHERE content_id = $2 AND type = 'ticket'`, status, contentID)
	return err
}

// ---- Reading assignments ----

func (s *Store) CreateAssignment(ctx context.Context, contentID int64, targetType, target string) (int64, error) {
	if targetType == "" || target == "" {
		return 0, errors.New("assignment target required")
	}
	var id int64
	err := s.Pool.QueryRow(ctx, `INSERT INTO reading_assignments(content_id, target_type, target, assigned_at) VALUES($1, $2, $3, $4) RETURNING assignment_id`,
		contentID, targetType, target, time.Now().UTC().Unix()).Scan(&id)
	return id, err
}

func scanAssignments(rows pgx.Rows) ([]store.ReadingAssignment, error) {
	defer rows.Close()
	var out []store.ReadingAssignment
	for rows.Next() {
		var a store.ReadingAssignment
		var assignedAt int64
		var notified *int64
		if err := rows.Scan(&a.AssignmentID, &a.ContentID, &a.TargetType, &a.Target, &assignedAt, &notified); err != nil {
			return nil, err
		}
		a.AssignedAt = time.Unix(assignedAt, 0).UTC()
		if notified != nil {
			t := time.Unix(*notified, 0).UTC()
			a.LastNotifiedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) ListAssignmentsForContent(ctx context.Context, contentID int64) ([]store.ReadingAssignment, error) {
	rows, err := s.Pool.Query(ctx, `SELECT assignment_id, content_id, target_type, target, assigned_at, last_notified_at FROM reading_assignments WHERE content_id = $1 ORDER BY assignment_id ASC`, contentID)
	if err != nil {
		return nil, err
	}
	return scanAssignments(rows)
}

func (s *Store) ListProjectAssignments(ctx context.Context, projectID string) ([]store.AssignmentWithContent, error) {
	cols := strings.Split(contentCols, ", ")
	for i, col := range cols {
		cols[i] = "c." + col
	}
	rows, err := s.Pool.Query(ctx, `
SELECT a.assignment_id, a.content_id, a.target_type, a.target, a.assigned_at, a.last_notified_at, `+strings.Join(cols, ", ")+`
FROM reading_assignments a
JOIN contents c ON c.content_id = a.content_id
WHERE c.project_id = $1
ORDER BY c.created_at DESC, c.content_id DESC, a.assignment_id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.AssignmentWithContent
	for rows.Next() {
		var a store.ReadingAssignment
		var assignedAt int64
		var notified *int64
		var c store.Content
		var channel, author, slug *string
		var parent *int64
		var tStatus, tPriority, tRole, tClaimed *string
		var pStatus, pInputs, pOutputs, pRole *string
		var createdAt int64
		if err := rows.Scan(&a.AssignmentID, &a.ContentID, &a.TargetType, &a.Target, &assignedAt, &notified,
			&c.ContentID, &c.ProjectID, &channel, &parent, &c.Type, &author, &c.Body, &slug,
			&tStatus, &tPriority, &tRole, &tClaimed, &pStatus, &pInputs, &pOutputs, &pRole, &createdAt); err != nil {
			return nil, err
		}
		a.AssignedAt = time.Unix(assignedAt, 0).UTC()
		if notified != nil {
			t := time.Unix(*notified, 0).UTC()
			a.LastNotifiedAt = &t
		}
		c.ChannelID, c.ParentID, c.Author, c.Slug = channel, parent, author, slug
		if c.Type == models.ContentTicket {
			t := &store.TicketInfo{ClaimedBy: tClaimed}
			if tStatus != nil {
				t.Status = *tStatus
			}
			if tPriority != nil {
				t.Priority = *tPriority
			}
			if tRole != nil {
				t.AssignedRole = *tRole
			}
			c.Ticket = t
		}
		if c.Type == models.ContentPhase {
			p := &store.PhaseInfo{}
			if pStatus != nil {
				p.Status = *pStatus
			}
			if pInputs != nil {
				p.RequiredInputs = store.SplitSlugs(*pInputs)
			}
			if pOutputs != nil {
				p.ExpectedOutputs = store.SplitSlugs(*pOutputs)
			}
			if pRole != nil {
				p.AssignedRole = *pRole
			}
			c.Phase = p
		}
		c.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, store.AssignmentWithContent{Assignment: a, Content: c})
	}
	return out, rows.Err()
}

func (s *Store) ListRoleAssignments(ctx context.Context, projectID, targetRole string) ([]store.ReadingAssignment, error) {
	rows, err := s.Pool.Query(ctx, `
SELECT a.assignment_id, a.content_id, a.target_type, a.target, a.assigned_at, a.last_notified_at
FROM reading_assignments a
JOIN contents c ON c.content_id = a.content_id
WHERE c.project_id = $1 AND a.target_type = 'role' AND a.target = $2
ORDER BY a.assignment_id ASC`, projectID, targetRole)
	if err != nil {
		return nil, err
	}
	return scanAssignments(rows)
}

func (s *Store) StampNotified(ctx context.Context, assignmentIDs []int64, at time.Time) error {
	if len(assignmentIDs) == 0 {
		return nil
	}
	_, err := s.Pool.Exec(ctx, `UPDATE reading_assignments SET last_notified_at = $1 WHERE assignment_id = ANY($2)`, at.UTC().Unix(), assignmentIDs)
	return err
}

// ---- Read records ----

func (s *Store) MarkRead(ctx context.Context, assignmentID int64, agentID string, acknowledged bool) error {
	if agentID == "" {
		return errors.New("agent id required")
	}
	_, err := s.Pool.Exec(ctx, `INSERT INTO read_records(assignment_id, agent_id, read_at, acknowledged) VALUES($1, $2, $3, $4)
ON CONFLICT (assignment_id, agent_id) DO UPDATE SET acknowledged = read_records.acknowledged OR EXCLUDED.acknowledged`,
		assignmentID, agentID, time.Now().UTC().Unix(), acknowledged)
	return err
}

func (s *Store) HasReadRecord(ctx context.Context, assignmentID int64, agentID string) (bool, error) {
	var one int
	err := s.Pool.QueryRow(ctx, `SELECT 1 FROM read_records WHERE assignment_id = $1 AND agent_id = $2`, assignmentID, agentID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListReadRecords(ctx context.Context, assignmentID int64) ([]store.ReadRecord, error) {
	rows, err := s.Pool.Query(ctx, `SELECT record_id, assignment_id, agent_id, read_at, acknowledged FROM read_records WHERE assignment_id = $1 ORDER BY record_id ASC`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ReadRecord
	for rows.Next() {
		var r store.ReadRecord
		var readAt int64
		if err := rows.Scan(&r.RecordID, &r.AssignmentID, &r.AgentID, &readAt, &r.Acknowledged); err != nil {
			return nil, err
		}
		r.ReadAt = time.Unix(readAt, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// ---- Scheduled reminders ----

func (s *Store) CreateReminder(ctx context.Context, projectID, targetRole, message string, frequencyMinutes int) (int64, error) {
	if targetRole == "" || message == "" {
		return 0, errors.New("reminder target role and message required")
	}
	if frequencyMinutes <= 0 {
		return 0, errors.New("reminder frequency must be positive")
	}
	var id int64
	err := s.Pool.QueryRow(ctx, `INSERT INTO scheduled_reminders(project_id, target_role, message, frequency_minutes, is_active, created_at) VALUES($1, $2, $3, $4, TRUE, $5) RETURNING reminder_id`,
		projectID, targetRole, message, frequencyMinutes, time.Now().UTC().Unix()).Scan(&id)
	return id, err
}

func scanReminders(rows pgx.Rows) ([]store.ScheduledReminder, error) {
	defer rows.Close()
	var out []store.ScheduledReminder
	for rows.Next() {
		var r store.ScheduledReminder
		var lastSent *int64
		var createdAt int64
		if err := rows.Scan(&r.ReminderID, &r.ProjectID, &r.TargetRole, &r.Message, &r.FrequencyMinutes, &r.IsActive, &lastSent, &createdAt); err != nil {
			return nil, err
		}
		if lastSent != nil {
			t := time.Unix(*lastSent, 0).UTC()
			r.LastSentAt = &t
		}
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListReminders(ctx context.Context, projectID string) ([]store.ScheduledReminder, error) {
	rows, err := s.Pool.Query(ctx, `SELECT reminder_id, project_id, target_role, message, frequency_minutes, is_active, last_sent_at, created_at FROM scheduled_reminders WHERE project_id = $1 ORDER BY reminder_id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

func (s *Store) ListActiveReminders(ctx context.Context, projectID string) ([]store.ScheduledReminder, error) {
	rows, err := s.Pool.Query(ctx, `SELECT reminder_id, project_id, target_role, message, frequency_minutes, is_active, last_sent_at, created_at FROM scheduled_reminders WHERE project_id = $1 AND is_active ORDER BY reminder_id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

func (s *Store) SetReminderActive(ctx context.Context, reminderID int64, active bool) error {
	_, err := s.Pool.Exec(ctx, `UPDATE scheduled_reminders SET is_active = $1 WHERE reminder_id = $2`, active, reminderID)
	return err
}

func (s *Store) StampReminderSent(ctx context.Context, reminderID int64, at time.Time) error {
	_, err := s.Pool.Exec(ctx, `UPDATE scheduled_reminders SET last_sent_at = $1 WHERE reminder_id = $2`, at.UTC().Unix(), reminderID)
	return err
}

// ---- Demo seed ----

func (s *Store) SeedDemo(ctx context.Context) error {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) > 0 {
		return nil
	}
	p, err := s.CreateProject(ctx, "demo")
	if err != nil {
		return err
	}
	squad := "core"
	_ = s.CreateAgent(ctx, p.ProjectID, "architect-1", "System Architect", &squad, "crewdeck-architect-1")
	_ = s.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", &squad, "crewdeck-be-1")
	_ = s.CreateAgent(ctx, p.ProjectID, "fe-1", "Frontend Developer", &squad, "crewdeck-fe-1")
	return nil
}
