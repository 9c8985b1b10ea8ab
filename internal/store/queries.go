package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

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

func (s *sqliteStore) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT p.project_id, p.name, p.status, p.created_at,
  (SELECT COUNT(*) FROM agents a WHERE a.project_id = p.project_id) AS agent_count
FROM projects p ORDER BY p.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Project
	for rows.Next() {
		var p Project
		var createdAt int64
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.Status, &createdAt, &p.AgentCount); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListProjectsByStatus(ctx context.Context, status string) ([]Project, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT project_id, name, status, created_at FROM projects WHERE status = ? ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Project
	for rows.Next() {
		var p Project
		var createdAt int64
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.Status, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) GetProjectByName(ctx context.Context, name string) (Project, error) {
	var p Project
	var createdAt int64
	err := s.stmtGetProjectByName.QueryRowContext(ctx, name).Scan(&p.ProjectID, &p.Name, &p.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, fmt.Errorf("project not found: %s", name)
		}
		return Project{}, err
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

func (s *sqliteStore) CreateProject(ctx context.Context, name string) (Project, error) {
	if name == "" {
		return Project{}, errors.New("project name required")
	}
	id := randomID()
	now := time.Now().UTC().Unix()
	_, err := s.DB.ExecContext(ctx, `INSERT INTO projects(project_id, name, status, created_at) VALUES(?, ?, ?, ?)`,
		id, name, models.ProjectActive, now)
	if err != nil {
		return Project{}, err
	}
	return Project{ProjectID: id, Name: name, Status: models.ProjectActive, CreatedAt: time.Unix(now, 0).UTC()}, nil
}

func (s *sqliteStore) SetProjectStatus(ctx context.Context, name, status string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE projects SET status = ? WHERE name = ?`, status, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("project not found: %s", name)
	}
	return err
}

// ---- Agents ----

func scanAgent(rows *sql.Rows) (Agent, error) {
	var a Agent
	var squad sql.NullString
	var heartbeat, createdAt int64
	if err := rows.Scan(&a.AgentID, &a.ProjectID, &a.RoleType, &squad, &a.Status, &a.SessionRef, &heartbeat, &createdAt); err != nil {
		return Agent{}, err
	}
	if squad.Valid {
		a.SquadID = &squad.String
	}
	a.LastHeartbeat = time.Unix(heartbeat, 0).UTC()
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return a, nil
}

func (s *sqliteStore) ListAgents(ctx context.Context, projectID string) ([]Agent, error) {
	rows, err := s.stmtListAgents.QueryContext(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListAgentsByRole(ctx context.Context, projectID, roleType string) ([]Agent, error) {
	rows, err := s.stmtListAgentsByRole.QueryContext(ctx, projectID, roleType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListAgentsBySquad(ctx context.Context, projectID, squadID string) ([]Agent, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT agent_id, project_id, role_type, squad_id, status, session_ref, last_heartbeat, created_at FROM agents WHERE project_id = ? AND squad_id = ? ORDER BY created_at ASC`, projectID, squadID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) GetAgent(ctx context.Context, projectID, agentID string) (*Agent, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT agent_id, project_id, role_type, squad_id, status, session_ref, last_heartbeat, created_at FROM agents WHERE project_id = ? AND agent_id = ?`, projectID, agentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, rows.Err()
	}
	a, err := scanAgent(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *sqliteStore) CreateAgent(ctx context.Context, projectID, agentID, roleType string, squadID *string, sessionRef string) error {
	if agentID == "" {
		return errors.New("agent id required")
	}
	if roleType == "" {
		return errors.New("role type required")
	}
	now := time.Now().UTC().Unix()
	_, err := s.DB.ExecContext(ctx, `INSERT INTO agents(agent_id, project_id, role_type, squad_id, status, session_ref, last_heartbeat, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		agentID, projectID, roleType, squadID, models.AgentLaunching, sessionRef, now, now)
	return err
}

func (s *sqliteStore) UpdateAgentStatus(ctx context.Context, agentID, status string, heartbeat time.Time) error {
	_, err := s.stmtUpdateAgentState.ExecContext(ctx, status, heartbeat.UTC().Unix(), agentID)
	return err
}

// ---- Content ----

func scanContent(rows *sql.Rows) (Content, error) {
	var c Content
	var channel, author, slug sql.NullString
	var parent sql.NullInt64
	var tStatus, tPriority, tRole, tClaimed sql.NullString
	var pStatus, pInputs, pOutputs, pRole sql.NullString
	var createdAt int64
	if err := rows.Scan(&c.ContentID, &c.ProjectID, &channel, &parent, &c.Type, &author, &c.Body, &slug,
		&tStatus, &tPriority, &tRole, &tClaimed, &pStatus, &pInputs, &pOutputs, &pRole, &createdAt); err != nil {
		return Content{}, err
	}
	if channel.Valid {
		c.ChannelID = &channel.String
	}
	if parent.Valid {
		c.ParentID = &parent.Int64
	}
	if author.Valid {
		c.Author = &author.String
	}
	if slug.Valid {
		c.Slug = &slug.String
	}
	if c.Type == models.ContentTicket {
		t := &TicketInfo{Status: tStatus.String, Priority: tPriority.String, AssignedRole: tRole.String}
		if tClaimed.Valid {
			t.ClaimedBy = &tClaimed.String
		}
		c.Ticket = t
	}
	if c.Type == models.ContentPhase {
		c.Phase = &PhaseInfo{
			Status:          pStatus.String,
			RequiredInputs:  SplitSlugs(pInputs.String),
			ExpectedOutputs: SplitSlugs(pOutputs.String),
			AssignedRole:    pRole.String,
		}
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return c, nil
}

// CreateContent inserts a content row. Replies are flattened to single-level threading: a reply
// whose parent is itself a reply is re-pointed at the parent's root before insert.
func (s *sqliteStore) CreateContent(ctx context.Context, c Content) (int64, error) {
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
		in := JoinSlugs(c.Phase.RequiredInputs)
		out := JoinSlugs(c.Phase.ExpectedOutputs)
		pStatus, pInputs, pOutputs, pRole = &st, &in, &out, &c.Phase.AssignedRole
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO contents(project_id, channel_id, parent_id, type, author, body, slug, ticket_status, ticket_priority, ticket_role, ticket_claimed_by, phase_status, phase_required_inputs, phase_expected_outputs, phase_role, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ProjectID, c.ChannelID, c.ParentID, c.Type, c.Author, c.Body, c.Slug,
		tStatus, tPriority, tRole, tClaimed, pStatus, pInputs, pOutputs, pRole, createdAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *sqliteStore) GetContent(ctx context.Context, contentID int64) (*Content, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+contentCols+` FROM contents WHERE content_id = ?`, contentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, rows.Err()
	}
	c, err := scanContent(rows)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *sqliteStore) ListContentByType(ctx context.Context, projectID, contentType string) ([]Content, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+contentCols+` FROM contents WHERE project_id = ? AND type = ? ORDER BY created_at ASC, content_id ASC`, projectID, contentType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListPhases(ctx context.Context, projectID string) ([]Content, error) {
	rows, err := s.stmtListPhases.QueryContext(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqliteStore) UpdatePhaseStatusCAS(ctx context.Context, contentID int64, from, to string) (bool, error) {
	res, err := s.stmtCASPhase.ExecContext(ctx, to, contentID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *sqliteStore) BlockPhase(ctx context.Context, contentID int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `UPDATE contents SET phase_status = ? WHERE content_id = ? AND type = 'phase' AND phase_status != ?`,
		models.PhaseBlocked, contentID, models.PhaseCompleted)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *sqliteStore) ClaimTicket(ctx context.Context, contentID int64, agentID string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `UPDATE contents SET ticket_status = ?, ticket_claimed_by = ? WHERE content_id = ? AND type = 'ticket' AND ticket_status = ? AND ticket_claimed_by IS NULL`,
		models.TicketClaimed, agentID, contentID, models.TicketOpen)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *sqliteStore) UpdateTicketStatus(ctx context.Context, contentID int64, status string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE contents SET ticket_status = ? WHERE content_id = ? AND type = 'ticket'`, status, contentID)
	return err
}

// ---- Reading assignments ----

func (s *sqliteStore) CreateAssignment(ctx context.Context, contentID int64, targetType, target string) (int64, error) {
	if targetType == "" || target == "" {
		return 0, errors.New("assignment target required")
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO reading_assignments(content_id, target_type, target, assigned_at) VALUES(?, ?, ?, ?)`,
		contentID, targetType, target, time.Now().UTC().Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanAssignment(rows *sql.Rows) (ReadingAssignment, error) {
	var a ReadingAssignment
	var assignedAt int64
	var notified sql.NullInt64
	if err := rows.Scan(&a.AssignmentID, &a.ContentID, &a.TargetType, &a.Target, &assignedAt, &notified); err != nil {
		return ReadingAssignment{}, err
	}
	a.AssignedAt = time.Unix(assignedAt, 0).UTC()
	if notified.Valid {
		t := time.Unix(notified.Int64, 0).UTC()
		a.LastNotifiedAt = &t
	}
	return a, nil
}

func (s *sqliteStore) ListAssignmentsForContent(ctx context.Context, contentID int64) ([]ReadingAssignment, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT assignment_id, content_id, target_type, target, assigned_at, last_notified_at FROM reading_assignments WHERE content_id = ? ORDER BY assignment_id ASC`, contentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ReadingAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListProjectAssignments(ctx context.Context, projectID string) ([]AssignmentWithContent, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT a.assignment_id, a.content_id, a.target_type, a.target, a.assigned_at, a.last_notified_at, `+prefixCols("c", contentCols)+`
FROM reading_assignments a
JOIN contents c ON c.content_id = a.content_id
WHERE c.project_id = ?
ORDER BY c.created_at DESC, c.content_id DESC, a.assignment_id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []AssignmentWithContent
	for rows.Next() {
		item, err := scanAssignmentWithContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanAssignmentWithContent(rows *sql.Rows) (AssignmentWithContent, error) {
	var a ReadingAssignment
	var assignedAt int64
	var notified sql.NullInt64
	var c Content
	var channel, author, slug sql.NullString
	var parent sql.NullInt64
	var tStatus, tPriority, tRole, tClaimed sql.NullString
	var pStatus, pInputs, pOutputs, pRole sql.NullString
	var createdAt int64
	if err := rows.Scan(&a.AssignmentID, &a.ContentID, &a.TargetType, &a.Target, &assignedAt, &notified,
		&c.ContentID, &c.ProjectID, &channel, &parent, &c.Type, &author, &c.Body, &slug,
		&tStatus, &tPriority, &tRole, &tClaimed, &pStatus, &pInputs, &pOutputs, &pRole, &createdAt); err != nil {
		return AssignmentWithContent{}, err
	}
	a.AssignedAt = time.Unix(assignedAt, 0).UTC()
	if notified.Valid {
		t := time.Unix(notified.Int64, 0).UTC()
		a.LastNotifiedAt = &t
	}
	if channel.Valid {
		c.ChannelID = &channel.String
	}
	if parent.Valid {
		c.ParentID = &parent.Int64
	}
	if author.Valid {
		c.Author = &author.String
	}
	if slug.Valid {
		c.Slug = &slug.String
	}
	if c.Type == models.ContentTicket {
		t := &TicketInfo{Status: tStatus.String, Priority: tPriority.String, AssignedRole: tRole.String}
		if tClaimed.Valid {
			t.ClaimedBy = &tClaimed.String
		}
		c.Ticket = t
	}
	if c.Type == models.ContentPhase {
		c.Phase = &PhaseInfo{
			Status:          pStatus.String,
			RequiredInputs:  SplitSlugs(pInputs.String),
			ExpectedOutputs: SplitSlugs(pOutputs.String),
			AssignedRole:    pRole.String,
		}
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return AssignmentWithContent{Assignment: a, Content: c}, nil
}

// prefixCols rewrites "a, b, c" to "t.a, t.b, t.c" for joined selects.
func prefixCols(table, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = table + "." + p
	}
	return strings.Join(parts, ", ")
}

func (s *sqliteStore) ListRoleAssignments(ctx context.Context, projectID, targetRole string) ([]ReadingAssignment, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT a.assignment_id, a.content_id, a.target_type, a.target, a.assigned_at, a.last_notified_at
FROM reading_assignments a
JOIN contents c ON c.content_id = a.content_id
WHERE c.project_id = ? AND a.target_type = 'role' AND a.target = ?
ORDER BY a.assignment_id ASC`, projectID, targetRole)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ReadingAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) StampNotified(ctx context.Context, assignmentIDs []int64, at time.Time) error {
	if len(assignmentIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(assignmentIDs)), ",")
	args := make([]any, 0, len(assignmentIDs)+1)
	args = append(args, at.UTC().Unix())
	for _, id := range assignmentIDs {
		args = append(args, id)
	}
	_, err := s.DB.ExecContext(ctx, `UPDATE reading_assignments SET last_notified_at = ? WHERE assignment_id IN (`+placeholders+`)`, args...)
	return err
}

// ---- Read records ----

func (s *sqliteStore) MarkRead(ctx context.Context, assignmentID int64, agentID string, acknowledged bool) error {
	if agentID == "" {
		return errors.New("agent id required")
	}
	ack := 0
	if acknowledged {
		ack = 1
	}
	_, err := s.stmtMarkRead.ExecContext(ctx, assignmentID, agentID, time.Now().UTC().Unix(), ack)
	return err
}

func (s *sqliteStore) HasReadRecord(ctx context.Context, assignmentID int64, agentID string) (bool, error) {
	var one int
	err := s.stmtHasRead.QueryRowContext(ctx, assignmentID, agentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqliteStore) ListReadRecords(ctx context.Context, assignmentID int64) ([]ReadRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT record_id, assignment_id, agent_id, read_at, acknowledged FROM read_records WHERE assignment_id = ? ORDER BY record_id ASC`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ReadRecord
	for rows.Next() {
		var r ReadRecord
		var readAt int64
		var ack int
		if err := rows.Scan(&r.RecordID, &r.AssignmentID, &r.AgentID, &readAt, &ack); err != nil {
			return nil, err
		}
		r.ReadAt = time.Unix(readAt, 0).UTC()
		r.Acknowledged = ack != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// ---- Scheduled reminders ----

func (s *sqliteStore) CreateReminder(ctx context.Context, projectID, targetRole, message string, frequencyMinutes int) (int64, error) {
	if targetRole == "" || message == "" {
		return 0, errors.New("reminder target role and message required")
	}
	if frequencyMinutes <= 0 {
		return 0, errors.New("reminder frequency must be positive")
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO scheduled_reminders(project_id, target_role, message, frequency_minutes, is_active, created_at) VALUES(?, ?, ?, ?, 1, ?)`,
		projectID, targetRole, message, frequencyMinutes, time.Now().UTC().Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanReminder(rows *sql.Rows) (ScheduledReminder, error) {
	var r ScheduledReminder
	var active int
	var lastSent sql.NullInt64
	var createdAt int64
	if err := rows.Scan(&r.ReminderID, &r.ProjectID, &r.TargetRole, &r.Message, &r.FrequencyMinutes, &active, &lastSent, &createdAt); err != nil {
		return ScheduledReminder{}, err
	}
	r.IsActive = active != 0
	if lastSent.Valid {
		t := time.Unix(lastSent.Int64, 0).UTC()
		r.LastSentAt = &t
	}
	r.CreatedAt = time.Unix(createdAt, 0).UTC()
	return r, nil
}

func (s *sqliteStore) ListReminders(ctx context.Context, projectID string) ([]ScheduledReminder, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT reminder_id, project_id, target_role, message, frequency_minutes, is_active, last_sent_at, created_at FROM scheduled_reminders WHERE project_id = ? ORDER BY reminder_id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ScheduledReminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListActiveReminders(ctx context.Context, projectID string) ([]ScheduledReminder, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT reminder_id, project_id, target_role, message, frequency_minutes, is_active, last_sent_at, created_at FROM scheduled_reminders WHERE project_id = ? AND is_active = 1 ORDER BY reminder_id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ScheduledReminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SetReminderActive(ctx context.Context, reminderID int64, active bool) error {
	v := 0
	if active {
		v = 1
	}
	_, err := s.DB.ExecContext(ctx, `UPDATE scheduled_reminders SET is_active = ? WHERE reminder_id = ?`, v, reminderID)
	return err
}

func (s *sqliteStore) StampReminderSent(ctx context.Context, reminderID int64, at time.Time) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE scheduled_reminders SET last_sent_at = ? WHERE reminder_id = ?`, at.UTC().Unix(), reminderID)
	return err
}

// ---- Demo seed ----

func (s *sqliteStore) SeedDemo(ctx context.Context) error {
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
	specSlug := "spec"
	specID, err := s.CreateContent(ctx, Content{
		ProjectID: p.ProjectID,
		Type:      models.ContentPhase,
		Body:      "Write the system specification",
		Slug:      &specSlug,
		Phase:     &PhaseInfo{Status: models.PhaseApproved, ExpectedOutputs: []string{"spec"}, AssignedRole: "System Architect"},
	})
	if err != nil {
		return err
	}
	_, _ = s.CreateAssignment(ctx, specID, models.TargetRole, "System Architect")
	buildID, err := s.CreateContent(ctx, Content{
		ProjectID: p.ProjectID,
		Type:      models.ContentPhase,
		Body:      "Implement the backend against the specification",
		Phase:     &PhaseInfo{Status: models.PhaseApproved, RequiredInputs: []string{"spec"}, AssignedRole: "Backend Developer"},
	})
	if err != nil {
		return err
	}
	_, _ = s.CreateAssignment(ctx, buildID, models.TargetRole, "Backend Developer")
	return nil
}
