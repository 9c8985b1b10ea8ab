package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ankittk/crewdeck/internal/address"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

// handleProjects serves the project collection: list and create.
func (app *App) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projects, err := app.Store.ListProjects(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]models.Project, 0, len(projects))
		for _, p := range projects {
			out = append(out, toAPIProject(p))
		}
		writeJSON(w, out)
	case http.MethodPost:
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.Name == "" {
			writeJSONError(w, http.StatusBadRequest, "name required")
			return
		}
		p, err := app.Store.CreateProject(r.Context(), body.Name)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		app.Hub.PublishJSON(map[string]any{"type": "project_update", "project": p.Name})
		writeJSON(w, toAPIProject(p))
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleProjectScoped routes /projects/{name}/... to the per-resource handlers.
func (app *App) handleProjectScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/projects/")
	parts := strings.Split(rest, "/")
	if len(parts) < 1 || parts[0] == "" {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	name := parts[0]
	p, err := app.Store.GetProjectByName(r.Context(), name)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "project not found")
		return
	}

	// /projects/{name}
	if len(parts) == 1 || parts[1] == "" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, toAPIProject(p))
		case http.MethodPatch:
			var body struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid json")
				return
			}
			allowed := map[string]bool{
				models.ProjectActive: true, models.ProjectPaused: true,
				models.ProjectCompleted: true, models.ProjectArchived: true,
			}
			if !allowed[body.Status] {
				writeJSONError(w, http.StatusBadRequest, "status must be active, paused, completed, or archived")
				return
			}
			if err := app.Store.SetProjectStatus(r.Context(), name, body.Status); err != nil {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
			app.Hub.PublishJSON(map[string]any{"type": "project_update", "project": name, "status": body.Status})
			writeJSON(w, map[string]any{"ok": true})
		default:
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	switch parts[1] {
	case "agents":
		app.handleAgents(w, r, p)
	case "content":
		app.handleContent(w, r, p, parts[2:])
	case "phases":
		app.handlePhases(w, r, p, parts[2:])
	case "tickets":
		app.handleTickets(w, r, p, parts[2:])
	case "reminders":
		app.handleReminders(w, r, p, parts[2:])
	case "unread":
		app.handleUnread(w, r, p)
	case "evaluate":
		app.handleEvaluate(w, r, p)
	default:
		writeJSONError(w, http.StatusNotFound, "not found")
	}
}

func (app *App) handleAgents(w http.ResponseWriter, r *http.Request, p store.Project) {
	switch r.Method {
	case http.MethodGet:
		agents, err := app.Store.ListAgents(r.Context(), p.ProjectID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]models.Agent, 0, len(agents))
		for _, a := range agents {
			out = append(out, toAPIAgent(a))
		}
		writeJSON(w, out)
	case http.MethodPost:
		var body struct {
			AgentID    string  `json:"agent_id"`
			RoleType   string  `json:"role_type"`
			SquadID    *string `json:"squad_id"`
			SessionRef string  `json:"session_ref"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.AgentID == "" || body.RoleType == "" {
			writeJSONError(w, http.StatusBadRequest, "agent_id and role_type required")
			return
		}
		if address.IsDirector(body.AgentID) {
			writeJSONError(w, http.StatusBadRequest, "reserved agent id")
			return
		}
		if err := app.Store.CreateAgent(r.Context(), p.ProjectID, body.AgentID, body.RoleType, body.SquadID, body.SessionRef); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		app.Hub.PublishJSON(map[string]any{"type": "agent_update", "project": p.Name, "agent": body.AgentID})
		writeJSON(w, map[string]any{"ok": true})
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// audienceTarget is one addressed group in a content creation request.
type audienceTarget struct {
	Type   string `json:"type"` // agent, role, squad
	Target string `json:"target"`
}

func (app *App) handleContent(w http.ResponseWriter, r *http.Request, p store.Project, rest []string) {
	// /projects/{name}/content/{id}[/mark-read|read-status]
	if len(rest) >= 1 && rest[0] != "" {
		contentID, err := parseID(rest[0])
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid content id")
			return
		}
		c, err := app.Store.GetContent(r.Context(), contentID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if c == nil || c.ProjectID != p.ProjectID {
			writeJSONError(w, http.StatusNotFound, "content not found")
			return
		}
		if len(rest) >= 2 && rest[1] == "mark-read" {
			app.handleMarkRead(w, r, p, *c)
			return
		}
		if len(rest) >= 2 && rest[1] == "read-status" {
			app.handleReadStatus(w, r, p, *c)
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, toAPIContent(*c))
		return
	}

	switch r.Method {
	case http.MethodGet:
		ctype := r.URL.Query().Get("type")
		if ctype == "" {
			ctype = models.ContentMessage
		}
		items, err := app.Store.ListContentByType(r.Context(), p.ProjectID, ctype)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]models.Content, 0, len(items))
		for _, c := range items {
			out = append(out, toAPIContent(c))
		}
		writeJSON(w, out)
	case http.MethodPost:
		app.handleCreateContent(w, r, p)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateContent creates a content item and its audience assignments in one request.
// A reply additionally gets an agent-scoped assignment for the root author, so thread
// participants owe a read even when they are outside the declared audience.
func (app *App) handleCreateContent(w http.ResponseWriter, r *http.Request, p store.Project) {
	var body struct {
		Type      string             `json:"type"`
		ChannelID *string            `json:"channel_id"`
		ParentID  *int64             `json:"parent_id"`
		Author    *string            `json:"author"`
		Body      string             `json:"body"`
		Slug      *string            `json:"slug"`
		Ticket    *models.TicketInfo `json:"ticket"`
		Phase     *models.PhaseInfo  `json:"phase"`
		Audience  []audienceTarget   `json:"audience"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	switch body.Type {
	case models.ContentMessage, models.ContentDocument, models.ContentReply,
		models.ContentTicket, models.ContentPhase:
	default:
		writeJSONError(w, http.StatusBadRequest, "type must be message, document, reply, ticket, or phase")
		return
	}
	if body.Type == models.ContentReply && body.ParentID == nil {
		writeJSONError(w, http.StatusBadRequest, "reply requires parent_id")
		return
	}

	c := store.Content{
		ProjectID: p.ProjectID,
		ChannelID: body.ChannelID,
		ParentID:  body.ParentID,
		Type:      body.Type,
		Author:    body.Author,
		Body:      body.Body,
		Slug:      body.Slug,
	}
	if body.Ticket != nil {
		status := body.Ticket.Status
		if status == "" {
			status = models.TicketOpen
		}
		c.Ticket = &store.TicketInfo{
			Status:       status,
			Priority:     body.Ticket.Priority,
			AssignedRole: body.Ticket.AssignedRole,
		}
	}
	if body.Phase != nil {
		status := body.Phase.Status
		if status == "" {
			status = models.PhaseDraft
		}
		c.Phase = &store.PhaseInfo{
			Status:          status,
			RequiredInputs:  body.Phase.RequiredInputs,
			ExpectedOutputs: body.Phase.ExpectedOutputs,
			AssignedRole:    body.Phase.AssignedRole,
		}
	}

	id, err := app.Store.CreateContent(r.Context(), c)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var assignmentIDs []int64
	for _, t := range body.Audience {
		switch t.Type {
		case models.TargetAgent, models.TargetRole, models.TargetSquad:
		default:
			writeJSONError(w, http.StatusBadRequest, "audience type must be agent, role, or squad")
			return
		}
		aid, err := app.Store.CreateAssignment(r.Context(), id, t.Type, t.Target)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		assignmentIDs = append(assignmentIDs, aid)
	}

	if body.Type == models.ContentReply {
		if aid, ok := app.assignThreadAuthor(r, p, id, body.Author); ok {
			assignmentIDs = append(assignmentIDs, aid)
		}
	}

	app.Hub.PublishJSON(map[string]any{"type": "content_created", "project": p.Name, "content_id": id, "content_type": body.Type})
	writeJSON(w, map[string]any{"content_id": id, "assignment_ids": assignmentIDs})
}

// assignThreadAuthor creates an agent assignment for the root author of the thread a reply
// landed in, unless the replier is that author. Returns the assignment id when one was made.
func (app *App) assignThreadAuthor(r *http.Request, p store.Project, replyID int64, replier *string) (int64, bool) {
	reply, err := app.Store.GetContent(r.Context(), replyID)
	if err != nil || reply == nil || reply.ParentID == nil {
		return 0, false
	}
	root, err := app.Store.GetContent(r.Context(), *reply.ParentID)
	if err != nil || root == nil || root.Author == nil || *root.Author == "" {
		return 0, false
	}
	if replier != nil && *replier == *root.Author {
		return 0, false
	}
	aid, err := app.Store.CreateAssignment(r.Context(), replyID, models.TargetAgent, *root.Author)
	if err != nil {
		return 0, false
	}
	return aid, true
}

func (app *App) handleMarkRead(w http.ResponseWriter, r *http.Request, p store.Project, c store.Content) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		AgentID      string `json:"agent_id"`
		Acknowledged bool   `json:"acknowledged"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.AgentID == "" {
		writeJSONError(w, http.StatusBadRequest, "agent_id required")
		return
	}
	if err := app.Ledger.MarkContentRead(r.Context(), p.ProjectID, c.ContentID, body.AgentID, body.Acknowledged); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// handleReadStatus reports, per assignment on the content, whether every currently resolved
// target has read it and who has read so far.
func (app *App) handleReadStatus(w http.ResponseWriter, r *http.Request, p store.Project, c store.Content) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	assignments, err := app.Store.ListAssignmentsForContent(r.Context(), c.ContentID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type status struct {
		Assignment models.ReadingAssignment `json:"assignment"`
		Targets    []string                 `json:"targets"`
		Readers    []string                 `json:"readers"`
		FullyRead  bool                     `json:"fully_read"`
	}
	out := make([]status, 0, len(assignments))
	for _, a := range assignments {
		targets, err := app.Resolver.ResolveTargets(r.Context(), p.ProjectID, a)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		records, err := app.Store.ListReadRecords(r.Context(), a.AssignmentID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		readers := make([]string, 0, len(records))
		for _, rec := range records {
			readers = append(readers, rec.AgentID)
		}
		full, err := app.Ledger.FullyRead(r.Context(), p.ProjectID, a)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, status{
			Assignment: toAPIAssignment(a),
			Targets:    targets,
			Readers:    readers,
			FullyRead:  full,
		})
	}
	writeJSON(w, out)
}

func (app *App) handleUnread(w http.ResponseWriter, r *http.Request, p store.Project) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	agentID := r.URL.Query().Get("agent")
	if agentID == "" {
		writeJSONError(w, http.StatusBadRequest, "agent query required")
		return
	}
	items, err := app.Ledger.UnreadAssignments(r.Context(), p.ProjectID, agentID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type unread struct {
		Assignment models.ReadingAssignment `json:"assignment"`
		Content    models.Content           `json:"content"`
	}
	out := make([]unread, 0, len(items))
	for _, it := range items {
		out = append(out, unread{Assignment: toAPIAssignment(it.Assignment), Content: toAPIContent(it.Content)})
	}
	writeJSON(w, out)
}

func (app *App) handlePhases(w http.ResponseWriter, r *http.Request, p store.Project, rest []string) {
	if len(rest) == 0 || rest[0] == "" {
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		phases, err := app.Store.ListPhases(r.Context(), p.ProjectID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]models.Content, 0, len(phases))
		for _, ph := range phases {
			out = append(out, toAPIContent(ph))
		}
		writeJSON(w, out)
		return
	}

	phaseID, err := parseID(rest[0])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid phase id")
		return
	}
	if len(rest) < 2 || r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var ok bool
	switch rest[1] {
	case "approve":
		ok, err = app.Engine.Approve(r.Context(), phaseID)
	case "complete":
		ok, err = app.Engine.Complete(r.Context(), phaseID)
		if err == nil && ok {
			// Completing a phase can unblock dependents immediately.
			_, err = app.Engine.Evaluate(r.Context(), p.ProjectID)
		}
	case "block":
		ok, err = app.Engine.Block(r.Context(), phaseID)
	default:
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeJSONError(w, http.StatusConflict, "phase not in expected state")
		return
	}
	app.Hub.PublishJSON(map[string]any{"type": "phase_update", "project": p.Name, "phase_id": phaseID, "action": rest[1]})
	writeJSON(w, map[string]any{"ok": true})
}

func (app *App) handleTickets(w http.ResponseWriter, r *http.Request, p store.Project, rest []string) {
	if len(rest) == 0 || rest[0] == "" {
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		tickets, err := app.Store.ListContentByType(r.Context(), p.ProjectID, models.ContentTicket)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]models.Content, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, toAPIContent(t))
		}
		writeJSON(w, out)
		return
	}

	ticketID, err := parseID(rest[0])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	if len(rest) >= 2 && rest[1] == "claim" {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var body struct {
			AgentID string `json:"agent_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.AgentID == "" {
			writeJSONError(w, http.StatusBadRequest, "agent_id required")
			return
		}
		ok, err := app.Store.ClaimTicket(r.Context(), ticketID, body.AgentID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeJSONError(w, http.StatusConflict, "ticket already claimed")
			return
		}
		app.Hub.PublishJSON(map[string]any{"type": "ticket_update", "project": p.Name, "ticket_id": ticketID, "claimed_by": body.AgentID})
		writeJSON(w, map[string]any{"ok": true})
		return
	}
	if r.Method == http.MethodPatch {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		allowed := map[string]bool{
			models.TicketOpen: true, models.TicketClaimed: true, models.TicketInProgress: true,
			models.TicketResolved: true, models.TicketClosed: true,
		}
		if !allowed[body.Status] {
			writeJSONError(w, http.StatusBadRequest, "invalid ticket status")
			return
		}
		if err := app.Store.UpdateTicketStatus(r.Context(), ticketID, body.Status); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		app.Hub.PublishJSON(map[string]any{"type": "ticket_update", "project": p.Name, "ticket_id": ticketID, "status": body.Status})
		writeJSON(w, map[string]any{"ok": true})
		return
	}
	writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (app *App) handleReminders(w http.ResponseWriter, r *http.Request, p store.Project, rest []string) {
	if len(rest) >= 1 && rest[0] != "" {
		reminderID, err := parseID(rest[0])
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid reminder id")
			return
		}
		if r.Method != http.MethodPatch {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var body struct {
			Active *bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.Active == nil {
			writeJSONError(w, http.StatusBadRequest, "active required")
			return
		}
		if err := app.Store.SetReminderActive(r.Context(), reminderID, *body.Active); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, map[string]any{"ok": true})
		return
	}

	switch r.Method {
	case http.MethodGet:
		reminders, err := app.Store.ListReminders(r.Context(), p.ProjectID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]models.ScheduledReminder, 0, len(reminders))
		for _, rem := range reminders {
			out = append(out, toAPIReminder(rem))
		}
		writeJSON(w, out)
	case http.MethodPost:
		var body struct {
			TargetRole       string `json:"target_role"`
			Message          string `json:"message"`
			FrequencyMinutes int    `json:"frequency_minutes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.TargetRole == "" || body.Message == "" || body.FrequencyMinutes <= 0 {
			writeJSONError(w, http.StatusBadRequest, "target_role, message, and positive frequency_minutes required")
			return
		}
		id, err := app.Store.CreateReminder(r.Context(), p.ProjectID, body.TargetRole, body.Message, body.FrequencyMinutes)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, map[string]any{"reminder_id": id})
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleEvaluate triggers an immediate phase-engine pass, bypassing the scheduler tick.
func (app *App) handleEvaluate(w http.ResponseWriter, r *http.Request, p store.Project) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	activations, err := app.Engine.Evaluate(r.Context(), p.ProjectID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{"activated": activations})
}

func parseID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func toAPIProject(p store.Project) models.Project {
	return models.Project{
		ProjectID:  p.ProjectID,
		Name:       p.Name,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		AgentCount: p.AgentCount,
	}
}

func toAPIAgent(a store.Agent) models.Agent {
	return models.Agent{
		AgentID:       a.AgentID,
		ProjectID:     a.ProjectID,
		RoleType:      a.RoleType,
		SquadID:       a.SquadID,
		Status:        a.Status,
		SessionRef:    a.SessionRef,
		LastHeartbeat: a.LastHeartbeat,
		CreatedAt:     a.CreatedAt,
	}
}

func toAPIContent(c store.Content) models.Content {
	out := models.Content{
		ContentID: c.ContentID,
		ProjectID: c.ProjectID,
		ChannelID: c.ChannelID,
		ParentID:  c.ParentID,
		Type:      c.Type,
		Author:    c.Author,
		Body:      c.Body,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
	if c.Ticket != nil {
		out.Ticket = &models.TicketInfo{
			Status:       c.Ticket.Status,
			Priority:     c.Ticket.Priority,
			AssignedRole: c.Ticket.AssignedRole,
			ClaimedBy:    c.Ticket.ClaimedBy,
		}
	}
	if c.Phase != nil {
		out.Phase = &models.PhaseInfo{
			Status:          c.Phase.Status,
			RequiredInputs:  c.Phase.RequiredInputs,
			ExpectedOutputs: c.Phase.ExpectedOutputs,
			AssignedRole:    c.Phase.AssignedRole,
		}
	}
	return out
}

func toAPIAssignment(a store.ReadingAssignment) models.ReadingAssignment {
	return models.ReadingAssignment{
		AssignmentID:   a.AssignmentID,
		ContentID:      a.ContentID,
		TargetType:     a.TargetType,
		Target:         a.Target,
		AssignedAt:     a.AssignedAt,
		LastNotifiedAt: a.LastNotifiedAt,
	}
}

func toAPIReminder(r store.ScheduledReminder) models.ScheduledReminder {
	return models.ScheduledReminder{
		ReminderID:       r.ReminderID,
		ProjectID:        r.ProjectID,
		TargetRole:       r.TargetRole,
		Message:          r.Message,
		FrequencyMinutes: r.FrequencyMinutes,
		IsActive:         r.IsActive,
		LastSentAt:       r.LastSentAt,
		CreatedAt:        r.CreatedAt,
	}
}
