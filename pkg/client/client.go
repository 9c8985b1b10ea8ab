// Package client provides a Go SDK for the Crewdeck HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ankittk/crewdeck/pkg/models"
)

// Client calls the Crewdeck HTTP API. It is safe for concurrent use.
type Client struct {
	BaseURL    string       // e.g. "http://localhost:3557"
	APIKey     string       // optional; set for X-API-Key / api_key
	HTTPClient *http.Client // optional; nil uses http.DefaultClient
}

// New returns a client for the given base URL (e.g. "http://localhost:3557").
// APIKey is optional; when set, requests use the X-API-Key header.
func New(baseURL, apiKey string) *Client {
	return &Client{BaseURL: baseURL, APIKey: apiKey}
}

func (c *Client) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(b)
	}
	u := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	return c.client().Do(req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error != "" {
			return fmt.Errorf("api %s %s: %s", method, path, errBody.Error)
		}
		return fmt.Errorf("api %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func projectPath(project string) string {
	return "/projects/" + url.PathEscape(project)
}

// Health returns the /health response (ok: true).
func (c *Client) Health(ctx context.Context) (ok bool, err error) {
	var out struct {
		OK bool `json:"ok"`
	}
	err = c.doJSON(ctx, http.MethodGet, "/health", nil, &out)
	return out.OK, err
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &out)
	return out, err
}

// CreateProject creates a project and returns it.
func (c *Client) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	var out models.Project
	err := c.doJSON(ctx, http.MethodPost, "/projects", map[string]string{"name": name}, &out)
	return &out, err
}

// SetProjectStatus moves a project to active, paused, completed, or archived.
func (c *Client) SetProjectStatus(ctx context.Context, project, status string) error {
	return c.doJSON(ctx, http.MethodPatch, projectPath(project), map[string]string{"status": status}, nil)
}

// ListAgents returns agents for a project.
func (c *Client) ListAgents(ctx context.Context, project string) ([]models.Agent, error) {
	var out []models.Agent
	err := c.doJSON(ctx, http.MethodGet, projectPath(project)+"/agents", nil, &out)
	return out, err
}

// CreateAgent registers a worker agent in a project. squadID may be nil; sessionRef names the
// supervisor session the orchestrator probes and nudges.
func (c *Client) CreateAgent(ctx context.Context, project, agentID, roleType string, squadID *string, sessionRef string) error {
	body := map[string]any{"agent_id": agentID, "role_type": roleType, "session_ref": sessionRef}
	if squadID != nil {
		body["squad_id"] = *squadID
	}
	return c.doJSON(ctx, http.MethodPost, projectPath(project)+"/agents", body, nil)
}

// AudienceTarget is one addressed group for CreateContent.
type AudienceTarget struct {
	Type   string `json:"type"` // agent, role, squad
	Target string `json:"target"`
}

// CreateContentRequest is the payload for CreateContent.
type CreateContentRequest struct {
	Type     string             `json:"type"`
	ParentID *int64             `json:"parent_id,omitempty"`
	Author   *string            `json:"author,omitempty"`
	Body     string             `json:"body"`
	Slug     *string            `json:"slug,omitempty"`
	Ticket   *models.TicketInfo `json:"ticket,omitempty"`
	Phase    *models.PhaseInfo  `json:"phase,omitempty"`
	Audience []AudienceTarget   `json:"audience,omitempty"`
}

// CreateContent creates a content item with its audience assignments and returns the content id.
func (c *Client) CreateContent(ctx context.Context, project string, req CreateContentRequest) (contentID int64, err error) {
	var out struct {
		ContentID int64 `json:"content_id"`
	}
	err = c.doJSON(ctx, http.MethodPost, projectPath(project)+"/content", req, &out)
	return out.ContentID, err
}

// GetContent returns one content item.
func (c *Client) GetContent(ctx context.Context, project string, contentID int64) (*models.Content, error) {
	var out models.Content
	err := c.doJSON(ctx, http.MethodGet, projectPath(project)+"/content/"+strconv.FormatInt(contentID, 10), nil, &out)
	return &out, err
}

// ListContent returns project content of the given type (empty = messages).
func (c *Client) ListContent(ctx context.Context, project, contentType string) ([]models.Content, error) {
	path := projectPath(project) + "/content"
	if contentType != "" {
		path += "?type=" + url.QueryEscape(contentType)
	}
	var out []models.Content
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// MarkRead records that agentID has read the content, across every assignment targeting it.
func (c *Client) MarkRead(ctx context.Context, project string, contentID int64, agentID string, acknowledged bool) error {
	path := projectPath(project) + "/content/" + strconv.FormatInt(contentID, 10) + "/mark-read"
	return c.doJSON(ctx, http.MethodPost, path, map[string]any{"agent_id": agentID, "acknowledged": acknowledged}, nil)
}

// ReadStatus is one assignment's read state from the read-status endpoint.
type ReadStatus struct {
	Assignment models.ReadingAssignment `json:"assignment"`
	Targets    []string                 `json:"targets"`
	Readers    []string                 `json:"readers"`
	FullyRead  bool                     `json:"fully_read"`
}

// GetReadStatus returns per-assignment read state for a content item.
func (c *Client) GetReadStatus(ctx context.Context, project string, contentID int64) ([]ReadStatus, error) {
	path := projectPath(project) + "/content/" + strconv.FormatInt(contentID, 10) + "/read-status"
	var out []ReadStatus
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// UnreadItem pairs an unread assignment with its content.
type UnreadItem struct {
	Assignment models.ReadingAssignment `json:"assignment"`
	Content    models.Content           `json:"content"`
}

// ListUnread returns the agent's unread queue, newest first.
func (c *Client) ListUnread(ctx context.Context, project, agentID string) ([]UnreadItem, error) {
	path := projectPath(project) + "/unread?agent=" + url.QueryEscape(agentID)
	var out []UnreadItem
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// ListPhases returns the project's phases in creation order.
func (c *Client) ListPhases(ctx context.Context, project string) ([]models.Content, error) {
	var out []models.Content
	err := c.doJSON(ctx, http.MethodGet, projectPath(project)+"/phases", nil, &out)
	return out, err
}

func (c *Client) phaseAction(ctx context.Context, project string, phaseID int64, action string) error {
	path := projectPath(project) + "/phases/" + strconv.FormatInt(phaseID, 10) + "/" + action
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

// ApprovePhase moves a draft phase into the engine's scope.
func (c *Client) ApprovePhase(ctx context.Context, project string, phaseID int64) error {
	return c.phaseAction(ctx, project, phaseID, "approve")
}

// CompletePhase finishes an active phase, immediately re-evaluating dependents.
func (c *Client) CompletePhase(ctx context.Context, project string, phaseID int64) error {
	return c.phaseAction(ctx, project, phaseID, "complete")
}

// BlockPhase parks a phase until a human intervenes.
func (c *Client) BlockPhase(ctx context.Context, project string, phaseID int64) error {
	return c.phaseAction(ctx, project, phaseID, "block")
}

// Evaluate triggers an immediate dependency pass and returns the activations it made.
func (c *Client) Evaluate(ctx context.Context, project string) ([]models.PhaseActivation, error) {
	var out struct {
		Activated []models.PhaseActivation `json:"activated"`
	}
	err := c.doJSON(ctx, http.MethodPost, projectPath(project)+"/evaluate", nil, &out)
	return out.Activated, err
}

// ClaimTicket claims an open ticket for agentID. A conflict error means someone else won.
func (c *Client) ClaimTicket(ctx context.Context, project string, ticketID int64, agentID string) error {
	path := projectPath(project) + "/tickets/" + strconv.FormatInt(ticketID, 10) + "/claim"
	return c.doJSON(ctx, http.MethodPost, path, map[string]string{"agent_id": agentID}, nil)
}

// UpdateTicketStatus sets a ticket's status.
func (c *Client) UpdateTicketStatus(ctx context.Context, project string, ticketID int64, status string) error {
	path := projectPath(project) + "/tickets/" + strconv.FormatInt(ticketID, 10)
	return c.doJSON(ctx, http.MethodPatch, path, map[string]string{"status": status}, nil)
}

// ListReminders returns every reminder in the project, active or not.
func (c *Client) ListReminders(ctx context.Context, project string) ([]models.ScheduledReminder, error) {
	var out []models.ScheduledReminder
	err := c.doJSON(ctx, http.MethodGet, projectPath(project)+"/reminders", nil, &out)
	return out, err
}

// CreateReminder schedules a recurring message to a role and returns the reminder id.
func (c *Client) CreateReminder(ctx context.Context, project, targetRole, message string, frequencyMinutes int) (int64, error) {
	var out struct {
		ReminderID int64 `json:"reminder_id"`
	}
	err := c.doJSON(ctx, http.MethodPost, projectPath(project)+"/reminders", map[string]any{
		"target_role": targetRole, "message": message, "frequency_minutes": frequencyMinutes,
	}, &out)
	return out.ReminderID, err
}

// SetReminderActive toggles a reminder.
func (c *Client) SetReminderActive(ctx context.Context, project string, reminderID int64, active bool) error {
	path := projectPath(project) + "/reminders/" + strconv.FormatInt(reminderID, 10)
	return c.doJSON(ctx, http.MethodPatch, path, map[string]any{"active": active}, nil)
}
