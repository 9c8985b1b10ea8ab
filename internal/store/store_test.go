package store

import (
	"context"
	"testing"
	"time"

	"github.com/ankittk/crewdeck/pkg/models"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func mustProject(t *testing.T, st Store, name string) Project {
	t.Helper()
	p, err := st.CreateProject(context.Background(), name)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestProjectLifecycle(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	p := mustProject(t, st, "alpha")
	if p.Status != models.ProjectActive {
		t.Errorf("new project status = %q, want active", p.Status)
	}

	got, err := st.GetProjectByName(ctx, "alpha")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.ProjectID != p.ProjectID {
		t.Errorf("project id mismatch: %q vs %q", got.ProjectID, p.ProjectID)
	}

	if err := st.SetProjectStatus(ctx, "alpha", models.ProjectPaused); err != nil {
		t.Fatalf("set status: %v", err)
	}
	active, err := st.ListProjectsByStatus(ctx, models.ProjectActive)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("paused project still listed as active")
	}

	if err := st.SetProjectStatus(ctx, "missing", models.ProjectActive); err == nil {
		t.Error("set status on unknown project should fail")
	}
	if _, err := st.GetProjectByName(ctx, "missing"); err == nil {
		t.Error("get unknown project should fail")
	}
}

func TestAgents(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	p := mustProject(t, st, "alpha")

	squad := "core"
	if err := st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", &squad, "sess-be-1"); err != nil {
		t.Fatalf("create agent: %v", err)
	}
	if err := st.CreateAgent(ctx, p.ProjectID, "be-2", "Backend Developer", nil, "sess-be-2"); err != nil {
		t.Fatalf("create agent: %v", err)
	}
	if err := st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "x"); err == nil {
		t.Error("duplicate agent id should fail")
	}

	byRole, err := st.ListAgentsByRole(ctx, p.ProjectID, "Backend Developer")
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(byRole) != 2 {
		t.Fatalf("agents by role = %d, want 2", len(byRole))
	}

	bySquad, err := st.ListAgentsBySquad(ctx, p.ProjectID, "core")
	if err != nil {
		t.Fatalf("list by squad: %v", err)
	}
	if len(bySquad) != 1 || bySquad[0].AgentID != "be-1" {
		t.Errorf("agents by squad = %+v, want only be-1", bySquad)
	}

	a, err := st.GetAgent(ctx, p.ProjectID, "be-1")
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if a == nil || a.Status != models.AgentLaunching {
		t.Errorf("new agent should be launching, got %+v", a)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := st.UpdateAgentStatus(ctx, "be-1", models.AgentActive, now); err != nil {
		t.Fatalf("update status: %v", err)
	}
	a, _ = st.GetAgent(ctx, p.ProjectID, "be-1")
	if a.Status != models.AgentActive || !a.LastHeartbeat.Equal(now) {
		t.Errorf("status/heartbeat not persisted: %+v", a)
	}

	missing, err := st.GetAgent(ctx, p.ProjectID, "nobody")
	if err != nil {
		t.Fatalf("get missing agent: %v", err)
	}
	if missing != nil {
		t.Error("missing agent should be nil")
	}
}

func TestCreateContent_ReplyFlattening(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	p := mustProject(t, st, "alpha")

	author := "be-1"
	rootID, err := st.CreateContent(ctx, Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Author: &author, Body: "root"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	replyID, err := st.CreateContent(ctx, Content{ProjectID: p.ProjectID, Type: models.ContentReply, ParentID: &rootID, Body: "first reply"})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	nestedID, err := st.CreateContent(ctx, Content{ProjectID: p.ProjectID, Type: models.ContentReply, ParentID: &replyID, Body: "reply to a reply"})
	if err != nil {
		t.Fatalf("create nested reply: %v", err)
	}

	nested, err := st.GetContent(ctx, nestedID)
	if err != nil {
		t.Fatalf("get nested reply: %v", err)
	}
	if nested.ParentID == nil || *nested.ParentID != rootID {
		t.Errorf("nested reply parent = %v, want root %d", nested.ParentID, rootID)
	}

	bogus := int64(9999)
	if _, err := st.CreateContent(ctx, Content{ProjectID: p.ProjectID, Type: models.ContentReply, ParentID: &bogus, Body: "orphan"}); err == nil {
		t.Error("reply to missing parent should fail")
	}
}

func TestPhaseCAS(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	p := mustProject(t, st, "alpha")

	id, err := st.CreateContent(ctx, Content{
		ProjectID: p.ProjectID,
		Type:      models.ContentPhase,
		Body:      "Design",
		Phase:     &PhaseInfo{Status: models.PhaseDraft, AssignedRole: "Architect"},
	})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}

	ok, err := st.UpdatePhaseStatusCAS(ctx, id, models.PhaseApproved, models.PhaseActive)
	if err != nil {
		t.Fatalf("CAS: %v", err)
	}
	if ok {
		t.Error("CAS from wrong state should not apply")
	}

	ok, _ = st.UpdatePhaseStatusCAS(ctx, id, models.PhaseDraft, models.PhaseApproved)
	if !ok {
		t.Fatal("draft -> approved should apply")
	}
	ok, _ = st.UpdatePhaseStatusCAS(ctx, id, models.PhaseApproved, models.PhaseActive)
	if !ok {
		t.Fatal("approved -> active should apply")
	}
	ok, _ = st.UpdatePhaseStatusCAS(ctx, id, models.PhaseActive, models.PhaseCompleted)
	if !ok {
		t.Fatal("active -> completed should apply")
	}

	// Completed is terminal: cannot block, cannot reactivate.
	ok, _ = st.BlockPhase(ctx, id)
	if ok {
		t.Error("block on completed phase should not apply")
	}
	ok, _ = st.UpdatePhaseStatusCAS(ctx, id, models.PhaseCompleted, models.PhaseActive)
	if ok {
		// The store allows any CAS write; the engine never issues this one. Still worth
		// knowing if that changes.
		t.Log("completed -> active applied at store level")
	}
}

func TestClaimTicket(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	p := mustProject(t, st, "alpha")

	id, err := st.CreateContent(ctx, Content{
		ProjectID: p.ProjectID,
		Type:      models.ContentTicket,
		Body:      "Fix the flaky login",
		Ticket:    &TicketInfo{Status: models.TicketOpen, Priority: "high", AssignedRole: "Backend Developer"},
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	ok, err := st.ClaimTicket(ctx, id, "be-1")
	if err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}
	ok, err = st.ClaimTicket(ctx, id, "be-2")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if ok {
		t.Error("second claim should lose")
	}

	got, _ := st.GetContent(ctx, id)
	if got.Ticket == nil || got.Ticket.ClaimedBy == nil || *got.Ticket.ClaimedBy != "be-1" {
		t.Errorf("ticket claimed_by = %+v, want be-1", got.Ticket)
	}
	if got.Ticket.Status != models.TicketClaimed {
		t.Errorf("ticket status = %q, want claimed", got.Ticket.Status)
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	p := mustProject(t, st, "alpha")

	cid, _ := st.CreateContent(ctx, Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "hello"})
	aid, err := st.CreateAssignment(ctx, cid, models.TargetRole, "Backend Developer")
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	if err := st.MarkRead(ctx, aid, "be-1", false); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := st.MarkRead(ctx, aid, "be-1", true); err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	if err := st.MarkRead(ctx, aid, "be-1", false); err != nil {
		t.Fatalf("mark read third time: %v", err)
	}

	records, err := st.ListReadRecords(ctx, aid)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("read records = %d, want exactly 1", len(records))
	}
	// Acknowledged can only ratchet up, never down.
	if !records[0].Acknowledged {
		t.Error("acknowledged should stay true once set")
	}

	read, err := st.HasReadRecord(ctx, aid, "be-1")
	if err != nil || !read {
		t.Errorf("HasReadRecord = %v, %v; want true", read, err)
	}
	read, _ = st.HasReadRecord(ctx, aid, "be-2")
	if read {
		t.Error("be-2 should have no read record")
	}
}

func TestStampNotifiedAndProjectAssignments(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	p := mustProject(t, st, "alpha")

	older, _ := st.CreateContent(ctx, Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "older", CreatedAt: time.Now().Add(-time.Hour)})
	newer, _ := st.CreateContent(ctx, Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "newer"})
	a1, _ := st.CreateAssignment(ctx, older, models.TargetRole, "Backend Developer")
	a2, _ := st.CreateAssignment(ctx, newer, models.TargetRole, "Backend Developer")

	all, err := st.ListProjectAssignments(ctx, p.ProjectID)
	if err != nil {
		t.Fatalf("list project assignments: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("assignments = %d, want 2", len(all))
	}
	if all[0].Assignment.AssignmentID != a2 {
		t.Errorf("newest content should come first, got assignment %d", all[0].Assignment.AssignmentID)
	}
	if all[0].Assignment.LastNotifiedAt != nil {
		t.Error("fresh assignment should have no notified stamp")
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := st.StampNotified(ctx, []int64{a1, a2}, at); err != nil {
		t.Fatalf("stamp notified: %v", err)
	}
	all, _ = st.ListProjectAssignments(ctx, p.ProjectID)
	for _, item := range all {
		if item.Assignment.LastNotifiedAt == nil || !item.Assignment.LastNotifiedAt.Equal(at) {
			t.Errorf("assignment %d stamp = %v, want %v", item.Assignment.AssignmentID, item.Assignment.LastNotifiedAt, at)
		}
	}

	if err := st.StampNotified(ctx, nil, at); err != nil {
		t.Errorf("empty stamp should be a no-op, got %v", err)
	}
}

func TestReminders(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	p := mustProject(t, st, "alpha")

	id, err := st.CreateReminder(ctx, p.ProjectID, "Backend Developer", "standup notes please", 30)
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := st.CreateReminder(ctx, p.ProjectID, "", "x", 30); err == nil {
		t.Error("reminder without role should fail")
	}
	if _, err := st.CreateReminder(ctx, p.ProjectID, "r", "x", 0); err == nil {
		t.Error("reminder with zero frequency should fail")
	}

	active, err := st.ListActiveReminders(ctx, p.ProjectID)
	if err != nil || len(active) != 1 {
		t.Fatalf("active reminders = %d (%v), want 1", len(active), err)
	}
	if active[0].LastSentAt != nil {
		t.Error("new reminder should have no sent stamp")
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := st.StampReminderSent(ctx, id, at); err != nil {
		t.Fatalf("stamp sent: %v", err)
	}
	if err := st.SetReminderActive(ctx, id, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	active, _ = st.ListActiveReminders(ctx, p.ProjectID)
	if len(active) != 0 {
		t.Error("deactivated reminder still listed as active")
	}
	all, _ := st.ListReminders(ctx, p.ProjectID)
	if len(all) != 1 || all[0].LastSentAt == nil || !all[0].LastSentAt.Equal(at) {
		t.Errorf("reminder sent stamp not persisted: %+v", all)
	}
}

func TestSplitJoinSlugs(t *testing.T) {
	t.Parallel()
	got := SplitSlugs(JoinSlugs([]string{"spec", "api-design"}))
	if len(got) != 2 || got[0] != "spec" || got[1] != "api-design" {
		t.Errorf("round trip = %v", got)
	}
	if SplitSlugs("") != nil {
		t.Error("empty string should split to nil")
	}
	if got := SplitSlugs(" spec , , db "); len(got) != 2 || got[0] != "spec" || got[1] != "db" {
		t.Errorf("messy split = %v", got)
	}
}

func TestSeedDemo_Idempotent(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	projects, _ := st.ListProjects(ctx)
	if len(projects) != 1 {
		t.Fatalf("projects after double seed = %d, want 1", len(projects))
	}
	agents, _ := st.ListAgents(ctx, projects[0].ProjectID)
	if len(agents) != 3 {
		t.Errorf("demo agents = %d, want 3", len(agents))
	}
}
