package readtrack

import (
	"context"
	"testing"

	"github.com/ankittk/crewdeck/internal/address"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

func setup(t *testing.T) (store.Store, store.Project, *Ledger) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	p, err := st.CreateProject(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return st, p, &Ledger{Store: st, Resolver: &address.Resolver{Store: st}}
}

func TestFullyRead_EmptyTargetSetIsNotFullyRead(t *testing.T) {
	t.Parallel()
	st, p, l := setup(t)
	ctx := context.Background()

	cid, _ := st.CreateContent(ctx, store.Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "hello"})
	aid, _ := st.CreateAssignment(ctx, cid, models.TargetRole, "QA Engineer")
	assignments, _ := st.ListAssignmentsForContent(ctx, cid)

	full, err := l.FullyRead(ctx, p.ProjectID, assignments[0])
	if err != nil {
		t.Fatalf("fully read: %v", err)
	}
	if full {
		t.Error("assignment with zero resolved targets must not count as fully read")
	}
	_ = aid
}

func TestFullyRead_DynamicMembership(t *testing.T) {
	t.Parallel()
	st, p, l := setup(t)
	ctx := context.Background()
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "s1")

	cid, _ := st.CreateContent(ctx, store.Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "hello"})
	aid, _ := st.CreateAssignment(ctx, cid, models.TargetRole, "Backend Developer")
	assignments, _ := st.ListAssignmentsForContent(ctx, cid)
	a := assignments[0]

	if err := l.MarkRead(ctx, aid, "be-1", false); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	full, _ := l.FullyRead(ctx, p.ProjectID, a)
	if !full {
		t.Fatal("single member read it, should be fully read")
	}

	// A new role member retroactively reopens the assignment.
	_ = st.CreateAgent(ctx, p.ProjectID, "be-2", "Backend Developer", nil, "s2")
	full, _ = l.FullyRead(ctx, p.ProjectID, a)
	if full {
		t.Error("new role member has not read; assignment must no longer be fully read")
	}

	unread, _ := l.UnreadFor(ctx, p.ProjectID, a, "be-2")
	if !unread {
		t.Error("be-2 should owe a read")
	}
	unread, _ = l.UnreadFor(ctx, p.ProjectID, a, "be-1")
	if unread {
		t.Error("be-1 already read")
	}
}

func TestMarkContentRead_CoversEveryAssignmentPath(t *testing.T) {
	t.Parallel()
	st, p, l := setup(t)
	ctx := context.Background()
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "s1")

	// One content item reaching be-1 through two paths: role fan-out and a direct assignment.
	cid, _ := st.CreateContent(ctx, store.Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "review this"})
	_, _ = st.CreateAssignment(ctx, cid, models.TargetRole, "Backend Developer")
	_, _ = st.CreateAssignment(ctx, cid, models.TargetAgent, "be-1")

	if err := l.MarkContentRead(ctx, p.ProjectID, cid, "be-1", true); err != nil {
		t.Fatalf("mark content read: %v", err)
	}

	assignments, _ := st.ListAssignmentsForContent(ctx, cid)
	if len(assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(assignments))
	}
	for _, a := range assignments {
		full, err := l.FullyRead(ctx, p.ProjectID, a)
		if err != nil {
			t.Fatalf("fully read: %v", err)
		}
		if !full {
			t.Errorf("assignment %d (%s %s) should be fully read after one mark", a.AssignmentID, a.TargetType, a.Target)
		}
	}

	unread, _ := l.ContentUnreadFor(ctx, p.ProjectID, cid, "be-1")
	if unread {
		t.Error("content should not be unread after marking")
	}
}

func TestMarkContentRead_SkipsAssignmentsNotTargetingAgent(t *testing.T) {
	t.Parallel()
	st, p, l := setup(t)
	ctx := context.Background()
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "s1")
	_ = st.CreateAgent(ctx, p.ProjectID, "fe-1", "Frontend Developer", nil, "s2")

	cid, _ := st.CreateContent(ctx, store.Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "frontend only"})
	feAid, _ := st.CreateAssignment(ctx, cid, models.TargetRole, "Frontend Developer")

	if err := l.MarkContentRead(ctx, p.ProjectID, cid, "be-1", false); err != nil {
		t.Fatalf("mark content read: %v", err)
	}
	records, _ := st.ListReadRecords(ctx, feAid)
	if len(records) != 0 {
		t.Error("be-1 is outside the target set; no read record should exist")
	}
}

func TestUnreadAssignments(t *testing.T) {
	t.Parallel()
	st, p, l := setup(t)
	ctx := context.Background()
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "s1")

	first, _ := st.CreateContent(ctx, store.Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "first"})
	second, _ := st.CreateContent(ctx, store.Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "second"})
	a1, _ := st.CreateAssignment(ctx, first, models.TargetRole, "Backend Developer")
	_, _ = st.CreateAssignment(ctx, second, models.TargetRole, "Backend Developer")
	// Something addressed elsewhere should never show up.
	other, _ := st.CreateContent(ctx, store.Content{ProjectID: p.ProjectID, Type: models.ContentMessage, Body: "other"})
	_, _ = st.CreateAssignment(ctx, other, models.TargetRole, "Frontend Developer")

	items, err := l.UnreadAssignments(ctx, p.ProjectID, "be-1")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unread items = %d, want 2", len(items))
	}

	if err := l.MarkRead(ctx, a1, "be-1", false); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	items, _ = l.UnreadAssignments(ctx, p.ProjectID, "be-1")
	if len(items) != 1 || items[0].Content.Body != "second" {
		t.Errorf("after read, unread = %+v, want only second", items)
	}
}
