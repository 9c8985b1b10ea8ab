package address

import (
	"context"
	"testing"

	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

func setup(t *testing.T) (store.Store, store.Project, *Resolver) {
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
	return st, p, &Resolver{Store: st}
}

func assignment(targetType, target string) store.ReadingAssignment {
	return store.ReadingAssignment{AssignmentID: 1, ContentID: 1, TargetType: targetType, Target: target}
}

func TestResolveTargets_Agent(t *testing.T) {
	t.Parallel()
	st, p, r := setup(t)
	ctx := context.Background()
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "s1")

	got, err := r.ResolveTargets(ctx, p.ProjectID, assignment(models.TargetAgent, "be-1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 1 || got[0] != "be-1" {
		t.Errorf("targets = %v, want [be-1]", got)
	}

	// Unknown agents resolve to nobody, not an error.
	got, err = r.ResolveTargets(ctx, p.ProjectID, assignment(models.TargetAgent, "ghost"))
	if err != nil {
		t.Fatalf("resolve unknown: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown agent targets = %v, want empty", got)
	}
}

func TestResolveTargets_RoleIsDynamic(t *testing.T) {
	t.Parallel()
	st, p, r := setup(t)
	ctx := context.Background()
	a := assignment(models.TargetRole, "Backend Developer")

	got, _ := r.ResolveTargets(ctx, p.ProjectID, a)
	if len(got) != 0 {
		t.Fatalf("role with no members should resolve empty, got %v", got)
	}

	// Membership is evaluated at read time: agents joining later still owe a read.
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "s1")
	_ = st.CreateAgent(ctx, p.ProjectID, "be-2", "Backend Developer", nil, "s2")
	_ = st.CreateAgent(ctx, p.ProjectID, "fe-1", "Frontend Developer", nil, "s3")

	got, err := r.ResolveTargets(ctx, p.ProjectID, a)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("role targets = %v, want be-1 and be-2", got)
	}
}

func TestResolveTargets_Squad(t *testing.T) {
	t.Parallel()
	st, p, r := setup(t)
	ctx := context.Background()
	squad := "core"
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", &squad, "s1")
	_ = st.CreateAgent(ctx, p.ProjectID, "fe-1", "Frontend Developer", nil, "s2")

	got, err := r.ResolveTargets(ctx, p.ProjectID, assignment(models.TargetSquad, "core"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 1 || got[0] != "be-1" {
		t.Errorf("squad targets = %v, want [be-1]", got)
	}
}

func TestResolveTargets_UnknownTypeResolvesEmpty(t *testing.T) {
	t.Parallel()
	_, p, r := setup(t)
	got, err := r.ResolveTargets(context.Background(), p.ProjectID, assignment("broadcast", "everyone"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown target type should resolve empty, got %v", got)
	}
}

func TestDirector(t *testing.T) {
	t.Parallel()
	_, p, r := setup(t)
	ctx := context.Background()

	for _, target := range []string{DirectorID, "director"} {
		got, err := r.ResolveTargets(ctx, p.ProjectID, assignment(models.TargetAgent, target))
		if err != nil {
			t.Fatalf("resolve %q: %v", target, err)
		}
		if len(got) != 1 || got[0] != DirectorID {
			t.Errorf("target %q resolved to %v, want [%s]", target, got, DirectorID)
		}
	}

	ok, err := r.Includes(ctx, p.ProjectID, assignment(models.TargetAgent, "director"), DirectorID)
	if err != nil || !ok {
		t.Errorf("canonical id should be included under legacy alias: ok=%v err=%v", ok, err)
	}
	if !IsDirector("human-director") || !IsDirector("director") || IsDirector("be-1") {
		t.Error("IsDirector misclassifies")
	}
}

func TestIncludes(t *testing.T) {
	t.Parallel()
	st, p, r := setup(t)
	ctx := context.Background()
	_ = st.CreateAgent(ctx, p.ProjectID, "be-1", "Backend Developer", nil, "s1")

	a := assignment(models.TargetRole, "Backend Developer")
	ok, err := r.Includes(ctx, p.ProjectID, a, "be-1")
	if err != nil || !ok {
		t.Errorf("be-1 should be included: ok=%v err=%v", ok, err)
	}
	ok, _ = r.Includes(ctx, p.ProjectID, a, "fe-1")
	if ok {
		t.Error("fe-1 should not be included")
	}
}
