package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ankittk/crewdeck/internal/policy"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/internal/supervisor"
	"github.com/ankittk/crewdeck/pkg/models"
)

// fixture wires a scheduler over a throwaway store with a controllable clock.
type fixture struct {
	store store.Store
	sup   *supervisor.StubSupervisor
	sched *Scheduler
	proj  store.Project
	now   time.Time
}

func newFixture(t *testing.T, pol policy.Policy) *fixture {
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
	sup := supervisor.NewStubSupervisor()
	f := &fixture{
		store: st,
		sup:   sup,
		sched: New(st, sup, pol, nil),
		proj:  p,
		now:   time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	f.sched.Now = func() time.Time { return f.now }
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

// addAgent creates an agent, marks it past the launching grace state, and registers its session.
func (f *fixture) addAgent(t *testing.T, agentID, role, status string) {
	t.Helper()
	ctx := context.Background()
	if err := f.store.CreateAgent(ctx, f.proj.ProjectID, agentID, role, nil, agentID); err != nil {
		t.Fatalf("create agent %s: %v", agentID, err)
	}
	if err := f.store.UpdateAgentStatus(ctx, agentID, status, f.now); err != nil {
		t.Fatalf("set status %s: %v", agentID, err)
	}
	f.sup.SetSession(agentID, "$ ")
}

// addMessage creates a message with one reading assignment and returns both ids.
func (f *fixture) addMessage(t *testing.T, body, targetType, target string) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	cid, err := f.store.CreateContent(ctx, store.Content{ProjectID: f.proj.ProjectID, Type: models.ContentMessage, Body: body})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	aid, err := f.store.CreateAssignment(ctx, cid, targetType, target)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return cid, aid
}

func TestSendUnreadPings_CooldownStampsAndRepings(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{})
	ctx := context.Background()
	f.addAgent(t, "be-1", "Backend Developer", models.AgentIdle)

	f.addMessage(t, "please review the schema", models.TargetRole, "Backend Developer")

	f.sched.sendUnreadPings(ctx, f.proj)
	sent := f.sup.Sent("be-1")
	if len(sent) != 1 {
		t.Fatalf("pings sent = %d, want 1", len(sent))
	}
	if !strings.Contains(sent[0], "1 unread") || !strings.Contains(sent[0], "please review the schema") {
		t.Errorf("ping text = %q", sent[0])
	}

	items, _ := f.sched.Ledger.UnreadAssignments(ctx, f.proj.ProjectID, "be-1")
	if len(items) != 1 || items[0].Assignment.LastNotifiedAt == nil {
		t.Fatal("assignment should carry a notified stamp after the ping")
	}

	// Inside the cooldown nothing is re-sent, even though the item is still unread.
	f.advance(30 * time.Second)
	f.sched.sendUnreadPings(ctx, f.proj)
	if got := len(f.sup.Sent("be-1")); got != 1 {
		t.Fatalf("pings during cooldown = %d, want still 1", got)
	}

	// Once the cooldown elapses the same unread item is mentioned again.
	f.advance(PingCooldown)
	f.sched.sendUnreadPings(ctx, f.proj)
	if got := len(f.sup.Sent("be-1")); got != 2 {
		t.Fatalf("pings after cooldown = %d, want 2", got)
	}
}

func TestSendUnreadPings_BatchCap(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{})
	ctx := context.Background()
	f.addAgent(t, "be-1", "Backend Developer", models.AgentActive)

	for _, body := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		f.addMessage(t, body, models.TargetRole, "Backend Developer")
	}

	f.sched.sendUnreadPings(ctx, f.proj)
	sent := f.sup.Sent("be-1")
	if len(sent) != 1 {
		t.Fatalf("pings sent = %d, want 1", len(sent))
	}
	if !strings.Contains(sent[0], "7 unread") {
		t.Errorf("ping should report the full unread count: %q", sent[0])
	}
	if got := strings.Count(sent[0], "- ["); got != PingBatchSize {
		t.Errorf("ping lists %d items, want %d", got, PingBatchSize)
	}
	if !strings.Contains(sent[0], "2 more not shown") {
		t.Errorf("ping should note the overflow: %q", sent[0])
	}
}

func TestSendUnreadPings_SkipsOfflineAndLaunching(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{})
	ctx := context.Background()
	f.addAgent(t, "off-1", "Backend Developer", models.AgentOffline)
	if err := f.store.CreateAgent(ctx, f.proj.ProjectID, "new-1", "Backend Developer", nil, "new-1"); err != nil {
		t.Fatalf("create agent: %v", err)
	}
	f.sup.SetSession("new-1", "$ ")
	f.addMessage(t, "hello", models.TargetRole, "Backend Developer")

	f.sched.sendUnreadPings(ctx, f.proj)
	if len(f.sup.Sent("off-1")) != 0 || len(f.sup.Sent("new-1")) != 0 {
		t.Error("offline and launching agents must not be pinged")
	}
}

func TestSendGentlePokes_OncePerIdleWindow(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{})
	ctx := context.Background()
	f.addAgent(t, "be-1", "Backend Developer", models.AgentIdle)

	// First sighting only starts the idle clock.
	f.sched.sendGentlePokes(ctx, f.proj)
	if len(f.sup.Sent("be-1")) != 0 {
		t.Fatal("freshly idle agent must not be poked")
	}

	// Ticking every minute: the first poke lands at the threshold, the second one full
	// window later. By minute 12 exactly two pokes have gone out.
	var pokes int
	for minute := 1; minute <= 12; minute++ {
		f.advance(time.Minute)
		f.sched.sendGentlePokes(ctx, f.proj)
		pokes = len(f.sup.Sent("be-1"))
		switch {
		case minute < 5 && pokes != 0:
			t.Fatalf("minute %d: pokes = %d, want 0", minute, pokes)
		case minute >= 5 && minute < 10 && pokes != 1:
			t.Fatalf("minute %d: pokes = %d, want 1", minute, pokes)
		case minute >= 10 && pokes != 2:
			t.Fatalf("minute %d: pokes = %d, want 2", minute, pokes)
		}
	}
}

func TestSendGentlePokes_NonIdleObservationResetsClock(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{})
	ctx := context.Background()
	f.addAgent(t, "be-1", "Backend Developer", models.AgentIdle)

	f.sched.sendGentlePokes(ctx, f.proj) // clock starts
	f.advance(4 * time.Minute)
	f.sched.sendGentlePokes(ctx, f.proj)

	// A burst of activity wipes the accumulated idle time.
	_ = f.store.UpdateAgentStatus(ctx, "be-1", models.AgentActive, f.now)
	f.sched.sendGentlePokes(ctx, f.proj)
	_ = f.store.UpdateAgentStatus(ctx, "be-1", models.AgentIdle, f.now)

	f.advance(2 * time.Minute)
	f.sched.sendGentlePokes(ctx, f.proj)
	if len(f.sup.Sent("be-1")) != 0 {
		t.Error("idle clock should restart after a non-idle observation")
	}
}

func TestFireReminders(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{})
	ctx := context.Background()

	rid, err := f.store.CreateReminder(ctx, f.proj.ProjectID, "QA Engineer", "run the nightly suite", 30)
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	// Never-fired reminders are due immediately.
	f.sched.fireReminders(ctx, f.proj)
	msgs, _ := f.store.ListContentByType(ctx, f.proj.ProjectID, models.ContentMessage)
	if len(msgs) != 1 || msgs[0].Body != "run the nightly suite" {
		t.Fatalf("messages after first fire = %+v, want one reminder message", msgs)
	}
	assignments, _ := f.store.ListAssignmentsForContent(ctx, msgs[0].ContentID)
	if len(assignments) != 1 || assignments[0].TargetType != models.TargetRole || assignments[0].Target != "QA Engineer" {
		t.Errorf("reminder assignment = %+v, want role QA Engineer", assignments)
	}

	// Within the period nothing fires again.
	f.advance(10 * time.Minute)
	f.sched.fireReminders(ctx, f.proj)
	msgs, _ = f.store.ListContentByType(ctx, f.proj.ProjectID, models.ContentMessage)
	if len(msgs) != 1 {
		t.Fatalf("messages inside period = %d, want still 1", len(msgs))
	}

	// After the period it fires again; deactivated reminders never do.
	f.advance(20 * time.Minute)
	f.sched.fireReminders(ctx, f.proj)
	msgs, _ = f.store.ListContentByType(ctx, f.proj.ProjectID, models.ContentMessage)
	if len(msgs) != 2 {
		t.Fatalf("messages after period = %d, want 2", len(msgs))
	}

	if err := f.store.SetReminderActive(ctx, rid, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	f.advance(time.Hour)
	f.sched.fireReminders(ctx, f.proj)
	msgs, _ = f.store.ListContentByType(ctx, f.proj.ProjectID, models.ContentMessage)
	if len(msgs) != 2 {
		t.Errorf("deactivated reminder fired, messages = %d", len(msgs))
	}
}

func TestForwardToDelegate_Dedupes(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{Forward: true, Delegate: "Lead Developer"})
	ctx := context.Background()

	cid, _ := f.addMessage(t, "status update please", models.TargetAgent, "human-director")

	f.sched.forwardToDelegate(ctx, f.proj)
	f.sched.forwardToDelegate(ctx, f.proj)

	assignments, _ := f.store.ListAssignmentsForContent(ctx, cid)
	var delegateCount int
	for _, a := range assignments {
		if a.TargetType == models.TargetRole && a.Target == "Lead Developer" {
			delegateCount++
		}
	}
	if delegateCount != 1 {
		t.Fatalf("delegate assignments = %d, want exactly 1 across repeated passes", delegateCount)
	}
	if len(assignments) != 2 {
		t.Errorf("assignments on content = %d, want director + delegate", len(assignments))
	}
}

func TestForwardToDelegate_LegacyAliasAndDisabled(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{Forward: true})
	ctx := context.Background()

	// The old-style "director" target forwards just like the canonical id, onto the
	// default delegate role.
	cid, _ := f.addMessage(t, "legacy addressed", models.TargetAgent, "director")
	f.sched.forwardToDelegate(ctx, f.proj)
	assignments, _ := f.store.ListAssignmentsForContent(ctx, cid)
	var found bool
	for _, a := range assignments {
		if a.TargetType == models.TargetRole && a.Target == policy.DefaultDelegateRole {
			found = true
		}
	}
	if !found {
		t.Error("legacy director alias should forward to the default delegate role")
	}

	off := newFixture(t, policy.Static{Forward: false})
	cid2, _ := off.addMessage(t, "do not forward", models.TargetAgent, "human-director")
	off.sched.forwardToDelegate(ctx, off.proj)
	assignments, _ = off.store.ListAssignmentsForContent(ctx, cid2)
	if len(assignments) != 1 {
		t.Errorf("forwarding disabled but assignments = %d, want 1", len(assignments))
	}
}

func TestTick_IsolatesProjects(t *testing.T) {
	t.Parallel()
	f := newFixture(t, policy.Static{})
	ctx := context.Background()
	// A paused project is skipped entirely.
	if _, err := f.store.CreateProject(ctx, "beta"); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := f.store.SetProjectStatus(ctx, "beta", models.ProjectPaused); err != nil {
		t.Fatalf("pause: %v", err)
	}
	f.addAgent(t, "be-1", "Backend Developer", models.AgentActive)
	f.addMessage(t, "hello", models.TargetRole, "Backend Developer")

	f.sched.Tick(ctx)
	if len(f.sup.Sent("be-1")) != 1 {
		t.Errorf("active project agent pings = %d, want 1", len(f.sup.Sent("be-1")))
	}
}
