package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/ankittk/crewdeck/internal/otel"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

// fireReminders delivers every active reminder whose period has elapsed. Firing means creating
// a message plus a role-scoped reading assignment; delivery to agents then rides the normal
// unread-ping path. The sent stamp is written only after the content exists, so a mid-fire
// crash re-fires rather than drops.
func (s *Scheduler) fireReminders(ctx context.Context, p store.Project) {
	reminders, err := s.Store.ListActiveReminders(ctx, p.ProjectID)
	if err != nil {
		slog.Error("reminder sweep failed", "project", p.Name, "err", err)
		otel.RecordTickError(ctx, p.Name, "reminders")
		return
	}
	now := s.now()
	for _, r := range reminders {
		if !reminderDue(r, now) {
			continue
		}
		msgID, err := s.Store.CreateContent(ctx, store.Content{
			ProjectID: p.ProjectID,
			Type:      models.ContentMessage,
			Body:      r.Message,
		})
		if err != nil {
			slog.Error("reminder message create failed", "project", p.Name, "reminder_id", r.ReminderID, "err", err)
			otel.RecordTickError(ctx, p.Name, "reminders")
			continue
		}
		if _, err := s.Store.CreateAssignment(ctx, msgID, models.TargetRole, r.TargetRole); err != nil {
			slog.Error("reminder assignment create failed", "project", p.Name, "reminder_id", r.ReminderID, "err", err)
			otel.RecordTickError(ctx, p.Name, "reminders")
			continue
		}
		if err := s.Store.StampReminderSent(ctx, r.ReminderID, now); err != nil {
			slog.Warn("reminder stamp failed", "project", p.Name, "reminder_id", r.ReminderID, "err", err)
		}
		slog.Info("reminder fired", "project", p.Name, "reminder_id", r.ReminderID, "role", r.TargetRole)
		otel.RecordReminder(ctx, p.Name, r.TargetRole)
		if s.Hub != nil {
			s.Hub.PublishJSON(map[string]any{
				"type":        "reminder_fired",
				"project":     p.ProjectID,
				"reminder_id": r.ReminderID,
				"role":        r.TargetRole,
			})
		}
	}
}

// reminderDue reports whether the reminder's period has elapsed since it last fired.
// A reminder that has never fired is due immediately.
func reminderDue(r store.ScheduledReminder, now time.Time) bool {
	if r.LastSentAt == nil {
		return true
	}
	return now.Sub(*r.LastSentAt) >= time.Duration(r.FrequencyMinutes)*time.Minute
}
