package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankittk/crewdeck/internal/config"
	"github.com/ankittk/crewdeck/internal/store"
)

func newReminderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Manage scheduled reminders",
	}
	cmd.AddCommand(newReminderAddCmd())
	cmd.AddCommand(newReminderListCmd())
	cmd.AddCommand(newReminderToggleCmd())
	return cmd
}

func newReminderAddCmd() *cobra.Command {
	var (
		project string
		role    string
		message string
		every   int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recurring reminder for a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if project == "" || role == "" || message == "" {
				return errors.New("--project, --role, and --message are required")
			}
			if every <= 0 {
				return errors.New("--every must be a positive number of minutes")
			}
			home := config.MustHomeFrom(cmd.Context())
			st, err := store.Open(home)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			p, err := st.GetProjectByName(cmd.Context(), project)
			if err != nil {
				return err
			}
			id, err := st.CreateReminder(cmd.Context(), p.ProjectID, role, message, every)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created reminder %d (every %d min, role %q)\n", id, every, role)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name")
	cmd.Flags().StringVar(&role, "role", "", "Target role")
	cmd.Flags().StringVar(&message, "message", "", "Reminder text")
	cmd.Flags().IntVar(&every, "every", 0, "Frequency in minutes")
	return cmd
}

func newReminderListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if project == "" {
				return errors.New("--project is required")
			}
			home := config.MustHomeFrom(cmd.Context())
			st, err := store.Open(home)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			p, err := st.GetProjectByName(cmd.Context(), project)
			if err != nil {
				return err
			}
			reminders, err := st.ListReminders(cmd.Context(), p.ProjectID)
			if err != nil {
				return err
			}
			if len(reminders) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No reminders.")
				return nil
			}
			for _, r := range reminders {
				state := "active"
				if !r.IsActive {
					state = "inactive"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- #%d [%s] every %d min -> %q: %s\n",
					r.ReminderID, state, r.FrequencyMinutes, r.TargetRole, r.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name")
	return cmd
}

func newReminderToggleCmd() *cobra.Command {
	var (
		id     int64
		active bool
	)
	cmd := &cobra.Command{
		Use:   "set-active",
		Short: "Activate or deactivate a reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id <= 0 {
				return errors.New("--id is required")
			}
			home := config.MustHomeFrom(cmd.Context())
			st, err := store.Open(home)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := st.SetReminderActive(cmd.Context(), id, active); err != nil {
				return err
			}
			state := "active"
			if !active {
				state = "inactive"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reminder %d is now %s\n", id, state)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Reminder id")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the reminder fires")
	return cmd
}
