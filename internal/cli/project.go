package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankittk/crewdeck/internal/config"
	"github.com/ankittk/crewdeck/internal/store"
	"github.com/ankittk/crewdeck/pkg/models"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectAddCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectStatusCmd())
	return cmd
}

func newProjectAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			home := config.MustHomeFrom(cmd.Context())
			st, err := store.Open(home)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			p, err := st.CreateProject(cmd.Context(), name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (%s)\n", p.Name, p.ProjectID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := config.MustHomeFrom(cmd.Context())
			st, err := store.Open(home)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			projects, err := st.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No projects.")
				return nil
			}
			for _, p := range projects {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %s [%s] (agents=%d)\n", p.Name, p.Status, p.AgentCount)
			}
			return nil
		},
	}
	return cmd
}

func newProjectStatusCmd() *cobra.Command {
	var (
		name   string
		status string
	)
	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Set a project's lifecycle status (active, paused, completed, archived)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			switch status {
			case models.ProjectActive, models.ProjectPaused, models.ProjectCompleted, models.ProjectArchived:
			default:
				return errors.New("--status must be active, paused, completed, or archived")
			}
			home := config.MustHomeFrom(cmd.Context())
			st, err := store.Open(home)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := st.SetProjectStatus(cmd.Context(), name, status); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Project %q is now %s\n", name, status)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	return cmd
}
