package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankittk/crewdeck/internal/address"
	"github.com/ankittk/crewdeck/internal/config"
	"github.com/ankittk/crewdeck/internal/store"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage agents",
	}
	cmd.AddCommand(newAgentAddCmd())
	cmd.AddCommand(newAgentListCmd())
	return cmd
}

func newAgentAddCmd() *cobra.Command {
	var (
		project    string
		agentID    string
		role       string
		squad      string
		sessionRef string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an agent in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if project == "" || agentID == "" || role == "" {
				return errors.New("--project, --id, and --role are required")
			}
			if address.IsDirector(agentID) {
				return fmt.Errorf("%q is a reserved agent id", agentID)
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
			var squadPtr *string
			if squad != "" {
				squadPtr = &squad
			}
			ref := sessionRef
			if ref == "" {
				ref = agentID
			}
			if err := st.CreateAgent(cmd.Context(), p.ProjectID, agentID, role, squadPtr, ref); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added agent %q (role %q) to project %q\n", agentID, role, project)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name")
	cmd.Flags().StringVar(&agentID, "id", "", "Agent id (unique fleet-wide)")
	cmd.Flags().StringVar(&role, "role", "", "Role type (e.g. \"Backend Developer\")")
	cmd.Flags().StringVar(&squad, "squad", "", "Squad id (optional)")
	cmd.Flags().StringVar(&sessionRef, "session", "", "Supervisor session name (default: agent id)")
	return cmd
}

func newAgentListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents in a project",
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
			agents, err := st.ListAgents(cmd.Context(), p.ProjectID)
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No agents.")
				return nil
			}
			for _, a := range agents {
				squad := "-"
				if a.SquadID != nil {
					squad = *a.SquadID
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %s [%s] role=%q squad=%s session=%s\n",
					a.AgentID, a.Status, a.RoleType, squad, a.SessionRef)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name")
	return cmd
}
