package cmd

import (
	"fmt"

	"github.com/grovetools/agentgate/tui/theme"
	"github.com/spf13/cobra"
)

// NewTicketCmd manages the home-scoped current ticket pointer.
func NewTicketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Manage the current ticket pointer",
		Long: `Manage the current ticket pointer.

The pointer lives in the user state directory and applies to the project it
was set from and every directory below it.`,
	}
	cmd.AddCommand(newTicketSetCmd(), newTicketClearCmd(), newTicketShowCmd())
	return cmd
}

func newTicketSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <ticket>",
		Short: "Point the current project at a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			ptr, err := newRegistry(cmd).SetTicketPointer(project, args[0])
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), ptr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s for %s\n",
				theme.RenderStatus("success", "Current ticket is"), ptr.TicketID, ptr.ProjectPath)
			return nil
		}),
	}
}

func newTicketClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the current ticket pointer",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			if err := newRegistry(cmd).ClearTicketPointer(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.RenderStatus("success", "Ticket pointer cleared"))
			return nil
		}),
	}
}

func newTicketShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the ticket in scope for the current project",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			reg := newRegistry(cmd)
			active := reg.ResolveActiveTicket(project)

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"project":      project,
					"activeTicket": active,
					"pointer":      reg.TicketPointer(),
				})
			}
			if active == "" {
				fmt.Fprintln(cmd.OutOrStdout(), theme.DefaultTheme.Muted.Render("No ticket in scope"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), active)
			return nil
		}),
	}
}
