package cmd

import (
	"fmt"

	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/state"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewWorkflowCmd creates the ticket workflow command.
func NewWorkflowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage the ticket workflow that gates file writes",
		Long: `Manage the ticket workflow that gates file writes.

File writes on a tracked ticket are admitted only in the implementing,
testing and committing states. A new workflow starts in reviewing.`,
		Example: `agentgate workflow start PROJ-42
agentgate workflow transition implementing
agentgate workflow show`,
	}
	cmd.AddCommand(
		newWorkflowStartCmd(),
		newWorkflowTransitionCmd(),
		newWorkflowShowCmd(),
		newWorkflowClearCmd(),
	)
	return cmd
}

func newWorkflowStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <ticket>",
		Short: "Create the workflow record for a ticket in the reviewing state",
		Long: `Create the workflow record for a ticket in the reviewing state.

Any completed review recorded for the project is cleared, so publish
commands stay blocked until the new ticket is reviewed.`,
		Args:  cobra.ExactArgs(1),
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}

			reg := newRegistry(cmd)
			sessionID := ""
			if s := reg.ResolveSession(project); s != nil {
				sessionID = s.SessionID
			}

			wf, err := state.Start(project, args[0], sessionID)
			if err != nil {
				return err
			}
			// A review belongs to the ticket it was completed for.
			if err := reg.ClearReviewCompleted(project); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to clear review marker")
			}
			cli.GetLogger(cmd).WithField("ticket", wf.TicketID).Info("Workflow started")
			return printWorkflow(cmd, wf, "Started workflow")
		}),
	}
}

func newWorkflowTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transition <state>",
		Short: "Move the workflow to another state",
		Args:  cobra.ExactArgs(1),
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			wf, err := state.Transition(project, args[0])
			if err != nil {
				return err
			}
			cli.GetLogger(cmd).WithFields(logrus.Fields{
				"ticket": wf.TicketID,
				"state":  wf.CurrentState,
			}).Info("Workflow transitioned")
			return printWorkflow(cmd, wf, "Workflow is now")
		}),
	}
}

func newWorkflowShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the workflow record",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			wf, err := state.Load(project)
			if err != nil {
				return err
			}
			if wf == nil {
				if jsonOutput(cmd) {
					return printJSON(cmd.OutOrStdout(), map[string]string{"currentState": state.Uninitialized})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "No workflow in %s (%s)\n", project, state.Uninitialized)
				return nil
			}
			return printWorkflow(cmd, wf, "Workflow")
		}),
	}
}

func newWorkflowClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the workflow record",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			if err := state.Clear(project); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to clear workflow")
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.RenderStatus("success", "Workflow cleared"))
			return nil
		}),
	}
}

func printWorkflow(cmd *cobra.Command, wf *state.Workflow, label string) error {
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), wf)
	}
	t := theme.DefaultTheme
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", label, t.Accent.Render(wf.CurrentState),
		t.Muted.Render(fmt.Sprintf("(ticket %s)", wf.TicketID)))
	return nil
}
