package cmd

import (
	"fmt"

	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/spf13/cobra"
)

// NewReviewCmd manages the review-completed marker that unlocks publishing.
func NewReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Mark the review of the current ticket complete or pending",
		Long: `Mark the review of the current ticket complete or pending.

While a ticket is in scope, git push and gh pr create are denied until the
review is marked complete.`,
	}
	cmd.AddCommand(newReviewCompleteCmd(), newReviewResetCmd())
	return cmd
}

func newReviewCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Record that the review step has passed",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			if err := newRegistry(cmd).MarkReviewCompleted(project); err != nil {
				return err
			}
			cli.GetLogger(cmd).WithField("project", project).Info("Review marked complete")
			fmt.Fprintln(cmd.OutOrStdout(), theme.RenderStatus("success", "Review marked complete"))
			return nil
		}),
	}
}

func newReviewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove the review-completed marker",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			if err := newRegistry(cmd).ClearReviewCompleted(project); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.RenderStatus("warning", "Review reset to pending"))
			return nil
		}),
	}
}
