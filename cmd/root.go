package cmd

import (
	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/grovetools/agentgate/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the agentgate command tree.
func NewRootCmd() *cobra.Command {
	theme.InitializeColor()

	rootCmd := cli.NewStandardCommand(
		"agentgate",
		"Session telemetry and ticket workflow gating for coding agents",
	)
	rootCmd.Long = `Session telemetry and ticket workflow gating for coding agents.

The host integration calls 'agentgate hook <phase>' at every lifecycle hook.
Hooks append telemetry to .agentgate/telemetry/queue.jsonl and, before each
tool call, decide whether file writes and publish commands may proceed for
the ticket in scope.`
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().String(projectFlag, "", "Project directory (defaults to the working directory)")
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	rootCmd.AddCommand(
		NewHookCmd(),
		NewSessionCmd(),
		NewWorkflowCmd(),
		NewTicketCmd(),
		NewReviewCmd(),
		NewQueueCmd(),
		NewSchemaCmd(),
		NewConfigCmd(),
		NewCheckCommandCmd(),
		NewPathsCmd(),
		cli.NewVersionCommand("agentgate"),
	)

	cli.ApplyStyledHelpRecursive(rootCmd)
	return rootCmd
}
