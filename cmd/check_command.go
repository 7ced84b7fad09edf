package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/pkg/admission"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/spf13/cobra"
)

// NewCheckCommandCmd reports whether a shell command would be gated as a
// publish command.
func NewCheckCommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-command <command>",
		Short: "Report whether a shell command counts as publishing work",
		Example: `agentgate check-command "git push origin main"
agentgate check-command "echo git push"`,
		Args: cobra.MinimumNArgs(1),
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")

			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			cfg, err := cli.LoadConfig(cmd, project)
			if err != nil {
				return err
			}
			publish := admission.NewPolicy(cfg.Workflow).IsPublishCommand(command)

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"command": command,
					"publish": publish,
				})
			}
			if publish {
				fmt.Fprintln(cmd.OutOrStdout(), theme.RenderStatus("warning", "publish")+" requires a completed review when a ticket is in scope")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), theme.RenderStatus("success", "not gated"))
			}
			return nil
		}),
	}
}
