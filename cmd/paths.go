package cmd

import (
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput lists the files and directories agentgate uses.
type PathsOutput struct {
	ConfigDir     string `json:"config_dir"`
	StateDir      string `json:"state_dir"`
	LogsDir       string `json:"logs_dir"`
	TicketPointer string `json:"ticket_pointer"`
	Project       string `json:"project"`
	SessionFile   string `json:"session_file"`
	WorkflowFile  string `json:"workflow_file"`
	ReviewMarker  string `json:"review_marker"`
	Correlation   string `json:"correlation_dir"`
	Queue         string `json:"queue_file"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by agentgate",
		Long: `Print the paths used by agentgate as JSON.

User-scoped paths follow the XDG Base Directory Specification, or live
under $AGENTGATE_HOME when it is set:
- config_dir: agentgate.yml / agentgate.toml
- state_dir: ticket pointer and logs

Project-scoped paths live under the project's .agentgate directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), PathsOutput{
				ConfigDir:     paths.ConfigDir(),
				StateDir:      paths.StateDir(),
				LogsDir:       paths.LogsDir(),
				TicketPointer: paths.TicketPointerPath(),
				Project:       project,
				SessionFile:   paths.SessionFile(project),
				WorkflowFile:  paths.WorkflowFile(project),
				ReviewMarker:  paths.ReviewMarker(project),
				Correlation:   paths.CorrelationDir(project),
				Queue:         paths.QueueFile(project),
			})
		},
	}

	return cmd
}
