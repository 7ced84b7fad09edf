package cmd

import (
	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/config"
	"github.com/grovetools/agentgate/logging"
	"github.com/grovetools/agentgate/pkg/hookio"
	"github.com/grovetools/agentgate/pkg/hooks"
	"github.com/spf13/cobra"
)

var hookDescriptions = map[hooks.Phase]string{
	hooks.PhasePreToolUse:         "Decide whether a proposed tool call may proceed",
	hooks.PhasePostToolUse:        "Record a completed tool call",
	hooks.PhasePostToolUseFailure: "Record a failed tool call",
	hooks.PhasePromptSubmit:       "Record a submitted prompt",
	hooks.PhaseSessionEnd:         "Record the end of the session and print a summary",
}

// NewHookCmd creates the hook command invoked by the host integration.
func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Lifecycle hook handlers called by the host integration",
		Long: `Lifecycle hook handlers called by the host integration.

Each subcommand reads one JSON document on stdin and always exits 0.
pre-tool-use prints {"permissionDecision":"allow"|"deny","reason":...}
on stdout; the host must honor a deny. When no session and no ticket are
in scope the hooks do nothing.`,
		Args: cobra.NoArgs,
	}

	for _, phase := range hooks.Phases {
		cmd.AddCommand(newHookPhaseCmd(phase))
	}
	return cmd
}

func newHookPhaseCmd(phase hooks.Phase) *cobra.Command {
	return &cobra.Command{
		Use:           string(phase),
		Short:         hookDescriptions[phase],
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger("hooks").WithField("phase", string(phase))
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("Hook panicked: %v", r)
				}
			}()

			in, err := hookio.ParseInput(cmd.InOrStdin())
			if err != nil {
				logger.WithError(err).Warn("Malformed hook input, continuing with defaults")
			}

			opts := []hooks.Option{hooks.WithLogger(logger)}
			if path := cli.GetOptions(cmd).ConfigFile; path != "" {
				cfg, err := config.Load(path)
				if err != nil {
					logger.WithError(err).Warnf("Ignoring --config %s", path)
				} else {
					opts = append(opts, hooks.WithConfig(cfg))
				}
			}

			hooks.NewRunner(opts...).Handle(phase, in, cmd.OutOrStdout())
			return nil
		},
	}
}
