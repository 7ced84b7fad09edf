package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/pkg/hooks"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/grovetools/agentgate/pkg/queue"
	"github.com/grovetools/agentgate/pkg/watch"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/spf13/cobra"
)

// NewSessionCmd creates the session management command.
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start, end and inspect the telemetry session of a project",
	}
	cmd.AddCommand(newSessionStartCmd(), newSessionEndCmd(), newSessionStatusCmd())
	return cmd
}

func newSessionStartCmd() *cobra.Command {
	var ticket, id string
	var redact bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Write a session descriptor so hooks record telemetry",
		Example: `# start a session tracking a ticket, with prompts digested
agentgate session start --ticket PROJ-42 --redact-prompts`,
		Args: cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			s, err := newRegistry(cmd).StartSession(project, id, ticket, redact)
			if err != nil {
				return err
			}
			cli.GetLogger(cmd).WithField("session_id", s.SessionID).Debug("Session started")

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), s)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s session %s in %s\n",
				theme.RenderStatus("success", "Started"), s.SessionID, project)
			return nil
		}),
	}
	cmd.Flags().StringVar(&ticket, "ticket", "", "Ticket the session works on")
	cmd.Flags().StringVar(&id, "id", "", "Session id (generated when empty)")
	cmd.Flags().BoolVar(&redact, "redact-prompts", false, "Store a SHA-256 digest instead of prompt text")
	return cmd
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "Remove the session descriptor and print the queue summary",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			reg := newRegistry(cmd)
			s := reg.ResolveSession(project)
			if err := reg.EndSession(project); err != nil {
				return err
			}

			count := queue.New(paths.QueueFile(project), cli.GetLogger(cmd)).Count()
			cfg, err := cli.LoadConfig(cmd, project)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"sessionId":    s.SessionID,
					"queuedEvents": count,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), hooks.Summary(s.SessionID, count, cfg.Telemetry.FinalizeHint))
			return nil
		}),
	}
}

func newSessionStatusCmd() *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show session, ticket, workflow and queue state",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			reg := newRegistry(cmd)
			logger := cli.GetLogger(cmd)
			out := cmd.OutOrStdout()

			render := func() error {
				status := collectStatus(project, reg, logger)
				if jsonOutput(cmd) {
					return printJSON(out, status)
				}
				fmt.Fprintln(out, renderStatus(status))
				return nil
			}

			if err := render(); err != nil || !watchMode {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watch.NewStateWatcher(project, watch.DefaultDebounce, func(string) {
				if !jsonOutput(cmd) {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				if err := render(); err != nil {
					logger.WithError(err).Warn("Failed to render status")
				}
			}, logger)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", paths.ProjectStateDir(project), err)
			}
			w.Start(ctx)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-render whenever state changes")
	return cmd
}
