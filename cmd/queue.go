package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/pkg/paths"
	"github.com/grovetools/agentgate/pkg/queue"
	"github.com/grovetools/agentgate/schema"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/spf13/cobra"
)

// NewQueueCmd inspects the local telemetry queue.
func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the local telemetry queue",
		Long: `Inspect the local telemetry queue.

The queue is append-only; draining it is left to the external uploader.`,
	}
	cmd.AddCommand(newQueueCountCmd(), newQueueTailCmd(), newQueueVerifyCmd())
	return cmd
}

func projectQueue(cmd *cobra.Command) (*queue.Queue, error) {
	project, err := resolveProject(cmd)
	if err != nil {
		return nil, err
	}
	return queue.New(paths.QueueFile(project), cli.GetLogger(cmd)), nil
}

func newQueueCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of queued events",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			q, err := projectQueue(cmd)
			if err != nil {
				return err
			}
			count := q.Count()
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"path": q.Path(), "count": count})
			}
			fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		}),
	}
}

func newQueueTailCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print queued events",
		Example: `# follow new events as hooks append them
agentgate queue tail -f`,
		Args: cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			q, err := projectQueue(cmd)
			if err != nil {
				return err
			}
			if !follow {
				if _, err := os.Stat(q.Path()); os.IsNotExist(err) {
					return nil
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return q.Follow(ctx, follow, func(line string) {
				fmt.Fprintln(out, line)
			})
		}),
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep reading as events arrive")
	return cmd
}

// VerifyResult summarizes a queue validation pass.
type VerifyResult struct {
	Path    string        `json:"path"`
	Total   int           `json:"total"`
	Valid   int           `json:"valid"`
	Invalid []InvalidLine `json:"invalid,omitempty"`
}

// InvalidLine is a queue line that does not match the event schema.
type InvalidLine struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

func newQueueVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Validate every queued event against the event schema",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			q, err := projectQueue(cmd)
			if err != nil {
				return err
			}
			result, err := verifyQueue(q.Path())
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, bad := range result.Invalid {
					fmt.Fprintf(out, "%s line %d: %s\n", theme.RenderStatus("error", "✗"), bad.Line, bad.Error)
				}
				fmt.Fprintf(out, "%d of %d event(s) valid\n", result.Valid, result.Total)
			}

			if len(result.Invalid) > 0 {
				return errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("%d queued event(s) do not match the schema", len(result.Invalid))).
					WithDetail("path", result.Path)
			}
			return nil
		}),
	}
}

func verifyQueue(path string) (*VerifyResult, error) {
	validator, err := schema.NewEventValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build event schema")
	}

	result := &VerifyResult{Path: path}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeQueueRead, "failed to open queue").WithDetail("path", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		result.Total++
		if err := validator.ValidateJSON(line); err != nil {
			result.Invalid = append(result.Invalid, InvalidLine{Line: lineNo, Error: err.Error()})
			continue
		}
		result.Valid++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQueueRead, "failed to scan queue").WithDetail("path", path)
	}
	return result, nil
}
