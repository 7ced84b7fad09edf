package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/pkg/sessions"
	"github.com/spf13/cobra"
)

// projectFlag is the persistent --project flag shared by admin commands.
const projectFlag = "project"

// resolveProject returns the project root for the --project flag or the
// working directory.
func resolveProject(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString(projectFlag)
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}
	return sessions.ResolveProject(dir), nil
}

func newRegistry(cmd *cobra.Command) *sessions.FileSystemRegistry {
	return sessions.NewFileSystemRegistry(cli.GetLogger(cmd))
}

func jsonOutput(cmd *cobra.Command) bool {
	return cli.GetOptions(cmd).JSONOutput
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// withErrorHandler wraps RunE so failures print a remediation message.
func withErrorHandler(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			h := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)
			h.Out = cmd.ErrOrStderr()
			return h.Handle(err)
		}
		return nil
	}
}
