package cmd

import (
	"fmt"

	"github.com/grovetools/agentgate/cli"
	"github.com/grovetools/agentgate/config"
	"github.com/grovetools/agentgate/errors"
	"github.com/grovetools/agentgate/schema"
	"github.com/grovetools/agentgate/tui/theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewSchemaCmd prints the JSON Schema of a queued event.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of queued telemetry events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.GenerateEventSchema()
			if err != nil {
				return fmt.Errorf("failed to generate event schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// NewConfigCmd inspects agentgate configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect agentgate configuration",
		Long: `Inspect agentgate configuration.

Configuration is merged from two optional layers:
1. Global config (<config dir>/agentgate.yml or agentgate.toml)
2. Project config (.agentgate/config.yml or config.toml)`,
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSchemaCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd)
			if err != nil {
				return err
			}
			cfg, err := cli.LoadConfig(cmd, project)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), cfg)
			}

			if path, err := cli.InitConfig(cli.GetOptions(cmd).ConfigFile); err == nil && path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# Source: %s\n", path)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal configuration: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		}),
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of agentgate.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return fmt.Errorf("failed to generate config schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: withErrorHandler(func(cmd *cobra.Command, args []string) error {
			path := cli.GetOptions(cmd).ConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				project, err := resolveProject(cmd)
				if err != nil {
					return err
				}
				if path, err = config.FindConfigFile(project); err != nil {
					return err
				}
			}

			raw, err := config.LoadRaw(path)
			if err != nil {
				return err
			}
			validator, err := schema.NewConfigValidator()
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to build config schema")
			}
			if err := validator.Validate(raw); err != nil {
				return errors.ConfigInvalid(err.Error()).WithDetail("path", path)
			}
			if _, err := config.Load(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", theme.RenderStatus("success", "Valid:"), path)
			return nil
		}),
	}
}
