package cmd

import (
	"fmt"
	"os"

	"github.com/LumeraProtocol/codegen/internal/config"
	"github.com/LumeraProtocol/codegen/internal/verifier"
	"github.com/LumeraProtocol/codegen/pkg/logtrace"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the codegen configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write the default configuration to the --config path, or to
~/.codegen/config.yml when --config is not set.`,
		Args: cobra.NoArgs,
		// The target file may not exist yet, so skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logtrace.SetupWithSink("codegen", "warn", zapcore.AddSync(cmd.ErrOrStderr()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgFile
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return fmt.Errorf("failed to resolve default config path: %w", err)
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after applying defaults, the config file, CODEGEN_* environment variables and flags.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.YAML(opts.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the effective configuration for errors and warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := verifier.NewConfigVerifier(opts.cfg).VerifyConfig(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range res.Errors {
				fmt.Fprintf(out, "error   %s: %s\n", e.Field, e.Message)
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning %s: %s\n", w.Field, w.Message)
			}
			fmt.Fprintf(out, "Configuration is %s\n", res.Summary())
			if !res.IsValid() {
				return fmt.Errorf("configuration verification failed with %d error(s)", len(res.Errors))
			}
			return nil
		},
	}

	configCmd.AddCommand(initCmd, showCmd, verifyCmd)
	return configCmd
}
