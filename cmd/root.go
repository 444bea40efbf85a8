package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LumeraProtocol/codegen/internal/config"
	"github.com/LumeraProtocol/codegen/pkg/logtrace"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	// Version info passed from main
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// globalOptions holds persistent flags and the configuration they resolve to.
type globalOptions struct {
	cfgFile string
	debug   bool
	scheme  string
	workers int
	format  string

	cfg *config.Config
}

// usageError marks errors after which the command usage is printed.
type usageError struct{ error }

// NewRootCmd builds the command tree. The root command itself generates a
// full epoch schedule.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "codegen <seed_hex> <epoch_length> <sub_epoch_length> <block_bit_length>",
		Short: "Derive a TRANSEC code schedule from a shared seed",
		Long: `codegen deterministically derives one pseudorandom code block per sub-epoch.

The epoch is split into N = floor(epoch_length / sub_epoch_length) sub-epochs
and each index i in [0, N) gets an independent block of block_bit_length bits.
Parties holding the same seed and parameters compute identical schedules.

Arguments:
  seed_hex          Hexadecimal seed from TRANSEC key material
  epoch_length      Total epoch duration in seconds
  sub_epoch_length  Sub-epoch duration in seconds
  block_bit_length  Number of bits per code block`,
		Args:              exactArgs(4),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
		RunE:              opts.runGenerate,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: built-in defaults)")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&opts.scheme, "scheme", "", "Key derivation scheme (overrides config)")
	pf.IntVar(&opts.workers, "workers", 0, "Concurrent generation workers (0 = config or one per CPU)")
	pf.StringVar(&opts.format, "format", "", "Output format: text, hex or json (overrides config)")

	rootCmd.AddCommand(newAtCmd(opts))
	rootCmd.AddCommand(newInteractiveCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI against the process arguments.
func Execute(ver, commit, built string) error {
	if ver != "" {
		appVersion = ver
	}
	if commit != "" {
		appGitCommit = commit
	}
	if built != "" {
		appBuildTime = built
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		return fmt.Errorf("exit status %d", code)
	}
	return nil
}

// Run executes the command tree with args and returns the process exit code:
// 0 on success, 1 on any parse, validation or runtime error.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	defer logtrace.Sync()

	executed, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintf(errOut, "Error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		if executed == nil {
			executed = rootCmd
		}
		fmt.Fprintln(errOut)
		fmt.Fprint(errOut, executed.UsageString())
	}
	return 1
}

// setup loads configuration and installs the logger before any command runs.
func (o *globalOptions) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("scheme") {
		cfg.Derivation.Scheme = o.scheme
	}
	if cmd.Flags().Changed("workers") {
		cfg.Generation.Workers = o.workers
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = o.format
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	o.cfg = cfg

	logtrace.SetupWithSink("codegen", cfg.Log.Level, zapcore.AddSync(cmd.ErrOrStderr()))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logtrace.CtxWithCorrelationID(ctx, uuid.NewString())
	ctx = logtrace.CtxWithOrigin(ctx, cmd.Name())
	cmd.SetContext(ctx)

	logtrace.Debug(ctx, "Configuration resolved", logtrace.Fields{
		logtrace.FieldConfigPath: o.cfgFile,
		logtrace.FieldScheme:     cfg.Derivation.Scheme,
		logtrace.FieldWorkers:    cfg.Generation.Workers,
	})
	return nil
}

// exactArgs is cobra.ExactArgs with usage printed on mismatch.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{fmt.Errorf("%s expects %d arguments, got %d", cmd.Name(), n, len(args))}
		}
		return nil
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information for codegen.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Codegen Version: %s\n", appVersion)
			fmt.Fprintf(out, "Git Commit: %s\n", appGitCommit)
			fmt.Fprintf(out, "Build Time: %s\n", appBuildTime)
		},
	}
}
