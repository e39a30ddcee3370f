package cmd

import (
	"context"
	"fmt"
	stdio "io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/internal/exec"
	"github.com/cloudposse/invctl/pkg/config"
	"github.com/cloudposse/invctl/pkg/flags"
	"github.com/cloudposse/invctl/pkg/io"
	log "github.com/cloudposse/invctl/pkg/logger"
	"github.com/cloudposse/invctl/pkg/perf"
	"github.com/cloudposse/invctl/pkg/render"
	"github.com/cloudposse/invctl/pkg/schema"
	"github.com/cloudposse/invctl/pkg/ui"
	"github.com/cloudposse/invctl/pkg/version"
)

var (
	rootShort = "Show the host inventory"
	rootLong  = `Show the host inventory as a JSON or YAML dump, an ASCII tree of groups,
or the list of hosts matching a pattern.

Example usage:
  invctl --list
  invctl -i hosts.ini --yaml --merge
  invctl -i hosts.ini 'web:!web2' --list-hosts
  invctl --tree --nodes --depth 2 prod
`
)

// NewRootCmd builds the `invctl [host-pattern]` command.
func NewRootCmd() *cobra.Command {
	parser := newInventoryParser()

	cmd := &cobra.Command{
		Use:           "invctl [host-pattern]",
		Short:         rootShort,
		Long:          rootLong,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInventory(cmd, args, parser)
		},
	}
	cmd.SetVersionTemplate(version.String() + "\n")

	parser.RegisterFlags(cmd)
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errUtils.OptionsError(errUtils.Build(errUtils.ErrInvalidOptions).WithCause(err).Err())
	})

	return cmd
}

// Execute runs the root command with the process arguments.
// This is called by main.main().
func Execute(ctx context.Context) error {
	return executeCommand(ctx, NewRootCmd())
}

// executeCommand runs cmd and prints the usage to stderr on options errors.
func executeCommand(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err != nil && errors.Is(err, errUtils.ErrInvalidOptions) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	}
	return err
}

// normalizeFlagName makes --list an alias of --json.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == flagList {
		name = flagJSON
	}
	return pflag.NormalizedName(name)
}

func runInventory(cmd *cobra.Command, args []string, parser *flags.StandardParser) error {
	fallback := ui.NewFallbackDisplay(cmd.ErrOrStderr())

	opts, err := parseModeOptions(cmd)
	if err != nil {
		return err
	}
	selection, err := render.ResolveMode(args, opts, fallback)
	if err != nil {
		return err
	}

	v := viper.New()
	if err := parser.BindToViper(v); err != nil {
		return err
	}
	configPath, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := config.LoadConfig(v, configPath)
	if err != nil {
		return err
	}
	// Viper splits array flags on commas, which breaks inline host lists.
	if cmd.Flags().Changed(flagInventory) {
		sources, _ := cmd.Flags().GetStringArray(flagInventory)
		cfg.Inventory = sources
	}

	verbosity, _ := cmd.Flags().GetCount(flagVerbose)
	closeLogs, err := setupLogger(cmd, &cfg, verbosity)
	if err != nil {
		return err
	}
	defer closeLogs()

	color := ui.ColorEnabled(cfg.Settings.Terminal.Color, cfg.Settings.Terminal.NoColor)
	ioCtx := io.NewContext(io.WithStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))
	display := ui.NewDisplay(ioCtx, ui.NewStyleSet(color), verbosity > 0)

	if cfg.Settings.Heatmap {
		perf.EnableTracking(true)
		defer func() {
			if err := perf.WriteHeatmap(ioCtx.UI(), color); err != nil {
				log.Debug("Failed to print heatmap", "error", err)
			}
		}()
	}

	log.Debug("Resolved display mode",
		"mode", fmt.Sprintf("%T", selection.Mode),
		"pattern", selection.Pattern,
		"config", cfg.ConfigFileUsed,
	)

	return exec.ExecuteInventory(cmd.Context(), &exec.InventoryParams{
		Config:    &cfg,
		Selection: selection,
		Fs:        afero.NewOsFs(),
		IO:        ioCtx,
		Display:   display,
	})
}

// setupLogger configures the global logger from the logs settings and -v.
// The returned func closes the logs file, if one was opened.
func setupLogger(cmd *cobra.Command, cfg *schema.Configuration, verbosity int) (func(), error) {
	level, err := log.ParseLogLevel(cfg.Logs.Level)
	if err != nil {
		return nil, errUtils.OptionsError(err)
	}

	w, closeFn, err := logsWriter(cmd, cfg.Logs.File)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOutput(w)
	logger.SetLevel(log.LevelForVerbosity(level, verbosity).CharmLevel())
	log.SetDefault(logger)

	return closeFn, nil
}

func logsWriter(cmd *cobra.Command, file string) (stdio.Writer, func(), error) {
	noop := func() {}
	switch strings.TrimSpace(file) {
	case "", "/dev/stderr":
		return cmd.ErrOrStderr(), noop, nil
	case "/dev/stdout":
		return cmd.OutOrStdout(), noop, nil
	case "/dev/null":
		return stdio.Discard, noop, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errUtils.Build(errUtils.ErrOpenLogsFile).
			WithCause(err).
			WithContext("file", file).
			Err()
	}
	return f, func() { _ = f.Close() }, nil
}
