package cmd

import (
	"github.com/spf13/cobra"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/config"
	"github.com/cloudposse/invctl/pkg/flags"
	"github.com/cloudposse/invctl/pkg/render"
)

const (
	flagList      = "list"
	flagJSON      = "json"
	flagPretty    = "pretty"
	flagYAML      = "yaml"
	flagMerge     = "merge"
	flagTree      = "tree"
	flagNodes     = "nodes"
	flagDepth     = "depth"
	flagListHosts = "list-hosts"
	flagHost      = "host"

	flagInventory         = "inventory"
	flagVaultPasswordFile = "vault-password-file"
	flagAskVaultPass      = "ask-vault-pass"
	flagConfig            = "config"
	flagVerbose           = "verbose"
	flagLogsLevel         = "logs-level"
	flagLogsFile          = "logs-file"
	flagNoColor           = "no-color"
	flagHeatmap           = "heatmap"
)

// newInventoryParser declares every flag of the root command. Mode flags are
// read straight from the command; the rest are bound to config keys.
func newInventoryParser() *flags.StandardParser {
	return flags.NewStandardParser(
		// Modes.
		flags.WithBoolFlag(flagJSON, "j", false, "Output the whole inventory as JSON (alias --list)"),
		flags.WithBoolFlag(flagPretty, "p", false, "Output the whole inventory as indented JSON"),
		flags.WithBoolFlag(flagYAML, "y", false, "Output the whole inventory as YAML"),
		flags.WithBoolFlag(flagMerge, "m", false, "Merge group vars into host vars in --list and --yaml output"),
		flags.WithBoolFlag(flagTree, "t", false, "Print the group tree starting at the pattern group"),
		flags.WithBoolFlag(flagNodes, "n", false, "Include hosts in --tree output"),
		flags.WithIntFlag(flagDepth, "d", 0, "Limit --tree output to this group depth"),
		flags.WithBoolFlag(flagListHosts, "", false, "List the hosts matching the pattern"),
		flags.WithStringFlag(flagHost, "", "", "Output variables of a single host"),

		// Sources.
		flags.WithStringSliceFlag(flagInventory, "i", nil, "Inventory source: file, directory or comma separated host list (repeatable)"),
		flags.WithViperKey(flagInventory, config.InventoryKey),
		flags.WithEnvVars(flagInventory, config.EnvPrefix+"_INVENTORY", "ANSIBLE_INVENTORY"),
		flags.WithStringFlag(flagVaultPasswordFile, "", "", "File holding the vault password"),
		flags.WithViperKey(flagVaultPasswordFile, config.VaultPasswordFileKey),
		flags.WithEnvVars(flagVaultPasswordFile, config.EnvPrefix+"_VAULT_PASSWORD_FILE", "ANSIBLE_VAULT_PASSWORD_FILE"),
		flags.WithBoolFlag(flagAskVaultPass, "", false, "Prompt for the vault password"),
		flags.WithViperKey(flagAskVaultPass, config.VaultAskPassKey),

		// Ambient.
		flags.WithStringFlag(flagConfig, "", "", "Path to the invctl.yaml CLI config"),
		flags.WithCountFlag(flagVerbose, "v", "Increase verbosity (repeatable)"),
		flags.WithStringFlag(flagLogsLevel, "", "", "Log level: Trace, Debug, Info, Warning or Off"),
		flags.WithViperKey(flagLogsLevel, config.LogsLevelKey),
		flags.WithEnvVars(flagLogsLevel, config.EnvPrefix+"_LOGS_LEVEL"),
		flags.WithStringFlag(flagLogsFile, "", "", "Log destination: /dev/stderr, /dev/stdout, /dev/null or a file path"),
		flags.WithViperKey(flagLogsFile, config.LogsFileKey),
		flags.WithEnvVars(flagLogsFile, config.EnvPrefix+"_LOGS_FILE"),
		flags.WithBoolFlag(flagNoColor, "", false, "Disable colored output"),
		flags.WithViperKey(flagNoColor, config.NoColorKey),
		flags.WithEnvVars(flagNoColor, config.EnvPrefix+"_NO_COLOR", "NO_COLOR"),
		flags.WithBoolFlag(flagHeatmap, "", false, "Print a performance heatmap to stderr on exit"),
		flags.WithViperKey(flagHeatmap, config.HeatmapKey),
		flags.WithHidden(flagHeatmap),
	)
}

// parseModeOptions reads the display mode flags.
func parseModeOptions(cmd *cobra.Command) (render.Options, error) {
	fs := cmd.Flags()

	opts := render.Options{}
	var err error
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{flagJSON, &opts.JSON},
		{flagPretty, &opts.Pretty},
		{flagYAML, &opts.YAML},
		{flagMerge, &opts.Merge},
		{flagTree, &opts.Tree},
		{flagNodes, &opts.Nodes},
		{flagListHosts, &opts.ListHosts},
	} {
		if *b.dst, err = fs.GetBool(b.name); err != nil {
			return opts, errUtils.OptionsError(errUtils.Build(errUtils.ErrInvalidOptions).WithCause(err).Err())
		}
	}

	if opts.Host, err = fs.GetString(flagHost); err != nil {
		return opts, errUtils.OptionsError(errUtils.Build(errUtils.ErrInvalidOptions).WithCause(err).Err())
	}

	if fs.Changed(flagDepth) {
		depth, err := fs.GetInt(flagDepth)
		if err != nil {
			return opts, errUtils.OptionsError(errUtils.Build(errUtils.ErrInvalidOptions).WithCause(err).Err())
		}
		opts.Depth = &depth
	}

	return opts, nil
}
