package flags

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cloudposse/invctl/pkg/perf"
)

// StandardParser registers a set of flags on a cobra command and binds the
// config-backed ones to Viper so that precedence is flag > env > config > default.
type StandardParser struct {
	registry *FlagRegistry
	cmd      *cobra.Command
	fs       *pflag.FlagSet
}

// NewStandardParser creates a parser with the given flags.
func NewStandardParser(opts ...Option) *StandardParser {
	cfg := &parserConfig{registry: NewFlagRegistry()}
	for _, opt := range opts {
		opt(cfg)
	}
	return &StandardParser{registry: cfg.registry}
}

// Registry exposes the registered flags.
func (p *StandardParser) Registry() *FlagRegistry {
	return p.registry
}

// RegisterFlags adds the flags to the command's local flag set.
func (p *StandardParser) RegisterFlags(cmd *cobra.Command) {
	p.register(cmd, cmd.Flags())
}

// RegisterPersistentFlags adds the flags as persistent flags.
func (p *StandardParser) RegisterPersistentFlags(cmd *cobra.Command) {
	p.register(cmd, cmd.PersistentFlags())
}

func (p *StandardParser) register(cmd *cobra.Command, fs *pflag.FlagSet) {
	p.cmd = cmd
	p.fs = fs
	for _, f := range p.registry.All() {
		if fs.Lookup(f.GetName()) != nil {
			continue
		}
		f.register(fs)
		if f.IsHidden() {
			_ = fs.MarkHidden(f.GetName())
		}
	}
}

// BindToViper binds every flag that has a Viper key: default value, env vars
// and the pflag itself.
func (p *StandardParser) BindToViper(v *viper.Viper) error {
	defer perf.Track("flags.StandardParser.BindToViper")()

	if p.fs == nil {
		return fmt.Errorf("flags must be registered before binding to viper")
	}
	for _, f := range p.registry.All() {
		key := f.GetViperKey()
		if key == "" {
			continue
		}
		if err := bindFlagToViper(v, key, f); err != nil {
			return err
		}
		if pf := p.fs.Lookup(f.GetName()); pf != nil {
			if err := v.BindPFlag(key, pf); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", f.GetName(), err)
			}
		}
	}
	return nil
}

// bindFlagToViper sets the flag default in Viper and binds its env vars.
func bindFlagToViper(v *viper.Viper, viperKey string, flag Flag) error {
	if def := flag.GetDefault(); def != nil {
		v.SetDefault(viperKey, def)
	}

	envVars := flag.GetEnvVars()
	if len(envVars) == 0 {
		return nil
	}
	args := make([]string, 0, len(envVars)+1)
	args = append(args, viperKey)
	args = append(args, envVars...)
	if err := v.BindEnv(args...); err != nil {
		return fmt.Errorf("failed to bind env vars for flag %s: %w", flag.GetName(), err)
	}
	return nil
}
