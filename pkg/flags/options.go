package flags

// Option is a functional option for configuring a StandardParser.
//
// Usage:
//
//	parser := flags.NewStandardParser(
//	    flags.WithStringSliceFlag("inventory", "i", nil, "Inventory source"),
//	    flags.WithBoolFlag("yaml", "y", false, "Use YAML format"),
//	    flags.WithEnvVars("inventory", "INVCTL_INVENTORY", "ANSIBLE_INVENTORY"),
//	)
type Option func(*parserConfig)

type parserConfig struct {
	registry *FlagRegistry
}

// WithStringFlag adds a string flag.
func WithStringFlag(name, shorthand, defaultValue, description string) Option {
	return func(cfg *parserConfig) {
		cfg.registry.Register(&StringFlag{
			flagBase: flagBase{Name: name, Shorthand: shorthand, Description: description},
			Default:  defaultValue,
		})
	}
}

// WithBoolFlag adds a boolean flag.
func WithBoolFlag(name, shorthand string, defaultValue bool, description string) Option {
	return func(cfg *parserConfig) {
		cfg.registry.Register(&BoolFlag{
			flagBase: flagBase{Name: name, Shorthand: shorthand, Description: description},
			Default:  defaultValue,
		})
	}
}

// WithIntFlag adds an integer flag.
func WithIntFlag(name, shorthand string, defaultValue int, description string) Option {
	return func(cfg *parserConfig) {
		cfg.registry.Register(&IntFlag{
			flagBase: flagBase{Name: name, Shorthand: shorthand, Description: description},
			Default:  defaultValue,
		})
	}
}

// WithCountFlag adds a counting flag such as -v.
func WithCountFlag(name, shorthand, description string) Option {
	return func(cfg *parserConfig) {
		cfg.registry.Register(&CountFlag{
			flagBase: flagBase{Name: name, Shorthand: shorthand, Description: description},
		})
	}
}

// WithStringSliceFlag adds a repeatable string flag.
func WithStringSliceFlag(name, shorthand string, defaultValue []string, description string) Option {
	return func(cfg *parserConfig) {
		cfg.registry.Register(&StringSliceFlag{
			flagBase: flagBase{Name: name, Shorthand: shorthand, Description: description},
			Default:  defaultValue,
		})
	}
}

// WithViperKey binds a previously added flag to a config key.
func WithViperKey(name, key string) Option {
	return func(cfg *parserConfig) {
		if base := baseOf(cfg.registry.Get(name)); base != nil {
			base.ViperKey = key
		}
	}
}

// WithEnvVars binds a previously added flag to environment variables, highest
// priority first. Flags without a Viper key are keyed by their name.
func WithEnvVars(name string, envVars ...string) Option {
	return func(cfg *parserConfig) {
		base := baseOf(cfg.registry.Get(name))
		if base == nil {
			return
		}
		if base.ViperKey == "" {
			base.ViperKey = name
		}
		base.EnvVars = append(base.EnvVars, envVars...)
	}
}

// WithHidden hides a previously added flag from help output.
func WithHidden(name string) Option {
	return func(cfg *parserConfig) {
		if base := baseOf(cfg.registry.Get(name)); base != nil {
			base.Hidden = true
		}
	}
}

func baseOf(f Flag) *flagBase {
	switch t := f.(type) {
	case *StringFlag:
		return &t.flagBase
	case *BoolFlag:
		return &t.flagBase
	case *IntFlag:
		return &t.flagBase
	case *CountFlag:
		return &t.flagBase
	case *StringSliceFlag:
		return &t.flagBase
	default:
		return nil
	}
}
