package flags

import (
	"github.com/spf13/pflag"
)

// Flag is a CLI flag that can be registered on a cobra command and bound to Viper.
type Flag interface {
	GetName() string
	GetShorthand() string
	GetDescription() string
	GetDefault() interface{}
	// GetViperKey returns the config key the flag is bound to, or "" for
	// flags that only exist on the command line.
	GetViperKey() string
	GetEnvVars() []string
	IsHidden() bool

	register(fs *pflag.FlagSet)
}

// flagBase holds the fields shared by every flag type.
type flagBase struct {
	Name        string
	Shorthand   string
	Description string
	ViperKey    string
	EnvVars     []string
	Hidden      bool
}

func (f *flagBase) GetName() string        { return f.Name }
func (f *flagBase) GetShorthand() string   { return f.Shorthand }
func (f *flagBase) GetDescription() string { return f.Description }
func (f *flagBase) GetViperKey() string    { return f.ViperKey }
func (f *flagBase) GetEnvVars() []string   { return f.EnvVars }
func (f *flagBase) IsHidden() bool         { return f.Hidden }

// StringFlag is a string-valued flag.
type StringFlag struct {
	flagBase
	Default string
}

func (f *StringFlag) GetDefault() interface{} { return f.Default }

func (f *StringFlag) register(fs *pflag.FlagSet) {
	fs.StringP(f.Name, f.Shorthand, f.Default, f.Description)
}

// BoolFlag is a boolean flag.
type BoolFlag struct {
	flagBase
	Default bool
}

func (f *BoolFlag) GetDefault() interface{} { return f.Default }

func (f *BoolFlag) register(fs *pflag.FlagSet) {
	fs.BoolP(f.Name, f.Shorthand, f.Default, f.Description)
}

// IntFlag is an integer flag.
type IntFlag struct {
	flagBase
	Default int
}

func (f *IntFlag) GetDefault() interface{} { return f.Default }

func (f *IntFlag) register(fs *pflag.FlagSet) {
	fs.IntP(f.Name, f.Shorthand, f.Default, f.Description)
}

// CountFlag is an integer flag incremented once per occurrence (-vvv).
type CountFlag struct {
	flagBase
}

func (f *CountFlag) GetDefault() interface{} { return 0 }

func (f *CountFlag) register(fs *pflag.FlagSet) {
	fs.CountP(f.Name, f.Shorthand, f.Description)
}

// StringSliceFlag is a repeatable string flag. Values are kept verbatim, commas
// included, so `-i host1,host2,` survives as a single value.
type StringSliceFlag struct {
	flagBase
	Default []string
}

func (f *StringSliceFlag) GetDefault() interface{} { return f.Default }

func (f *StringSliceFlag) register(fs *pflag.FlagSet) {
	fs.StringArrayP(f.Name, f.Shorthand, f.Default, f.Description)
}
