package schema

// Configuration represents the schema of the `invctl.yaml` CLI config.
type Configuration struct {
	Inventory     []string `yaml:"inventory" json:"inventory" mapstructure:"inventory"`
	HashBehaviour string   `yaml:"hash_behaviour" json:"hash_behaviour" mapstructure:"hash_behaviour"`
	Vault         Vault    `yaml:"vault,omitempty" json:"vault,omitempty" mapstructure:"vault"`
	Logs          Logs     `yaml:"logs,omitempty" json:"logs,omitempty" mapstructure:"logs"`
	Settings      Settings `yaml:"settings,omitempty" json:"settings,omitempty" mapstructure:"settings"`

	// ConfigFileUsed is the absolute path of the loaded config file, empty when
	// only defaults, env and flags were used.
	ConfigFileUsed string `yaml:"-" json:"-" mapstructure:"-"`
}

type Vault struct {
	PasswordFile string `yaml:"password_file" json:"password_file" mapstructure:"password_file"`
	AskPass      bool   `yaml:"ask_pass" json:"ask_pass" mapstructure:"ask_pass"`
}

type Logs struct {
	File  string `yaml:"file" json:"file" mapstructure:"file"`
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

type Settings struct {
	Terminal Terminal `yaml:"terminal,omitempty" json:"terminal,omitempty" mapstructure:"terminal"`
	Heatmap  bool     `yaml:"heatmap" json:"heatmap" mapstructure:"heatmap"`
}

type Terminal struct {
	// Color is one of "auto", "always" or "never".
	Color   string `yaml:"color" json:"color" mapstructure:"color"`
	NoColor bool   `yaml:"no_color" json:"no_color" mapstructure:"no_color"`
}
