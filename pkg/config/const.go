package config

const (
	CliConfigFileName       = "invctl"
	EnvPrefix               = "INVCTL"
	SystemDirConfigFilePath = "/etc/invctl"
	XDGConfigDirName        = "invctl"

	// DefaultInventoryPath is used when no inventory is given anywhere.
	DefaultInventoryPath = "/etc/ansible/hosts"

	HashBehaviourReplace = "replace"
	HashBehaviourMerge   = "merge"
)

// Viper keys.
const (
	InventoryKey         = "inventory"
	HashBehaviourKey     = "hash_behaviour"
	VaultPasswordFileKey = "vault.password_file"
	VaultAskPassKey      = "vault.ask_pass"
	LogsLevelKey         = "logs.level"
	LogsFileKey          = "logs.file"
	ColorKey             = "settings.terminal.color"
	NoColorKey           = "settings.terminal.no_color"
	HeatmapKey           = "settings.heatmap"
)
