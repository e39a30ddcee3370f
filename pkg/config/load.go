package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/invctl/errors"
	log "github.com/cloudposse/invctl/pkg/logger"
	"github.com/cloudposse/invctl/pkg/perf"
	"github.com/cloudposse/invctl/pkg/schema"
)

// LoadConfig reads `invctl.yaml` and returns the effective configuration.
//
// When configPath is set only that file is read and it must exist. Otherwise
// config is merged from the following locations (lower to higher priority):
// system dir (`/etc/invctl`), `$XDG_CONFIG_HOME/invctl`, current directory.
// ENV vars and command-line flags bound to v take precedence over files.
func LoadConfig(v *viper.Viper, configPath string) (schema.Configuration, error) {
	defer perf.Track("config.LoadConfig")()

	var cfg schema.Configuration

	v.SetConfigType("yaml")
	v.SetTypeByDefaultValue(true)
	setDefaultConfiguration(v)
	bindAmbientEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return cfg, errUtils.Build(errUtils.ErrLoadConfig).
				WithCause(err).
				WithContext("file", configPath).
				WithHint("check that the file passed with --config exists and is valid YAML").
				Err()
		}
	} else {
		for _, dir := range searchPaths() {
			if err := mergeConfig(v, dir, CliConfigFileName); err != nil {
				return cfg, err
			}
		}
	}

	// Env vars and config strings hold a comma separated inventory list.
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return cfg, errUtils.Build(errUtils.ErrLoadConfig).WithCause(err).Err()
	}

	cfg.Inventory = inventorySources(cfg.Inventory)
	cfg.HashBehaviour = strings.ToLower(strings.TrimSpace(cfg.HashBehaviour))
	if cfg.HashBehaviour != HashBehaviourReplace && cfg.HashBehaviour != HashBehaviourMerge {
		return cfg, errUtils.OptionsError(errUtils.Build(errUtils.ErrInvalidHashBehaviour).
			WithContext("hash_behaviour", cfg.HashBehaviour).
			WithHintf("valid values are %q and %q", HashBehaviourReplace, HashBehaviourMerge).
			Err())
	}

	if used := v.ConfigFileUsed(); used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			used = abs
		}
		cfg.ConfigFileUsed = used
		log.Debug("Loaded CLI config", "file", used)
	} else {
		log.Debug("'invctl.yaml' CLI config was not found, using defaults", "paths", searchPaths())
	}

	return cfg, nil
}

// setDefaultConfiguration sets defaults for keys that have no flag.
func setDefaultConfiguration(v *viper.Viper) {
	v.SetDefault(HashBehaviourKey, HashBehaviourReplace)
	v.SetDefault(LogsLevelKey, "Warning")
	v.SetDefault(LogsFileKey, "/dev/stderr")
	v.SetDefault(ColorKey, "auto")
	v.SetDefault(VaultAskPassKey, false)
}

// bindAmbientEnv binds keys that are configurable by env but have no flag.
func bindAmbientEnv(v *viper.Viper) {
	_ = v.BindEnv(HashBehaviourKey, EnvPrefix+"_HASH_BEHAVIOUR", "ANSIBLE_HASH_BEHAVIOUR")
	_ = v.BindEnv(ColorKey, EnvPrefix+"_COLOR")
	_ = v.BindEnv(VaultAskPassKey, EnvPrefix+"_ASK_VAULT_PASS", "ANSIBLE_ASK_VAULT_PASS")
}

// searchPaths returns config directories from lowest to highest priority.
func searchPaths() []string {
	paths := []string{SystemDirConfigFilePath}
	if dir := xdgConfigDir(); dir != "" {
		paths = append(paths, dir)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, wd)
	}
	return paths
}

// xdgConfigDir honors XDG_CONFIG_HOME set after process start, which the
// cached value in the xdg package would miss.
func xdgConfigDir() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, XDGConfigDirName)
	}
	if xdg.ConfigHome == "" {
		return ""
	}
	return filepath.Join(xdg.ConfigHome, XDGConfigDirName)
}

// mergeConfig merges `<path>/<fileName>.yaml` when present.
func mergeConfig(v *viper.Viper, path string, fileName string) error {
	for _, ext := range []string{".yaml", ".yml"} {
		file := filepath.Join(path, fileName+ext)
		if _, err := os.Stat(file); err != nil {
			continue
		}
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return errUtils.Build(errUtils.ErrLoadConfig).
				WithCause(err).
				WithContext("file", file).
				Err()
		}
		log.Trace("Merged CLI config", "file", file)
		return nil
	}
	return nil
}

// inventorySources trims the decoded source list and falls back to the
// default inventory when it is empty.
func inventorySources(raw []string) []string {
	sources := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	if len(sources) == 0 {
		sources = []string{DefaultInventoryPath}
	}
	return sources
}
