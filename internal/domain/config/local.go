package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LocalConfig is .raffle/config.local.json: per-checkout state that does not
// belong in raffle.toml
type LocalConfig struct {
	Network     string `json:"network"`
	AutoConnect bool   `json:"autoConnect"`
}

// ConfigKey names a LocalConfig field as written in the file
type ConfigKey string

const (
	ConfigKeyNetwork     ConfigKey = "network"
	ConfigKeyAutoConnect ConfigKey = "autoConnect"
)

// DefaultLocalConfig has no default network and auto-connect off
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys lists the keys accepted by `raffle config set`
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyAutoConnect,
	}
}

// ParseConfigKey matches key case-insensitively
func ParseConfigKey(key string) (ConfigKey, bool) {
	for _, k := range ValidConfigKeys() {
		if strings.EqualFold(string(k), key) {
			return k, true
		}
	}
	return "", false
}

// Set assigns a string value to key. Network names are not checked here.
func (c *LocalConfig) Set(key ConfigKey, value string) error {
	switch key {
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyAutoConnect:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		c.AutoConnect = enabled
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Get returns the value of key formatted for display
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyAutoConnect:
		return strconv.FormatBool(c.AutoConnect)
	}
	return ""
}
