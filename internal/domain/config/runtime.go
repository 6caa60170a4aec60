package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration

	// Resolved configurations
	Project *ProjectConfig
	Gas     GasSchedule
}

// Network represents network configuration
type Network struct {
	Name      string `json:"name"`
	ChainID   string `json:"chainId"`
	RPCURL    string `json:"rpcUrl"`
	Simulated bool   `json:"simulated,omitempty"`
}

// SimulatedNetwork is the built-in in-memory chain
const SimulatedNetwork = "simulated"
