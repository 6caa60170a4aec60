package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "❌ No .raffle/config.local.json file found\n")
		fmt.Fprintf(r.out, "⚠️  Without config, commands require an explicit --network flag\n")
	} else {
		fmt.Fprintln(r.out, "📋 Current config:")
		if result.Config.Network != "" {
			fmt.Fprintf(r.out, "Network:      %s\n", result.Config.Network)
		} else {
			fmt.Fprintf(r.out, "Network:      %s\n", "(not set)")
		}
		fmt.Fprintf(r.out, "Auto-connect: %t\n", result.Config.AutoConnect)
	}

	if result.SignerType != "" {
		fmt.Fprintf(r.out, "Signer:       %s\n", result.SignerType)
	} else {
		fmt.Fprintf(r.out, "Signer:       %s\n", labelStyle.Sprint("(none configured)"))
	}
	fmt.Fprintf(r.out, "Networks:     %s\n", strings.Join(result.Networks, ", "))

	if result.Network != nil {
		fmt.Fprintln(r.out, "\n🌐 Active network:")
		fmt.Fprintf(r.out, "Name:     %s\n", result.Network.Name)
		fmt.Fprintf(r.out, "Chain ID: %s\n", result.Network.ChainID)
		if result.Network.Simulated {
			fmt.Fprintf(r.out, "RPC:      %s\n", labelStyle.Sprint("(in-process simulated chain)"))
		} else {
			fmt.Fprintf(r.out, "RPC:      %s\n", result.Network.RPCURL)
		}
	}

	fmt.Fprintln(r.out, "\n⛽ Gas limits:")
	fmt.Fprintf(r.out, "upload:      %d\n", result.Gas.Upload)
	fmt.Fprintf(r.out, "instantiate: %d\n", result.Gas.Instantiate)
	actions := make([]string, 0, len(result.Gas.Actions))
	for kind := range result.Gas.Actions {
		actions = append(actions, string(kind))
	}
	sort.Strings(actions)
	for _, action := range actions {
		fmt.Fprintf(r.out, "%-12s %d\n", action+":", result.Gas.ForAction(domain.ActionKind(action)))
	}

	if result.Exists {
		fmt.Fprintf(r.out, "\n📁 config file: %s\n", getRelativePath(result.ConfigPath))
	}
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	if result.Previous != "" && result.Previous != result.Value {
		fmt.Fprintf(r.out, "✅ Set %s to: %s %s\n", result.Key, result.Value, labelStyle.Sprintf("(was %s)", result.Previous))
	} else {
		fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	}
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
