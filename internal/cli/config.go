package cli

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the local config",
		Long: `Show the local config stored in .raffle/config.local.json together with
the network, signer and gas limits it resolves to.

The local config holds the default network used when --network is not
given, and whether the wallet reconnects automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
		},
	}

	cmd.AddCommand(NewConfigSetCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	keys := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })

	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a local config value",
		Long: `Set a value in .raffle/config.local.json.
Available keys: ` + strings.Join(keys, ", ") + `

Examples:
  raffle config set network pulsar-3
  raffle config set network simulated
  raffle config set autoConnect false`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return keys, cobra.ShellCompDirectiveNoFileComp
			case 1:
				if key, _ := config.ParseConfigKey(args[0]); key == config.ConfigKeyAutoConnect {
					return []string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp
				}
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{
				Key:   args[0],
				Value: args[1],
			})
			if err != nil {
				return err
			}

			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
		},
	}
}
