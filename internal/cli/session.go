package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// NewConnectCmd creates the connect command
func NewConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Connect the configured signer and remember it",
		Long: `Connect the signer configured in raffle.toml. Later commands reconnect
automatically until you run 'raffle disconnect'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.Lifecycle.Connect(cmd.Context()); err != nil {
				return err
			}

			signer := app.Lifecycle.Signer()
			if signer == nil {
				return fmt.Errorf("%w: connection did not complete", domain.ErrNoSigner)
			}
			render.NewSessionRenderer(cmd.OutOrStdout()).RenderConnected(signer)
			return nil
		},
	}
}

// NewDisconnectCmd creates the disconnect command
func NewDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the signer connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.Lifecycle.Disconnect(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Disconnected, auto-connect disabled"))
			return nil
		},
	}
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the wallet connection and deployment state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SessionStatus.Run(cmd.Context(), usecase.SessionStatusParams{
				CheckChain: check,
			})
			if err != nil {
				return err
			}

			return render.NewSessionRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Probe the network and look up the deployed contract")

	return autoConnect(cmd)
}
