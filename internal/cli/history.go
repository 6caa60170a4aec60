package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var network string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List every deployment made from this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				Network: network,
			})
			if err != nil {
				return err
			}

			return render.NewHistoryRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&network, "on", "", "Only show deployments on this network")

	return cmd
}

// NewTxsCmd creates the txs command
func NewTxsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "txs",
		Short: "List transactions sent from this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			txs, err := app.ListTransactions.Run(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return render.NewTransactionsRenderer(cmd.OutOrStdout()).Render(txs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of transactions to show (0 for all)")

	return cmd
}
