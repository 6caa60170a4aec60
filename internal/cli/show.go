package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the latest deployment record",
		Long: `Show the code id, code hash and address of the latest deployment.

Examples:
  raffle show
  raffle show --format json
  raffle show --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowDeployment.Run(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("no deployment found, run `raffle deploy` first")
				}
				return fmt.Errorf("failed to load deployment: %w", err)
			}

			return render.NewDeploymentRenderer(cmd.OutOrStdout(), format).Render(result)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatText, "Output format: text, json or yaml")

	return cmd
}
