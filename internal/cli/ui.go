package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/raffle-cli/internal/cli/tui"
)

// NewUICmd creates the ui command
func NewUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive raffle screen",
		Long: `Open a terminal screen showing the generated maps. Connect the wallet
with 'c', then generate maps with 'g'.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoTimeout: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), app.Lifecycle, app.OpenSession.Run)
		},
	}

	return autoConnect(cmd)
}
