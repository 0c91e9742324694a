package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past predictions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			result, err := app.History.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newModelInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "model-info",
		Short: "Show scoring model metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.Client.ModelInfo(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Accuracy:         %s\n", info.Accuracy)
			fmt.Fprintf(out, "AUC:              %s\n", info.AUC)
			fmt.Fprintf(out, "Training samples: %s\n", info.TrainingSamples)
			fmt.Fprintf(out, "Top feature:      %s\n", info.TopFeature)
			return nil
		},
	}
}
