// Package cli is the command-line surface. It renders service results and
// holds no domain logic of its own.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loan-predictor/api"
	"loan-predictor/service"
)

// App bundles the wired services the commands act on.
type App struct {
	Sessions  *service.SessionStore
	Form      *service.FormModel
	Predictor *service.Predictor
	History   *service.HistoryService
	Client    *api.Client
	Logger    *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "loan-predictor",
		Short:         "Loan payback prediction client",
		Long:          "Client for the loan risk scoring service: authenticate, submit applications, and review past predictions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.Sessions.OnExpired(func() {
		fmt.Fprintln(root.ErrOrStderr(), "Your session has expired. Please log in again.")
	})

	root.AddCommand(
		newLoginCmd(app),
		newSignupCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newPredictCmd(app),
		newHistoryCmd(app),
		newModelInfoCmd(app),
	)
	return root
}

// requireSession guards commands that need an authenticated user.
func requireSession(app *App) error {
	if !app.Sessions.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'loan-predictor login' first")
	}
	return nil
}
