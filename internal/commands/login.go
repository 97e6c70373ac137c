package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftmill/draftmill-go/internal/api"
	"github.com/draftmill/draftmill-go/internal/controller"
	"github.com/draftmill/draftmill-go/internal/output"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "login",
		Short:         "Sign in and persist the session",
		Long:          `Exchanges credentials for a session token and stores it locally. The password is read from --password or $DRAFTMILL_PASSWORD.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("DRAFTMILL_PASSWORD")
			}
			if email == "" || password == "" {
				return cmdErr(fmt.Errorf("email and password are required"))
			}

			return withEnv(func(e *cmdEnv) error {
				// Login is not idempotent; it runs once, no retry schedule.
				res, ok := controller.Run(cmd.Context(), e.ctrl, func(ctx context.Context) (*api.LoginResult, error) {
					return e.client.Login(ctx, email, password)
				})
				if !ok {
					return e.reportFailure()
				}

				if err := e.store.SetToken(res.Token); err != nil {
					return err
				}
				if err := e.store.SetUser(res.User); err != nil {
					return err
				}
				return output.PrintSuccess(res.User)
			})
		},
	}

	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (default: $DRAFTMILL_PASSWORD)")
	return cmd
}
