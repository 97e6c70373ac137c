package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/draftmill/draftmill-go/internal/controller"
	"github.com/draftmill/draftmill-go/internal/models"
	"github.com/draftmill/draftmill-go/internal/output"
	"github.com/draftmill/draftmill-go/internal/retry"
)

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the signed-in account",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *cmdEnv) error {
				user, ok := controller.Run(cmd.Context(), e.ctrl, func(ctx context.Context) (*models.User, error) {
					return retry.Do(ctx, e.exec, func(ctx context.Context) (*models.User, error) {
						return e.client.Me(ctx)
					})
				})
				if !ok {
					return e.reportFailure()
				}
				return output.PrintSuccess(user)
			})
		},
	}
}
