package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/draftmill/draftmill-go/internal/controller"
	"github.com/draftmill/draftmill-go/internal/models"
	"github.com/draftmill/draftmill-go/internal/output"
	"github.com/draftmill/draftmill-go/internal/retry"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recent generations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			return withEnv(func(e *cmdEnv) error {
				items, ok := controller.Run(cmd.Context(), e.ctrl, func(ctx context.Context) ([]models.Generation, error) {
					return retry.Do(ctx, e.exec, func(ctx context.Context) ([]models.Generation, error) {
						return e.client.ListGenerations(ctx, limit)
					})
				})
				if !ok {
					return e.reportFailure()
				}

				type resp struct {
					Items []models.Generation `json:"items"`
					Count int                 `json:"count"`
				}
				return output.PrintSuccess(resp{Items: items, Count: len(items)})
			})
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of generations to list")
	return cmd
}
