package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/draftmill/draftmill-go/internal/api"
	"github.com/draftmill/draftmill-go/internal/controller"
	"github.com/draftmill/draftmill-go/internal/models"
	"github.com/draftmill/draftmill-go/internal/output"
	"github.com/draftmill/draftmill-go/internal/retry"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "generate [prompt]",
		Short:         "Generate content for a prompt",
		Long:          `Submits a generation request. Transient failures are retried with exponential backoff; the request id stays stable across retries so the server can deduplicate.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			format, _ := cmd.Flags().GetString("format")

			return withEnv(func(e *cmdEnv) error {
				req := api.GenerateRequest{
					Prompt:    prompt,
					Format:    format,
					RequestID: uuid.NewString(),
				}

				e.exec.OnRetry = func(attempt int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Retrying (attempt %d)...\n", attempt)
				}

				gen, ok := controller.Run(cmd.Context(), e.ctrl, func(ctx context.Context) (*models.Generation, error) {
					return retry.Do(ctx, e.exec, func(ctx context.Context) (*models.Generation, error) {
						return e.client.Generate(ctx, req)
					})
				})
				if !ok {
					return e.reportFailure()
				}
				return output.PrintSuccess(gen)
			})
		},
	}

	cmd.Flags().String("format", "", "Output format (e.g. markdown, html)")
	return cmd
}
