package commands

import (
	"github.com/spf13/cobra"

	"github.com/draftmill/draftmill-go/internal/output"
)

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Clear the persisted session",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *cmdEnv) error {
				if err := e.store.Clear(); err != nil {
					return err
				}
				type resp struct {
					LoggedOut bool `json:"logged_out"`
				}
				return output.PrintSuccess(resp{LoggedOut: true})
			})
		},
	}
}
