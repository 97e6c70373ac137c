package commands

import (
	"github.com/spf13/cobra"

	"github.com/draftmill/draftmill-go/internal/app"
	"github.com/draftmill/draftmill-go/internal/models"
	"github.com/draftmill/draftmill-go/internal/output"
)

// NewSessionCmd creates the session parent command.
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session utilities",
	}

	cmd.AddCommand(newSessionStatusCmd())
	cmd.AddCommand(newSessionPathCmd())
	return cmd
}

func newSessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show the local session state",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *cmdEnv) error {
				token, err := e.store.Token()
				if err != nil {
					return err
				}
				user, err := e.store.User()
				if err != nil {
					return err
				}

				type resp struct {
					LoggedIn bool         `json:"logged_in"`
					User     *models.User `json:"user,omitempty"`
				}
				return output.PrintSuccess(resp{LoggedIn: token != "", User: user})
			})
		},
	}
}

func newSessionPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "path",
		Short:         "Print the resolved session database path",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.GetSessionDBPath()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Path string `json:"path"`
			}
			return output.PrintSuccess(resp{Path: path})
		},
	}
}
