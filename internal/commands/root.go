package commands

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/draftmill/draftmill-go/internal/app"
	"github.com/draftmill/draftmill-go/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	setupLogging()

	root := &cobra.Command{
		Use:           "draftmill",
		Short:         "Draftmill content-generation client",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --session-db into the app-level resolver.
			if dbPath, err := cmd.Flags().GetString("session-db"); err == nil && dbPath != "" {
				app.SetSessionDBOverride(dbPath)
			}
			if base, err := cmd.Flags().GetString("base-url"); err == nil && base != "" {
				setBaseURLOverride(base)
			}
			return nil
		},
	}

	root.PersistentFlags().String("session-db", "", "Override session database path")
	root.PersistentFlags().String("base-url", "", "Override API base URL (default: $DRAFTMILL_BASE_URL)")
	root.Flags().BoolP("version", "v", false, "version for draftmill")

	root.AddCommand(NewLoginCmd())
	root.AddCommand(NewLogoutCmd())
	root.AddCommand(NewWhoamiCmd())
	root.AddCommand(NewGenerateCmd())
	root.AddCommand(NewHistoryCmd())
	root.AddCommand(NewSessionCmd())

	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			log.Error().Err(err).Msg("command failed")
		}
	}
	return err
}

func setupLogging() {
	level := zerolog.WarnLevel
	if v := os.Getenv("DRAFTMILL_LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
