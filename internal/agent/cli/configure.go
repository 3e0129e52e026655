package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/agent/config"
)

// NewConfigureCmd создаёт команду сохранения адреса сервера в профиле.
//
// Без флагов печатает текущий профиль.
//
//	projecthub configure --server http://127.0.0.1:8000
func NewConfigureCmd(app *App) *cobra.Command {
	var (
		server   string
		insecure bool
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Сохранить адрес сервера в профиле",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.ProfilePath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.ProfilePath = p
			}
			if app.Profile == nil {
				app.Profile = &config.Profile{}
			}

			changed := false
			if cmd.Flags().Changed("server") {
				app.Profile.ServerURL = server
				changed = true
			}
			if cmd.Flags().Changed("insecure") {
				app.Profile.Insecure = insecure
				changed = true
			}
			if !changed {
				return printJSON(cmd.OutOrStdout(), app.Profile)
			}

			if err := SaveProfile(app.ProfilePath, app.Profile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved profile %s\n", app.ProfilePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server base URL to persist")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "persist TLS verification skip")

	return cmd
}
