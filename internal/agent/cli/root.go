// Package cli реализует командный интерфейс (CLI) клиентского приложения projecthub.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд (users, projects, configure, version);
//   - разбор аргументов и флагов командной строки;
//   - загрузку локального профиля с адресом сервера;
//   - выполнение запросов к серверу и вывод результата в JSON.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/agent/config"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:8000").
	ServerURL string
	// Insecure отключает проверку TLS-сертификата.
	Insecure bool

	// ProfilePath — путь к файлу профиля.
	ProfilePath string
	// Profile — загруженный профиль. Может быть nil до PersistentPreRunE.
	Profile *config.Profile
}

// Client создаёт HTTP-клиент для текущего сервера.
func (a *App) Client() *api.Client {
	return NewAPIClient(a.ServerURL, a.Insecure)
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// В PersistentPreRunE загружается профиль и выбирается адрес сервера:
// флаг --server, затем PROJECTHUB_SERVER, затем профиль.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	var (
		serverFlag  string
		insecure    bool
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "projecthub",
		Short: "projecthub CLI — пользователи и проекты",
		Long: `projecthub CLI.

Команды:
  users      Пользователи: create, list, search, get, delete, delete-all
  projects   Проекты: create, list, get, update, delete, delete-all, search
  configure  Сохранить адрес сервера в профиле
  version    Версия и дата сборки

Примеры:
  projecthub configure --server http://127.0.0.1:8000
  projecthub users create --nickname neo --fullname "Thomas Anderson" --email neo@matrix.io
  projecthub projects create --title Zion --body "last city" --author 1 --author 2
  projecthub projects update 3 --add-author 4
  projecthub --server http://other:8000 projects search zion
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if profilePath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				profilePath = p
			}
			app.ProfilePath = profilePath

			prof, err := config.Load(app.ProfilePath)
			if err != nil {
				return fmt.Errorf("load profile %s: %w", app.ProfilePath, err)
			}
			app.Profile = prof
			app.ServerURL = config.ResolveServerURL(serverFlag, prof)
			app.Insecure = insecure || prof.Insecure
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&serverFlag, "server", "", "server base URL (default from profile or "+config.DefaultServerURL+")")
	cmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	cmd.PersistentFlags().StringVar(&profilePath, "config", "", "profile path (default ~/.projecthub/config.json)")

	cmd.AddCommand(NewUsersCmd(app))
	cmd.AddCommand(NewProjectsCmd(app))
	cmd.AddCommand(NewConfigureCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
