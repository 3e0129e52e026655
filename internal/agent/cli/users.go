package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/models"
)

// NewUsersCmd создаёт группу команд для работы с пользователями.
func NewUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Пользователи",
	}

	cmd.AddCommand(
		newUserCreateCmd(app),
		newUserListCmd(app),
		newUserSearchCmd(app),
		newUserGetCmd(app),
		newUserDeleteCmd(app),
		newUserDeleteAllCmd(app),
	)
	return cmd
}

// newUserCreateCmd — POST /users.
//
//	projecthub users create --nickname neo --fullname "Thomas Anderson" --email neo@matrix.io --class 10.5
func newUserCreateCmd(app *App) *cobra.Command {
	var (
		req        models.CreateUserRequest
		speciality string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("speciality") {
				req.Speciality = &speciality
			}

			u, err := app.Client().CreateUser(req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}

	cmd.Flags().StringVar(&req.Nickname, "nickname", "", "unique nickname")
	cmd.Flags().StringVar(&req.Fullname, "fullname", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "e-mail")
	cmd.Flags().Float64Var(&req.Class, "class", 0, "class (may be fractional)")
	cmd.Flags().StringVar(&speciality, "speciality", "", "speciality")
	_ = cmd.MarkFlagRequired("nickname")
	_ = cmd.MarkFlagRequired("fullname")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Все пользователи",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Client().SearchUsers("")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
}

// newUserSearchCmd ищет по ID (если q — число), nickname, fullname и email.
func newUserSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <q>",
		Short: "Поиск пользователей",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Client().SearchUsers(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
}

func newUserGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Пользователь по ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := app.Client().GetUser(id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
}

// newUserDeleteCmd удаляет пользователя, сервер убирает его из авторов проектов.
func newUserDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить пользователя",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Client().DeleteUser(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", id)
			return nil
		},
	}
}

func newUserDeleteAllCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Удалить всех пользователей (авторы всех проектов обнуляются)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all users without --yes")
			}
			n, err := app.Client().DeleteAllUsers()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d users\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
