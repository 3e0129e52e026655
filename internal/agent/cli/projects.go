package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/models"
)

// NewProjectsCmd создаёт группу команд для работы с проектами.
func NewProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Проекты",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectListCmd(app),
		newProjectGetCmd(app),
		newProjectUpdateCmd(app),
		newProjectDeleteCmd(app),
		newProjectDeleteAllCmd(app),
		newProjectSearchCmd(app),
	)
	return cmd
}

// parseTasks разбирает --tasks: JSON-массив объектов.
func parseTasks(raw string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("--tasks must be a JSON array of objects: %w", err)
	}
	return tasks, nil
}

// newProjectCreateCmd — POST /projects.
//
//	projecthub projects create --title Zion --body "last city" --author 1,2 --tasks '[{"title":"dig"}]'
func newProjectCreateCmd(app *App) *cobra.Command {
	var (
		req   models.CreateProjectRequest
		tasks string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать проект",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tasks") {
				t, err := parseTasks(tasks)
				if err != nil {
					return err
				}
				req.Tasks = t
			}

			p, err := app.Client().CreateProject(req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "title")
	cmd.Flags().StringVar(&req.Body, "body", "", "body")
	cmd.Flags().StringVar(&req.Underbody, "underbody", "", "underbody")
	cmd.Flags().StringVar(&tasks, "tasks", "", "tasks as JSON array")
	cmd.Flags().Int64SliceVar(&req.AuthorsIDs, "author", nil, "author user ID (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("body")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var authorID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Все проекты или проекты автора",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *int64
			if cmd.Flags().Changed("author-id") {
				filter = &authorID
			}
			projects, err := app.Client().ListProjects(filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), projects)
		},
	}
	cmd.Flags().Int64Var(&authorID, "author-id", 0, "only projects of this author")
	return cmd
}

func newProjectGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Проект по ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := app.Client().GetProject(id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

// newProjectUpdateCmd — PATCH /projects/{id}, отправляются только заданные флаги.
//
// --authors заменяет список целиком, --add-author добавляет одного автора.
func newProjectUpdateCmd(app *App) *cobra.Command {
	var (
		title, body, underbody, tasks string
		authors                       []int64
		addAuthor                     int64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Частично обновить проект",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("authors") && flags.Changed("add-author") {
				return errors.New("use either --authors or --add-author")
			}

			var req models.UpdateProjectRequest
			if flags.Changed("title") {
				req.Title = &title
			}
			if flags.Changed("body") {
				req.Body = &body
			}
			if flags.Changed("underbody") {
				req.Underbody = &underbody
			}
			if flags.Changed("tasks") {
				t, err := parseTasks(tasks)
				if err != nil {
					return err
				}
				req.Tasks = &t
			}
			if flags.Changed("authors") {
				req.AuthorsIDs = &authors
			}
			if flags.Changed("add-author") {
				req.AuthorID = &addAuthor
			}
			if req == (models.UpdateProjectRequest{}) {
				return errors.New("nothing to update")
			}

			p, err := app.Client().UpdateProject(id, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body")
	cmd.Flags().StringVar(&underbody, "underbody", "", "new underbody")
	cmd.Flags().StringVar(&tasks, "tasks", "", "new tasks as JSON array")
	cmd.Flags().Int64SliceVar(&authors, "authors", nil, "replace authors list")
	cmd.Flags().Int64Var(&addAuthor, "add-author", 0, "add one author")

	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить проект",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Client().DeleteProject(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted project %d\n", id)
			return nil
		},
	}
}

func newProjectDeleteAllCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Удалить все проекты",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all projects without --yes")
			}
			n, err := app.Client().DeleteAllProjects()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d projects\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

// newProjectSearchCmd ищет по подстроке в названии, без учёта регистра.
func newProjectSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <q>",
		Short: "Поиск проектов по названию",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Client().SearchProjects(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), projects)
		},
	}
}
