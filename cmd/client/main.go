package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"todo-service/internal/client"
	"todo-service/internal/config"
	"todo-service/internal/controller"
	"todo-service/internal/logger"
)

const defaultServer = "http://localhost:5000"

// options общие флаги всех команд
type options struct {
	server   string
	timeout  time.Duration
	logLevel string
}

func main() {
	// .env необязателен
	_ = config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "Command-line client for the todo service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("TODO_SERVER")
	if server == "" {
		server = defaultServer
	}

	rootCmd.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "Server base URL (env TODO_SERVER)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(listCmd(opts))
	rootCmd.AddCommand(addCmd(opts))
	rootCmd.AddCommand(editCmd(opts))
	rootCmd.AddCommand(toggleCmd(opts))
	rootCmd.AddCommand(removeCmd(opts))
	rootCmd.AddCommand(shellCmd(opts))

	return rootCmd
}

// connect создает контроллер и загружает зеркало
func connect(cmd *cobra.Command, opts *options) (*controller.Controller, error) {
	api, err := client.New(opts.server, client.WithTimeout(opts.timeout))
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(&config.ConfigLogger{Level: opts.logLevel, Format: "text"}, cmd.ErrOrStderr())
	ctrl := controller.New(api, log)
	if err := ctrl.Refresh(cmd.Context()); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return ctrl, nil
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			render(cmd.OutOrStdout(), ctrl.State())
			return nil
		},
	}
}

func addCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			task, err := ctrl.SubmitNew(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", shortID(task.ID))
			return nil
		},
	}
}

func editCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			id, err := resolveID(ctrl.State(), args[0])
			if err != nil {
				return err
			}
			if err := ctrl.EditWith(id, strings.Join(args[1:], " ")); err != nil {
				return describe(err)
			}
			task, err := ctrl.CommitEdit(cmd.Context())
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", shortID(task.ID))
			return nil
		},
	}
}

func toggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle the completed flag of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			id, err := resolveID(ctrl.State(), args[0])
			if err != nil {
				return err
			}
			task, err := ctrl.Toggle(cmd.Context(), id)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(task.Completed), task.Text)
			return nil
		},
	}
}

func removeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			id, err := resolveID(ctrl.State(), args[0])
			if err != nil {
				return err
			}
			if err := ctrl.Remove(cmd.Context(), id); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", shortID(id))
			return nil
		},
	}
}

func shellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session over a single task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			return runShell(cmd.Context(), ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
