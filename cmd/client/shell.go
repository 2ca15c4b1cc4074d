package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"todo-service/internal/controller"
)

const shellHelp = `commands:
  ls                  show tasks
  add <text>          create a task
  edit <id> [text]    start editing (draft defaults to current text)
  draft <text>        replace the draft
  save                save the draft
  cancel              discard the draft
  toggle <id>         toggle completed
  rm <id>             delete a task
  refresh             reload tasks from the server
  quit                leave the shell`

// runShell читает команды построчно; состояние перерисовывается после каждого изменения
func runShell(ctx context.Context, ctrl *controller.Controller, in io.Reader, out io.Writer) error {
	unsubscribe := ctrl.Subscribe(func(s controller.State) { render(out, s) })
	defer unsubscribe()

	render(out, ctrl.State())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if name == "quit" || name == "exit" {
			return nil
		}

		if err := execShell(ctx, ctrl, out, name, rest); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func execShell(ctx context.Context, ctrl *controller.Controller, out io.Writer, name, rest string) error {
	switch name {
	case "help", "?":
		fmt.Fprintln(out, shellHelp)
		return nil

	case "ls", "list":
		render(out, ctrl.State())
		return nil

	case "refresh":
		return describe(ctrl.Refresh(ctx))

	case "add":
		ctrl.SetInput(rest)
		if _, err := ctrl.SubmitNew(ctx, rest); err != nil {
			return describe(err)
		}
		return nil

	case "edit":
		ref, text, hasText := strings.Cut(rest, " ")
		id, err := resolveID(ctrl.State(), ref)
		if err != nil {
			return err
		}
		if hasText {
			return describe(ctrl.EditWith(id, strings.TrimSpace(text)))
		}
		return describe(ctrl.Edit(id))

	case "draft":
		return describe(ctrl.SetDraft(rest))

	case "save":
		if _, err := ctrl.CommitEdit(ctx); err != nil {
			return describe(err)
		}
		return nil

	case "cancel":
		ctrl.CancelEdit()
		return nil

	case "toggle":
		id, err := resolveID(ctrl.State(), rest)
		if err != nil {
			return err
		}
		if _, err := ctrl.Toggle(ctx, id); err != nil {
			return describe(err)
		}
		return nil

	case "rm", "delete":
		id, err := resolveID(ctrl.State(), rest)
		if err != nil {
			return err
		}
		return describe(ctrl.Remove(ctx, id))

	default:
		return fmt.Errorf("unknown command %q, type help", name)
	}
}
