package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"todo-service/internal/client"
	"todo-service/internal/controller"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// render печатает зеркало и активное редактирование
func render(w io.Writer, state controller.State) {
	if len(state.Tasks) == 0 {
		fmt.Fprintln(w, "(no tasks)")
	}
	for _, task := range state.Tasks {
		marker := " "
		if state.IsEditing(task.ID) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s %s  %s\n", marker, checkbox(task.Completed), shortID(task.ID), task.Text)
	}
	if state.Editing != nil {
		fmt.Fprintf(w, "editing %s: %q (save | cancel)\n", shortID(state.Editing.ID), state.Editing.Draft)
	}
}

// resolveID находит задачу по полному ID или однозначному префиксу
func resolveID(state controller.State, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("task id is required")
	}

	var matches []string
	for _, task := range state.Tasks {
		if task.ID == ref {
			return task.ID, nil
		}
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %d tasks match", ref, len(matches))
	}
}

// describe добавляет к ошибке понятное пользователю пояснение
func describe(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, controller.ErrEmptyText),
		errors.Is(err, controller.ErrNotEditing),
		errors.Is(err, controller.ErrUnknownTask):
		return err
	case errors.Is(err, client.ErrValidation):
		return fmt.Errorf("rejected by server: %w", err)
	case errors.Is(err, client.ErrNotFound):
		return fmt.Errorf("task no longer exists on the server: %w", err)
	case errors.Is(err, client.ErrStorageUnavailable):
		return fmt.Errorf("server storage is unavailable, try again later: %w", err)
	case errors.Is(err, client.ErrNetwork):
		return fmt.Errorf("cannot reach server: %w", err)
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}
