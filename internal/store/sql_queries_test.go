package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/vlebedev/go-task-manager/models"
)

func TestBuildUpdateUserQuery(t *testing.T) {
	t.Run("single field", func(t *testing.T) {
		query, args, err := buildUpdateUserQuery(1, map[string]any{"name": "Johnny"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(query, "UPDATE users SET") {
			t.Errorf("unexpected query: %s", query)
		}
		if !strings.Contains(query, "RETURNING "+userColumns) {
			t.Errorf("query must return the updated row: %s", query)
		}
		if len(args) != 2 {
			t.Errorf("expected 2 args, got %d", len(args))
		}
	})

	t.Run("empty fields", func(t *testing.T) {
		_, _, err := buildUpdateUserQuery(1, map[string]any{})
		if !errors.Is(err, ErrNothingToUpdate) {
			t.Fatalf("expected ErrNothingToUpdate, got %v", err)
		}
	})
}

func TestBuildUpdateTaskQuery(t *testing.T) {
	query, args, err := buildUpdateTaskQuery(1, 10, map[string]any{"completed": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(query, "owner_id") || !strings.Contains(query, "task_id") {
		t.Errorf("update must be scoped by both task and owner: %s", query)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d", len(args))
	}
}

func TestBuildListTasksQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		query, args, err := buildListTasksQuery(1, models.TaskFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(query, "ORDER BY created_at ASC") {
			t.Errorf("default order must be oldest first: %s", query)
		}
		if strings.Contains(query, "LIMIT") || strings.Contains(query, "OFFSET") {
			t.Errorf("no pagination expected by default: %s", query)
		}
		if len(args) != 1 {
			t.Errorf("expected 1 arg, got %d", len(args))
		}
	})

	t.Run("full filter", func(t *testing.T) {
		completed := false
		query, args, err := buildListTasksQuery(1, models.TaskFilter{
			Completed: &completed,
			Limit:     10,
			Skip:      20,
			SortDesc:  true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"completed", "ORDER BY created_at DESC", "LIMIT 10", "OFFSET 20"} {
			if !strings.Contains(query, want) {
				t.Errorf("expected query to contain %q: %s", want, query)
			}
		}
		if len(args) != 2 {
			t.Errorf("expected 2 args, got %d", len(args))
		}
	})
}
