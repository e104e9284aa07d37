package sqlstore

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/maticai/matic/internal/models"
)

var taskColumns = []string{
	"id", "user_id", "title", "description", "category", "priority",
	"due_date", "due_time", "completed", "is_recurring", "created_at", "deleted_at",
}

func (s *Store) AddTask(t models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	query, args, err := s.sb.Insert("tasks").
		Columns(taskColumns...).
		Values(t.ID, t.UserID, t.Title, t.Description, t.Category, t.Priority,
			t.DueDate, t.DueTime, t.Completed, t.Recurring, utc(t.CreatedAt), nil).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

// GetTask returns a live task; soft-deleted tasks are not found.
func (s *Store) GetTask(id string) (models.Task, error) {
	query, args, err := s.sb.Select(taskColumns...).From("tasks").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).ToSql()
	if err != nil {
		return models.Task{}, err
	}
	var t models.Task
	if err := s.db.Get(&t, query, args...); err != nil {
		return models.Task{}, notFound(err, "task", id)
	}
	return t, nil
}

func (s *Store) GetAllTasks(includeDeleted bool) ([]models.Task, error) {
	q := s.sb.Select(taskColumns...).From("tasks").OrderBy("priority", "created_at")
	if !includeDeleted {
		q = q.Where(squirrel.Eq{"deleted_at": nil})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var tasks []models.Task
	if err := s.db.Select(&tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(t models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	query, args, err := s.sb.Update("tasks").
		Set("user_id", t.UserID).
		Set("title", t.Title).
		Set("description", t.Description).
		Set("category", t.Category).
		Set("priority", t.Priority).
		Set("due_date", t.DueDate).
		Set("due_time", t.DueTime).
		Set("completed", t.Completed).
		Set("is_recurring", t.Recurring).
		Where(squirrel.Eq{"id": t.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (s *Store) CompleteTask(id string, completed bool) error {
	query, args, err := s.sb.Update("tasks").
		Set("completed", completed).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res, "task", id)
}

// DeleteTask stamps deleted_at; the row stays for RestoreTask.
func (s *Store) DeleteTask(id string) error {
	query, args, err := s.sb.Update("tasks").
		Set("deleted_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res, "task", id)
}

func (s *Store) RestoreTask(id string) error {
	query, args, err := s.sb.Update("tasks").
		Set("deleted_at", nil).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res, "deleted task", id)
}
