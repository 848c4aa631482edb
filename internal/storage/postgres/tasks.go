package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/storage"
)

const taskColumns = `id, name, priority, start_at, day_period, end_at, duration_min,
	allow_splitting, recurrence, completed, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var priority, period string
	var startAt, endAt, recurrence sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&t.ID, &t.Name, &priority, &startAt, &period, &endAt, &t.Duration.Minutes,
		&t.Duration.AllowSplitting, &recurrence, &t.Completed, &deletedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Priority = models.Priority(priority)
	t.Period = models.DayPeriod(period)
	if deletedAt.Valid {
		ts := deletedAt.Time.UTC().Format(time.RFC3339)
		t.DeletedAt = &ts
	}
	if t.Start, err = storage.DecodeTime(startAt); err != nil {
		return models.Task{}, err
	}
	if t.End, err = storage.DecodeTime(endAt); err != nil {
		return models.Task{}, err
	}
	if t.Recurrence, err = storage.DecodeRecurrence(recurrence); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// AddTask inserts a new task. An empty id is replaced with a generated one.
func (s *Store) AddTask(task models.Task) error {
	if task.ID == "" {
		id, err := storage.NewTaskID()
		if err != nil {
			return err
		}
		task.ID = id
	}
	return s.UpdateTask(task)
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND deleted_at IS NULL`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	return t, err
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(task models.Task) error {
	recurrence, err := storage.EncodeRecurrence(task.Recurrence)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			priority = EXCLUDED.priority,
			start_at = EXCLUDED.start_at,
			day_period = EXCLUDED.day_period,
			end_at = EXCLUDED.end_at,
			duration_min = EXCLUDED.duration_min,
			allow_splitting = EXCLUDED.allow_splitting,
			recurrence = EXCLUDED.recurrence,
			completed = EXCLUDED.completed,
			deleted_at = EXCLUDED.deleted_at`,
		task.ID, task.Name, string(task.Priority), storage.EncodeTime(task.Start), string(task.Period),
		storage.EncodeTime(task.End), task.Duration.Minutes, task.Duration.AllowSplitting,
		recurrence, task.Completed, storage.NullString(task.DeletedAt),
	)
	return err
}

func (s *Store) CompleteTask(id string) error {
	res, err := s.db.Exec("UPDATE tasks SET completed = TRUE WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// DeleteTask soft-deletes a task by setting deleted_at.
func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec("UPDATE tasks SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
