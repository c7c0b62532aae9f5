package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"metrics-proxy/internal/domain"
	"metrics-proxy/pkg/logging"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteTaskStore struct {
	db     *sql.DB
	dbPath string
	logger logging.Logger
}

func NewSQLiteTaskStore(path string, logger logging.Logger) *SQLiteTaskStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SQLiteTaskStore{dbPath: path, logger: logger}
}

func (s *SQLiteTaskStore) Init() error {
	var err error

	s.db, err = sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err = s.db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);`

	_, err = s.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	s.logger.Info("task store initialized", "path", s.dbPath)
	return nil
}

func (s *SQLiteTaskStore) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.CreatedAt == 0 {
		task.CreatedAt = time.Now().Unix()
	}

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO tasks(title, done, created_at) VALUES(?, ?, ?)")
	if err != nil {
		return domain.Task{}, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, task.Title, task.Done, task.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("error inserting task: %w", err)
	}

	task.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Task{}, fmt.Errorf("error reading inserted task id: %w", err)
	}
	return task, nil
}

func (s *SQLiteTaskStore) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	var t domain.Task

	row := s.db.QueryRowContext(ctx, "SELECT id, title, done, created_at FROM tasks WHERE id = ?", id)
	err := row.Scan(&t.ID, &t.Title, &t.Done, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, domain.ErrTaskNotFound)
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("error querying task: %w", err)
	}
	return t, nil
}

func (s *SQLiteTaskStore) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	query := "SELECT id, title, done, created_at FROM tasks ORDER BY id ASC"
	args := []any{}

	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if offset < 0 {
		offset = 0
	}
	query += " OFFSET ?"
	args = append(args, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var fetchedTasks []domain.Task

	for rows.Next() {
		var t domain.Task

		if err := rows.Scan(&t.ID, &t.Title, &t.Done, &t.CreatedAt); err != nil {
			s.logger.Errorf("error scanning task row: %v", err)
			continue
		}
		fetchedTasks = append(fetchedTasks, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return fetchedTasks, nil
}

func (s *SQLiteTaskStore) CompleteTask(ctx context.Context, id int64) (domain.Task, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET done = 1 WHERE id = ?", id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("error updating task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Task{}, fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return domain.Task{}, fmt.Errorf("task %d: %w", id, domain.ErrTaskNotFound)
	}
	return s.GetTask(ctx, id)
}

func (s *SQLiteTaskStore) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", id, domain.ErrTaskNotFound)
	}
	return nil
}

func (s *SQLiteTaskStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
