package sqlite

import (
	"database/sql"

	"task-app/internal/repository"
)

const taskColumns = "id, title, description, status, priority, created_at, updated_at"

// ScanTask scans a single task from a database row
func ScanTask(scanner repository.Scanner) (*repository.TaskRecord, error) {
	task := &repository.TaskRecord{}
	var (
		description sql.NullString
		priority    sql.NullInt64
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&priority,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = repository.NullableString(description)
	task.Priority = repository.NullableInt(priority)

	if task.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows repository.Rows) ([]*repository.TaskRecord, error) {
	return repository.ScanAll(rows, ScanTask)
}
