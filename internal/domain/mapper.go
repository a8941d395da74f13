package domain

import (
	"task-app/internal/repository"
)

// TaskMapper handles conversion between domain and storage Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to a storage record.
func (m *TaskMapper) ToRecord(task Task) repository.TaskRecord {
	return repository.TaskRecord{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// FromRecord converts a storage record to a domain Task.
func (m *TaskMapper) FromRecord(record repository.TaskRecord) Task {
	return Task{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Status:      TaskStatus(record.Status),
		Priority:    record.Priority,
		CreatedAt:   record.CreatedAt.UTC(),
		UpdatedAt:   record.UpdatedAt.UTC(),
	}
}

// FromRecordSlice converts storage records to domain Tasks. The result is
// never nil so it encodes as an empty JSON array.
func (m *TaskMapper) FromRecordSlice(records []*repository.TaskRecord) []*Task {
	tasks := make([]*Task, 0, len(records))
	for _, record := range records {
		task := m.FromRecord(*record)
		tasks = append(tasks, &task)
	}
	return tasks
}

// FilterToListOptions converts a domain filter to repository list options.
func (m *TaskMapper) FilterToListOptions(filter TaskFilter) repository.ListOptions {
	var opts repository.ListOptions
	if filter.Status != nil {
		status := string(*filter.Status)
		opts.Status = &status
	}
	return opts
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task *TaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task: NewTaskMapper(),
	}
}
