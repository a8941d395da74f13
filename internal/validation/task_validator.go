package validation

import (
	"fmt"

	"task-app/internal/config"
	"task-app/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("title")
		return validationError
	}

	if !tv.validator.IsValidTitleLength(trimmed) {
		validationError.AddInvalidLengthError("title", trimmed, tv.validator.TitleMinLength(), tv.validator.TitleMaxLength())
	}

	if !tv.validator.HasNoControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("title", trimmed)
	}

	return validationError.ErrOrNil()
}

// ValidateStatus validates a task status
func (tv *TaskValidator) ValidateStatus(status domain.TaskStatus) error {
	if tv.validator.IsValidStatus(status) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError("status", string(status),
		fmt.Sprintf("must be one of %s, %s, %s", domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted))
	return validationError
}

// ValidatePriority validates a task priority
func (tv *TaskValidator) ValidatePriority(priority int) error {
	if tv.validator.IsValidPriority(priority) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidRangeError("priority", priority,
		fmt.Sprintf("must be between %d and %d", tv.validator.PriorityMin(), tv.validator.PriorityMax()))
	return validationError
}

// ValidateTaskForCreation validates every field of a new task
func (tv *TaskValidator) ValidateTaskForCreation(title string, status *domain.TaskStatus, priority *int) error {
	validationError := NewValidationError()

	validationError.Merge(tv.ValidateTitle(title))
	if status != nil {
		validationError.Merge(tv.ValidateStatus(*status))
	}
	if priority != nil {
		validationError.Merge(tv.ValidatePriority(*priority))
	}

	return validationError.ErrOrNil()
}

// ValidateTaskPatch validates the fields present in a partial update.
// Title and status may not be cleared; description and priority may.
func (tv *TaskValidator) ValidateTaskPatch(patch domain.TaskPatch) error {
	validationError := NewValidationError()

	if patch.Title.Set {
		if patch.Title.IsNull() {
			validationError.AddInvalidValueError("title", nil, "must not be null")
		} else {
			validationError.Merge(tv.ValidateTitle(*patch.Title.Value))
		}
	}
	if patch.Status.Set {
		if patch.Status.IsNull() {
			validationError.AddInvalidValueError("status", nil, "must not be null")
		} else {
			validationError.Merge(tv.ValidateStatus(*patch.Status.Value))
		}
	}
	if patch.Priority.Set && !patch.Priority.IsNull() {
		validationError.Merge(tv.ValidatePriority(*patch.Priority.Value))
	}

	return validationError.ErrOrNil()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if !tv.validator.IsValidUUID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("id", id, "UUID")
		return validationError
	}
	return nil
}

// ValidateTaskIDs validates a list of task IDs. The list may be empty
// but must be present.
func (tv *TaskValidator) ValidateTaskIDs(ids []string) error {
	validationError := NewValidationError()

	if ids == nil {
		validationError.AddRequiredError("taskIds")
		return validationError
	}

	for i, id := range ids {
		if !tv.validator.IsValidUUID(id) {
			validationError.AddInvalidFormatError(fmt.Sprintf("taskIds[%d]", i), id, "UUID")
		}
	}

	return validationError.ErrOrNil()
}

// ValidateAutocompleteTitle checks the title used to draft a description
func (tv *TaskValidator) ValidateAutocompleteTitle(title string) error {
	if tv.validator.IsNonEmptyString(title) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddRequiredError("title")
	return validationError
}
