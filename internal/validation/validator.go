package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"task-app/internal/config"
	"task-app/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed string has between min and max characters
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks if a title length is within configured limits
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, v.TitleMinLength(), v.TitleMaxLength())
}

// HasNoControlCharacters rejects newlines, tabs and other control runes
func (v *Validator) HasNoControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

// IsValidPriority checks if a priority is within configured bounds
func (v *Validator) IsValidPriority(p int) bool {
	return p >= v.PriorityMin() && p <= v.PriorityMax()
}

// IsValidStatus checks if a status is one of the known values
func (v *Validator) IsValidStatus(s domain.TaskStatus) bool {
	return s.IsValid()
}

// IsValidUUID accepts only the canonical 36-character hyphenated form
func (v *Validator) IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TitleMinLength returns configured minimum title length or default
func (v *Validator) TitleMinLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMinLength
	}
	return 3 // Default minimum
}

// TitleMaxLength returns configured maximum title length or default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255 // Default maximum
}

// PriorityMin returns configured lowest priority or default
func (v *Validator) PriorityMin() int {
	if v.config != nil {
		return v.config.Validation.PriorityMin
	}
	return 1
}

// PriorityMax returns configured highest priority or default
func (v *Validator) PriorityMax() int {
	if v.config != nil {
		return v.config.Validation.PriorityMax
	}
	return 5
}
