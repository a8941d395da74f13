package validation

import (
	"strings"
	"testing"

	"task-app/internal/config"
	"task-app/internal/domain"
)

func TestValidator_IsNonEmptyString(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Empty string", "", false},
		{"Whitespace only", "   ", false},
		{"Tab and newline", "\t\n", false},
		{"Valid string", "hello", true},
		{"String with spaces", "hello world", true},
		{"String with leading/trailing spaces", "  hello  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.IsNonEmptyString(tt.input)
			if result != tt.expected {
				t.Errorf("IsNonEmptyString(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidator_IsValidStringLength(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name     string
		input    string
		min      int
		max      int
		expected bool
	}{
		{"Empty string, min 1", "", 1, 10, false},
		{"Too short", "a", 2, 10, false},
		{"Too long", "very long string", 1, 5, false},
		{"Valid length", "hello", 1, 10, true},
		{"Exactly min", "ab", 2, 10, true},
		{"Exactly max", "hello", 1, 5, true},
		{"With leading/trailing spaces", "  hello  ", 1, 10, true}, // Should trim spaces
		{"Multibyte counted as characters", "héllo", 1, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.IsValidStringLength(tt.input, tt.min, tt.max)
			if result != tt.expected {
				t.Errorf("IsValidStringLength(%q, %d, %d) = %v, expected %v", tt.input, tt.min, tt.max, result, tt.expected)
			}
		})
	}
}

func TestValidator_HasNoControlCharacters(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Plain title", "Write report", true},
		{"Punctuation and symbols", "Fix bug #42 @ 5pm (urgent!)", true},
		{"Unicode", "Réviser le budget", true},
		{"Newline", "Task\nname", false},
		{"Tab", "Task\tname", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.HasNoControlCharacters(tt.input)
			if result != tt.expected {
				t.Errorf("HasNoControlCharacters(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidator_IsValidUUID(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Canonical", "7c9e6679-7425-40de-944b-e07fc1f90ae7", true},
		{"Nil UUID", "00000000-0000-0000-0000-000000000000", true},
		{"Uppercase", "7C9E6679-7425-40DE-944B-E07FC1F90AE7", true},
		{"Braced", "{7c9e6679-7425-40de-944b-e07fc1f90ae7}", false},
		{"URN", "urn:uuid:7c9e6679-7425-40de-944b-e07fc1f90ae7", false},
		{"No hyphens", "7c9e6679742540de944be07fc1f90ae7", false},
		{"Garbage", "not-a-uuid", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.IsValidUUID(tt.input)
			if result != tt.expected {
				t.Errorf("IsValidUUID(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidator_IsValidPriority(t *testing.T) {
	validator := NewValidator()

	for p, expected := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := validator.IsValidPriority(p); got != expected {
			t.Errorf("IsValidPriority(%d) = %v, expected %v", p, got, expected)
		}
	}
}

func TestValidator_IsValidStatus(t *testing.T) {
	validator := NewValidator()

	if !validator.IsValidStatus(domain.StatusInProgress) {
		t.Error("IN_PROGRESS should be valid")
	}
	if validator.IsValidStatus(domain.TaskStatus("pending")) {
		t.Error("status matching is case-sensitive")
	}
}

func TestValidator_WithConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TitleMinLength = 5
	cfg.Validation.TitleMaxLength = 10
	cfg.Validation.PriorityMax = 3

	validator := NewValidatorWithConfig(cfg)

	if validator.IsValidTitleLength("four") {
		t.Error("IsValidTitleLength should use the configured minimum")
	}
	if validator.IsValidTitleLength(strings.Repeat("a", 11)) {
		t.Error("IsValidTitleLength should use the configured maximum")
	}
	if !validator.IsValidTitleLength("exactly10!") {
		t.Error("IsValidTitleLength should accept a title at the configured maximum")
	}
	if validator.IsValidPriority(4) {
		t.Error("IsValidPriority should use the configured maximum")
	}
}

func TestValidator_TrimAndValidateString(t *testing.T) {
	validator := NewValidator()

	if got := validator.TrimAndValidateString("  Buy milk \n"); got != "Buy milk" {
		t.Errorf("TrimAndValidateString() = %q, expected %q", got, "Buy milk")
	}
}
