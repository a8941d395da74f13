package domain

// PrioritySuggestion is a proposed priority for one task.
type PrioritySuggestion struct {
	TaskID            string `json:"taskId"`
	SuggestedPriority int    `json:"suggestedPriority"`
	Reason            string `json:"reason"`
}
