package ai

import (
	"fmt"
	"strings"

	"task-app/internal/domain"
)

const assistantSystem = "You are a productivity assistant helping a person manage their task list."

const summaryTemplate = `Analyse the following pending tasks and write a brief executive summary. Include:
1. An overview of the tasks
2. The main focus areas
3. A recommendation for tackling them

Tasks:
%s

Keep the answer concise and useful.`

const prioritiesTemplate = `You are an expert in task management. Analyse the following tasks and assign each a priority from 1 to 5 (1 = most urgent, 5 = least urgent) based on its title and description.

Tasks:
%s

Reply ONLY with a valid JSON array in exactly this format, with no additional text:
[{"taskId": "uuid", "suggestedPriority": number, "reason": "short reason"}]`

const autocompleteTemplate = `Given the following task title, write a short, useful description (at most 2 sentences) of what the task involves.

Title: %q

Reply with the description only, without quotes or extra formatting.`

// SummaryPrompt asks for an executive summary of pending tasks.
func SummaryPrompt(tasks []domain.Task, maxTokens int) Prompt {
	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		line := fmt.Sprintf("%d. %q", i+1, t.Title)
		if t.HasDescription() {
			line += ": " + *t.Description
		}
		lines = append(lines, line)
	}

	return Prompt{
		Kind:      KindSummary,
		System:    assistantSystem,
		User:      fmt.Sprintf(summaryTemplate, strings.Join(lines, "\n")),
		MaxTokens: maxTokens,
		Tasks:     tasks,
	}
}

// PrioritiesPrompt asks for a JSON array of priority suggestions.
func PrioritiesPrompt(tasks []domain.Task, maxTokens int) Prompt {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		description := "No description"
		if t.HasDescription() {
			description = *t.Description
		}
		lines = append(lines, fmt.Sprintf("- ID: %s, Title: %q, Description: %q", t.ID, t.Title, description))
	}

	return Prompt{
		Kind:      KindPriorities,
		User:      fmt.Sprintf(prioritiesTemplate, strings.Join(lines, "\n")),
		MaxTokens: maxTokens,
		Tasks:     tasks,
	}
}

// AutocompletePrompt asks for a short description of a task title.
func AutocompletePrompt(title string, maxTokens int) Prompt {
	return Prompt{
		Kind:      KindAutocomplete,
		System:    assistantSystem,
		User:      fmt.Sprintf(autocompleteTemplate, title),
		MaxTokens: maxTokens,
		Title:     title,
	}
}
