package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"task-app/internal/domain"
)

// OfflineProvider answers from simple heuristics without any network
// access. Its replies have the same shape as a model's, so callers parse
// them the same way.
type OfflineProvider struct{}

// NewOffline creates the heuristic provider.
func NewOffline() *OfflineProvider {
	return &OfflineProvider{}
}

func (p *OfflineProvider) Name() string { return "offline" }

func (p *OfflineProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch prompt.Kind {
	case KindSummary:
		return offlineSummary(prompt.Tasks), nil
	case KindPriorities:
		return offlinePriorities(prompt.Tasks)
	case KindAutocomplete:
		return offlineDescription(prompt.Title), nil
	default:
		return "", fmt.Errorf("offline provider cannot answer %q prompts", prompt.Kind)
	}
}

var urgencyKeywords = []struct {
	priority int
	words    []string
}{
	{1, []string{"urgent", "asap", "critical", "outage", "broken", "deadline", "today", "security", "blocker"}},
	{2, []string{"bug", "fix", "important", "client", "customer", "release", "pay", "invoice", "tomorrow"}},
	{4, []string{"cleanup", "refactor", "research", "read", "explore", "nice to have"}},
	{5, []string{"someday", "maybe", "idea", "optional", "eventually", "wishlist"}},
}

// scoreTask returns a priority and the keyword that decided it, if any.
func scoreTask(t domain.Task) (int, string) {
	text := strings.ToLower(t.Title)
	if t.HasDescription() {
		text += " " + strings.ToLower(*t.Description)
	}
	for _, group := range urgencyKeywords {
		for _, word := range group.words {
			if strings.Contains(text, word) {
				return group.priority, word
			}
		}
	}
	if t.Priority != nil {
		return *t.Priority, ""
	}
	return 3, ""
}

func offlinePriorities(tasks []domain.Task) (string, error) {
	suggestions := make([]domain.PrioritySuggestion, 0, len(tasks))
	for _, t := range tasks {
		priority, keyword := scoreTask(t)
		reason := "No urgency signals found; treat as a normal task."
		switch {
		case keyword != "":
			reason = fmt.Sprintf("Mentions %q.", keyword)
		case t.Priority != nil:
			reason = "Keeps the priority already assigned."
		}
		suggestions = append(suggestions, domain.PrioritySuggestion{
			TaskID:            t.ID,
			SuggestedPriority: priority,
			Reason:            reason,
		})
	}

	data, err := json.Marshal(suggestions)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func offlineSummary(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "There are no pending tasks."
	}

	ranked := make([]domain.Task, len(tasks))
	copy(ranked, tasks)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, _ := scoreTask(ranked[i])
		pj, _ := scoreTask(ranked[j])
		return pi < pj
	})

	titles := make([]string, 0, len(ranked))
	for _, t := range ranked {
		titles = append(titles, fmt.Sprintf("%q", t.Title))
	}

	noun := "tasks"
	if len(tasks) == 1 {
		noun = "task"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d pending %s: %s.\n", len(tasks), noun, strings.Join(titles, ", "))
	fmt.Fprintf(&b, "Focus first on %s.\n", titles[0])
	b.WriteString("Recommendation: work through them in the order listed and mark each one completed as you go.")
	return b.String()
}

func offlineDescription(title string) string {
	title = strings.TrimSpace(title)
	return fmt.Sprintf("Complete the task %q by breaking it into concrete steps. Mark it as done once every step is finished.", title)
}
