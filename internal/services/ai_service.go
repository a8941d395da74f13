package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"task-app/internal/ai"
	"task-app/internal/config"
	"task-app/internal/domain"
	"task-app/internal/errors"
	"task-app/internal/validation"
)

// NoPendingTasksMessage is returned by Summary when there is nothing to summarise.
const NoPendingTasksMessage = "You have no pending tasks. Nice work!"

// aiServiceImpl implements the AIService interface
type aiServiceImpl struct {
	tasks         TaskService
	provider      ai.Provider
	taskValidator *validation.TaskValidator
	timeout       time.Duration
	maxTokens     int
	priorityMin   int
	priorityMax   int
}

// NewAIService creates a new AIService instance. A nil cfg uses defaults.
func NewAIService(tasks TaskService, provider ai.Provider, cfg *config.Config) AIService {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	v := validation.NewValidatorWithConfig(cfg)
	return &aiServiceImpl{
		tasks:         tasks,
		provider:      provider,
		taskValidator: validation.NewTaskValidatorWithConfig(cfg),
		timeout:       cfg.AI.Timeout,
		maxTokens:     cfg.AI.MaxTokens,
		priorityMin:   v.PriorityMin(),
		priorityMax:   v.PriorityMax(),
	}
}

// complete sends a prompt under the configured deadline and maps failures
// to application errors.
func (s *aiServiceImpl) complete(ctx context.Context, prompt ai.Prompt) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	reply, err := s.provider.Complete(ctx, prompt)
	zerolog.Ctx(ctx).Debug().
		Str("provider", s.provider.Name()).
		Str("kind", string(prompt.Kind)).
		Dur("elapsed", time.Since(started)).
		Err(err).
		Msg("ai completion")

	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.NewTimeoutError("ai "+string(prompt.Kind), s.timeout.String())
		}
		return "", errors.NewUpstreamError(s.provider.Name(), err)
	}
	return reply, nil
}

// Summary describes the pending tasks in a few sentences
func (s *aiServiceImpl) Summary(ctx context.Context) (string, error) {
	pending := domain.StatusPending
	tasks, err := s.tasks.ListTasks(ctx, domain.TaskFilter{Status: &pending})
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return NoPendingTasksMessage, nil
	}

	reply, err := s.complete(ctx, ai.SummaryPrompt(derefTasks(tasks), s.maxTokens))
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(reply)
	if summary == "" {
		return "", errors.NewUpstreamError(s.provider.Name(), ai.ErrEmptyResponse)
	}
	return summary, nil
}

// SuggestPriorities asks the model to rank the given tasks. Suggestions
// for ids outside the request are dropped and priorities are clamped to
// the configured range. When apply is set the suggestions are persisted
// in one transaction. An empty id list returns no suggestions without
// calling the provider.
func (s *aiServiceImpl) SuggestPriorities(ctx context.Context, ids []string, apply bool) ([]domain.PrioritySuggestion, error) {
	tasks, err := s.tasks.ListTasksByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []domain.PrioritySuggestion{}, nil
	}

	reply, err := s.complete(ctx, ai.PrioritiesPrompt(derefTasks(tasks), s.maxTokens))
	if err != nil {
		return nil, err
	}

	requested := make(map[string]string, len(tasks))
	for _, t := range tasks {
		requested[strings.ToLower(t.ID)] = t.ID
	}

	suggestions := make([]domain.PrioritySuggestion, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, sug := range ai.ParseSuggestions(reply) {
		id, ok := requested[strings.ToLower(sug.TaskID)]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		sug.TaskID = id
		sug.SuggestedPriority = s.clampPriority(sug.SuggestedPriority)
		suggestions = append(suggestions, sug)
	}

	if apply && len(suggestions) > 0 {
		if _, err := s.tasks.UpdatePriorities(ctx, suggestions); err != nil {
			return nil, err
		}
	}

	return suggestions, nil
}

// AutoComplete drafts a short description for a task title
func (s *aiServiceImpl) AutoComplete(ctx context.Context, title string) (string, error) {
	if err := s.taskValidator.ValidateAutocompleteTitle(title); err != nil {
		return "", invalid("invalid title", err)
	}

	reply, err := s.complete(ctx, ai.AutocompletePrompt(strings.TrimSpace(title), s.maxTokens))
	if err != nil {
		return "", err
	}

	description := ai.LimitSentences(trimQuotes(reply), 2)
	if description == "" {
		return "", errors.NewUpstreamError(s.provider.Name(), ai.ErrEmptyResponse)
	}
	return description, nil
}

func (s *aiServiceImpl) clampPriority(p int) int {
	return max(s.priorityMin, min(p, s.priorityMax))
}

// trimQuotes removes whitespace and one layer of wrapping quotes
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}} {
		if len(s) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			return strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}

func derefTasks(tasks []*domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, *t)
	}
	return out
}
