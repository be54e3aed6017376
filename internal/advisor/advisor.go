// Package advisor asks a language model to rank today's open tasks.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/pomolist/internal/models"
)

var (
	// ErrSortFailed wraps every advisor failure. Its message is the one shown to the user.
	ErrSortFailed = errors.New("could not sort tasks, try again later")

	// ErrMalformedResponse is returned when the model reply is not a JSON array of strings
	ErrMalformedResponse = errors.New("response is not a JSON array of strings")

	// ErrNotConfigured is returned by the disabled advisor
	ErrNotConfigured = errors.New("sort advisor is not configured")
)

// Item is one task as presented to the advisor
type Item struct {
	Text     string
	Priority models.Priority
}

// Advisor ranks items and returns their texts, most urgent first. The result
// may omit items it did not recognize.
type Advisor interface {
	Sort(ctx context.Context, items []Item) ([]string, error)
}

// ItemsFromTasks converts tasks to advisor items, keeping their order
func ItemsFromTasks(tasks []models.Task) []Item {
	items := make([]Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Text: t.Text, Priority: t.Priority}
	}
	return items
}

// BuildPrompt renders the ranking instructions followed by the task list
func BuildPrompt(items []Item) string {
	var b strings.Builder
	b.WriteString("You are a productivity expert. Reorder the following to-do list by urgency, ")
	b.WriteString("importance, priority and estimated effort. Weigh \"high\" priority tasks most heavily.\n")
	b.WriteString("Return only a JSON array of strings, where each string is the exact text of a task from the list.\n")
	b.WriteString("Do not add new tasks and do not change the text of existing tasks.\n\n")
	b.WriteString("To-do list:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- %s (priority: %s)\n", it.Text, it.Priority)
	}
	return b.String()
}

// DecodeOrder parses a model reply that must be a JSON array of strings
func DecodeOrder(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)

	var values *[]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if values == nil {
		return nil, fmt.Errorf("%w: got null", ErrMalformedResponse)
	}

	out := make([]string, 0, len(*values))
	for i, v := range *values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrMalformedResponse, i, v)
		}
		out = append(out, s)
	}
	return out, nil
}

// Disabled is used when no model is configured; every call fails
type Disabled struct{}

func (Disabled) Sort(context.Context, []Item) ([]string, error) {
	return nil, fmt.Errorf("%w: %w", ErrSortFailed, ErrNotConfigured)
}

// passthrough returns the texts unchanged. Lists of fewer than two items need no ranking.
func passthrough(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}
