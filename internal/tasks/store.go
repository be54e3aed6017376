// Package tasks holds the ordered task collection, the commands that mutate
// it, and the confirmation gate that guards deletion.
package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tgienger/pomolist/internal/db"
	"github.com/tgienger/pomolist/internal/logging"
	"github.com/tgienger/pomolist/internal/models"
)

// Repository persists the full task collection
type Repository interface {
	LoadTodos(ctx context.Context) ([]models.Task, error)
	SaveTodos(ctx context.Context, tasks []models.Task) error
}

// Store is the in-memory ordered task collection. Every successful mutation
// writes the whole collection back to the repository; write failures are
// logged and the in-memory state is kept.
type Store struct {
	repo   Repository
	tasks  []models.Task
	now    func() time.Time
	lastID int64
	log    zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to derive new task ids
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store over an already loaded collection
func New(repo Repository, tasks []models.Task, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		tasks: models.NormalizeTasks(tasks),
		now:   time.Now,
		log:   logging.Component("tasks"),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s
}

// Load reads the collection from repo. Missing or unreadable data starts an
// empty collection.
func Load(ctx context.Context, repo Repository, opts ...Option) *Store {
	saved, err := repo.LoadTodos(ctx)
	if err != nil {
		l := logging.Component("tasks")
		if errors.Is(err, db.ErrNotFound) {
			l.Debug().Msg("no saved tasks, starting empty")
		} else {
			l.Warn().Err(err).Msg("could not read saved tasks, starting empty")
		}
		saved = nil
	}
	return New(repo, saved, opts...)
}

// All returns a copy of the collection in display order
func (s *Store) All() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id
func (s *Store) Get(id int64) (models.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// Add inserts a new task at the front. Blank text is rejected.
func (s *Store) Add(text string) (models.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, false
	}

	t := models.Task{
		ID:        s.nextID(),
		Text:      text,
		Priority:  models.PriorityMedium,
		Group:     models.GroupInbox,
		Pomodoros: 1,
	}
	s.tasks = append([]models.Task{t}, s.tasks...)
	s.save()
	return t, true
}

// ToggleCompleted flips the completed flag
func (s *Store) ToggleCompleted(id int64) {
	s.update(id, func(t *models.Task) bool {
		t.Completed = !t.Completed
		return true
	})
}

// Edit replaces the task text when the new text is not blank
func (s *Store) Edit(id int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.update(id, func(t *models.Task) bool {
		if t.Text == text {
			return false
		}
		t.Text = text
		return true
	})
}

// SetPriority changes the priority of a task
func (s *Store) SetPriority(id int64, p models.Priority) {
	if !p.Valid() {
		return
	}
	s.update(id, func(t *models.Task) bool {
		if t.Priority == p {
			return false
		}
		t.Priority = p
		return true
	})
}

// SetDueDate sets the due date, or clears it when due is nil
func (s *Store) SetDueDate(id int64, due *models.Date) {
	s.update(id, func(t *models.Task) bool {
		if due == nil {
			if t.DueDate == nil {
				return false
			}
			t.DueDate = nil
			return true
		}
		d := *due
		t.DueDate = &d
		return true
	})
}

// SetPomodoroEstimate sets the estimate; counts below one are rejected
func (s *Store) SetPomodoroEstimate(id int64, count int) {
	if count < 1 {
		return
	}
	s.update(id, func(t *models.Task) bool {
		if t.Pomodoros == count {
			return false
		}
		t.Pomodoros = count
		return true
	})
}

// MoveGroup toggles the task between Inbox and Today
func (s *Store) MoveGroup(id int64) {
	s.update(id, func(t *models.Task) bool {
		t.Group = t.Group.Other()
		return true
	})
}

// IncrementCompletedPomodoros records a finished focus session. It reports
// false when the task no longer exists.
func (s *Store) IncrementCompletedPomodoros(id int64) bool {
	return s.update(id, func(t *models.Task) bool {
		t.CompletedPomodoros++
		return true
	})
}

// MoveUp swaps the task with the previous task in the same group
func (s *Store) MoveUp(id int64) {
	s.shift(id, -1)
}

// MoveDown swaps the task with the next task in the same group
func (s *Store) MoveDown(id int64) {
	s.shift(id, 1)
}

func (s *Store) shift(id int64, dir int) {
	i := s.index(id)
	if i < 0 {
		return
	}
	for j := i + dir; j >= 0 && j < len(s.tasks); j += dir {
		if s.tasks[j].Group == s.tasks[i].Group {
			s.tasks[i], s.tasks[j] = s.tasks[j], s.tasks[i]
			s.save()
			return
		}
	}
}

// ByGroup returns the tasks in group g in display order
func (s *Store) ByGroup(g models.Group) []models.Task {
	var out []models.Task
	for _, t := range s.tasks {
		if t.Group == g {
			out = append(out, t)
		}
	}
	return out
}

// ActiveCount returns the number of open tasks in group g
func (s *Store) ActiveCount(g models.Group) int {
	n := 0
	for _, t := range s.tasks {
		if t.Group == g && !t.Completed {
			n++
		}
	}
	return n
}

// CompletedCount returns the number of completed tasks across both groups
func (s *Store) CompletedCount() int {
	n := 0
	for _, t := range s.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func (s *Store) remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.save()
	return true
}

func (s *Store) clearCompleted() int {
	kept := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed > 0 {
		s.tasks = kept
		s.save()
	}
	return removed
}

func (s *Store) update(id int64, fn func(t *models.Task) bool) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	if fn(&s.tasks[i]) {
		s.save()
	}
	return true
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an id from the clock, bumped past the last issued id so ids
// stay unique when several tasks are created within the same millisecond.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) save() {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveTodos(context.Background(), s.All()); err != nil {
		s.log.Error().Err(err).Int("count", len(s.tasks)).Msg("failed to persist tasks")
	}
}
