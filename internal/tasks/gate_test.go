package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_RequestDoesNotMutate(t *testing.T) {
	s, repo := newTestStore(t)
	task, _ := s.Add("a")
	g := NewGate(s)
	saves := repo.saves

	g.RequestDelete(task.ID)

	assert.True(t, g.Active())
	assert.Equal(t, Pending{Kind: PendingTask, TaskID: task.ID}, g.Pending())
	assert.Len(t, s.All(), 1)
	assert.Equal(t, saves, repo.saves)
}

func TestGate_ConfirmDeletes(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a")
	s.Add("b")
	g := NewGate(s)

	g.RequestDelete(a.ID)
	assert.Equal(t, 1, g.Confirm())

	assert.Equal(t, []string{"b"}, texts(s.All()))
	assert.False(t, g.Active())
}

func TestGate_CancelLeavesCollectionUnchanged(t *testing.T) {
	s, repo := newTestStore(t)
	s.Add("a")
	b, _ := s.Add("b")
	before := s.All()
	saves := repo.saves
	g := NewGate(s)

	g.RequestDelete(b.ID)
	g.Cancel()

	assert.Equal(t, before, s.All())
	assert.Equal(t, saves, repo.saves)
	assert.False(t, g.Active())
	assert.Zero(t, g.Confirm())
}

func TestGate_LastRequestWins(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	g := NewGate(s)

	g.RequestDelete(a.ID)
	g.RequestDelete(b.ID)
	g.Confirm()

	assert.Equal(t, []string{"a"}, texts(s.All()))
}

func TestGate_UnknownIDIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	g := NewGate(s)

	g.RequestDelete(99)
	assert.False(t, g.Active())
}

func TestGate_ClearCompleted(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a")
	s.Add("b")
	c, _ := s.Add("c")
	s.ToggleCompleted(a.ID)
	s.ToggleCompleted(c.ID)
	g := NewGate(s)

	g.RequestClearCompleted()
	assert.Equal(t, Pending{Kind: PendingClearCompleted}, g.Pending())
	assert.Len(t, s.All(), 3)

	assert.Equal(t, 2, g.Confirm())
	assert.Equal(t, []string{"b"}, texts(s.All()))
}

func TestGate_ClearCompletedWithoutCompletedIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")
	g := NewGate(s)

	g.RequestClearCompleted()
	assert.False(t, g.Active())
}

func TestGate_ClearCompletedOverwritesTaskRequest(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	s.ToggleCompleted(b.ID)
	g := NewGate(s)

	g.RequestDelete(a.ID)
	g.RequestClearCompleted()
	g.Confirm()

	assert.Equal(t, []string{"a"}, texts(s.All()))
}

func TestGate_ConfirmAfterTaskVanished(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("a")
	g := NewGate(s)

	g.RequestDelete(a.ID)
	s.remove(a.ID)

	assert.Zero(t, g.Confirm())
	assert.False(t, g.Active())
}
