package models

import "strings"

// NormalizeTasks backfills defaults on tasks read from storage so the rest of
// the program can rely on every field being set. Blank tasks are dropped and
// duplicate or non-positive ids are replaced with fresh ones above the
// current maximum.
func NormalizeTasks(in []Task) []Task {
	out := make([]Task, 0, len(in))
	seen := make(map[int64]bool, len(in))

	var maxID int64
	for _, t := range in {
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	for _, t := range in {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		if !t.Priority.Valid() {
			t.Priority = PriorityMedium
		}
		if !t.Group.Valid() {
			t.Group = GroupInbox
		}
		if t.Pomodoros < 1 {
			t.Pomodoros = 1
		}
		if t.CompletedPomodoros < 0 {
			t.CompletedPomodoros = 0
		}
		if t.ID <= 0 || seen[t.ID] {
			maxID++
			t.ID = maxID
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
