package tasks

import (
	"strings"
	"testing"

	"github.com/tgienger/pomolist/internal/models"
	"pgregory.net/rapid"
)

func genText(t *rapid.T, label string) string {
	letters := "abc xyz"
	n := rapid.IntRange(0, 8).Draw(t, label+"Len")
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rapid.IntRange(0, len(letters)-1).Draw(t, label+"Char")]
	}
	return string(b)
}

func pickID(t *rapid.T, s *Store, label string) int64 {
	all := s.All()
	if len(all) == 0 || rapid.IntRange(0, 9).Draw(t, label+"Miss") == 0 {
		return rapid.Int64Range(-5, 5).Draw(t, label+"Stray")
	}
	return all[rapid.IntRange(0, len(all)-1).Draw(t, label+"Idx")].ID
}

// Random command sequences never produce an estimate below one, never drop
// a task without a confirmed request, and keep ids unique.
func TestStore_CommandSequenceInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(&memRepo{}, nil)
		g := NewGate(s)

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := len(s.All())
			confirmed := false

			switch rapid.IntRange(0, 9).Draw(t, "op") {
			case 0:
				s.Add(genText(t, "add"))
			case 1:
				s.ToggleCompleted(pickID(t, s, "toggle"))
			case 2:
				s.Edit(pickID(t, s, "edit"), genText(t, "edit"))
			case 3:
				s.SetPomodoroEstimate(pickID(t, s, "est"), rapid.IntRange(-3, 6).Draw(t, "count"))
			case 4:
				s.MoveGroup(pickID(t, s, "move"))
			case 5:
				g.RequestDelete(pickID(t, s, "del"))
			case 6:
				g.RequestClearCompleted()
			case 7:
				g.Cancel()
			case 8:
				g.Confirm()
				confirmed = true
			case 9:
				s.MoveDown(pickID(t, s, "down"))
			}

			after := s.All()
			if !confirmed && len(after) < before {
				t.Fatalf("collection shrank from %d to %d without a confirmation", before, len(after))
			}

			seen := map[int64]bool{}
			for _, task := range after {
				if task.Pomodoros < 1 {
					t.Fatalf("task %d has estimate %d", task.ID, task.Pomodoros)
				}
				if strings.TrimSpace(task.Text) == "" {
					t.Fatalf("task %d has blank text", task.ID)
				}
				if seen[task.ID] {
					t.Fatalf("duplicate id %d", task.ID)
				}
				seen[task.ID] = true
			}
		}
	})
}

func TestStore_BlankAddNeverChangesCollection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(&memRepo{}, nil)
		for i := rapid.IntRange(0, 5).Draw(t, "prefill"); i > 0; i-- {
			s.Add("task")
		}
		before := s.All()

		blank := strings.Repeat(rapid.SampledFrom([]string{" ", "\t", "\n"}).Draw(t, "ws"), rapid.IntRange(0, 6).Draw(t, "n"))
		_, ok := s.Add(blank)

		if ok || len(s.All()) != len(before) {
			t.Fatalf("blank add %q changed the collection", blank)
		}
	})
}

func TestStore_MoveGroupTwiceRestoresGroup(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		group := rapid.SampledFrom([]models.Group{models.GroupInbox, models.GroupToday}).Draw(t, "group")
		s := New(&memRepo{}, []models.Task{{ID: 1, Text: "a", Group: group}})

		s.MoveGroup(1)
		s.MoveGroup(1)

		got, _ := s.Get(1)
		if got.Group != group {
			t.Fatalf("group %s became %s", group, got.Group)
		}
	})
}
