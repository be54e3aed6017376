package tasks

import "github.com/tgienger/pomolist/internal/models"

// SortCandidates returns the open Today tasks in display order. These are the
// tasks handed to the sort advisor.
func (s *Store) SortCandidates() []models.Task {
	var out []models.Task
	for _, t := range s.tasks {
		if sortable(t) {
			out = append(out, t)
		}
	}
	return out
}

// ApplyOrder rebuilds the collection from an advisor ranking of task texts:
// recognized candidates in ranked order, then candidates the ranking left out
// in their previous order, then every other task in its previous order.
//
// Matching is by exact text. Each ranked text claims the first unclaimed
// candidate with that text, so repeated texts are placed once per occurrence
// and unknown texts are dropped.
func (s *Store) ApplyOrder(order []string) {
	candidates := s.SortCandidates()
	if len(candidates) == 0 {
		return
	}

	claimed := make([]bool, len(candidates))
	ranked := make([]models.Task, 0, len(candidates))
	for _, text := range order {
		for i, t := range candidates {
			if !claimed[i] && t.Text == text {
				claimed[i] = true
				ranked = append(ranked, t)
				break
			}
		}
	}

	out := make([]models.Task, 0, len(s.tasks))
	out = append(out, ranked...)
	for i, t := range candidates {
		if !claimed[i] {
			out = append(out, t)
		}
	}
	for _, t := range s.tasks {
		if !sortable(t) {
			out = append(out, t)
		}
	}

	s.tasks = out
	s.save()
}

func sortable(t models.Task) bool {
	return t.Group == models.GroupToday && !t.Completed
}
