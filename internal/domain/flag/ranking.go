package flag

import "sort"

// SortByPriority orders flags urgent first, then by creation time (oldest first).
func SortByPriority(flags []Flag) {
	sort.SliceStable(flags, func(i, j int) bool {
		ri, rj := flags[i].Priority.Rank(), flags[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return flags[i].CreatedAt.Before(flags[j].CreatedAt)
	})
}

// ActivePriority picks the flag that governs a withdrawal's processing priority.
// Workflow discipline should leave at most one effective flag; if several exist
// the highest priority wins, then the most recent review.
func ActivePriority(flags []Flag) *Flag {
	var best *Flag
	for i := range flags {
		f := &flags[i]
		if !f.Effective() {
			continue
		}
		if best == nil || outranks(f, best) {
			best = f
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

func outranks(a, b *Flag) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	switch {
	case a.ReviewedAt == nil:
		return false
	case b.ReviewedAt == nil:
		return true
	}
	return a.ReviewedAt.After(*b.ReviewedAt)
}

// Urgent reports whether any effective flag is urgent, with that flag's request comment.
func Urgent(flags []Flag) (bool, string) {
	var hit *Flag
	for i := range flags {
		f := &flags[i]
		if f.Effective() && f.IsUrgent() && (hit == nil || outranks(f, hit)) {
			hit = f
		}
	}
	if hit == nil {
		return false, ""
	}
	return true, hit.Comment
}
