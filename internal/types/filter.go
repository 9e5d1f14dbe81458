package types

import "time"

// ProblemFilter narrows a problem list. Zero value matches everything.
type ProblemFilter struct {
	// Since keeps problems that occurred at or after this time.
	Since *time.Time
	// Until keeps problems that occurred at or before this time.
	Until *time.Time
	// NonReported keeps problems without any reported_to entry.
	NonReported bool
	// Kinds keeps problems whose kind is in the set (empty = all kinds).
	Kinds []Kind
}

// IsEmpty reports whether the filter would keep every problem.
func (f ProblemFilter) IsEmpty() bool {
	return f.Since == nil && f.Until == nil && !f.NonReported && len(f.Kinds) == 0
}

// Matches reports whether p passes every condition of the filter.
func (f ProblemFilter) Matches(p *Problem) bool {
	if f.Since != nil && p.Time.Before(*f.Since) {
		return false
	}
	if f.Until != nil && p.Time.After(*f.Until) {
		return false
	}
	if f.NonReported && p.IsReported() {
		return false
	}
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if p.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterProblems returns the problems that match f, preserving order.
// The input slice is not modified.
func FilterProblems(problems []*Problem, f ProblemFilter) []*Problem {
	if f.IsEmpty() {
		out := make([]*Problem, len(problems))
		copy(out, problems)
		return out
	}
	out := make([]*Problem, 0, len(problems))
	for _, p := range problems {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
