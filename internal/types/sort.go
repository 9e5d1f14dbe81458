package types

import (
	"cmp"
	"slices"
	"strings"
)

// SortField names a problem attribute usable for ordering.
type SortField string

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortFieldTime      SortField = "time"
	SortFieldComponent SortField = "component"
	SortFieldCount     SortField = "count"
	SortFieldID        SortField = "id"

	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOption is one key of a multi-key ordering.
type SortOption struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortOptions returns the default ordering for problem lists:
// most recent first, short id as a stable tie breaker.
func DefaultSortOptions() []SortOption {
	return []SortOption{
		{Field: SortFieldTime, Direction: SortDesc},
		{Field: SortFieldID, Direction: SortAsc},
	}
}

// ParseSortOrder converts a comma-delimited string (e.g. "count-desc,time-asc")
// into a slice of SortOption values. Unrecognised fields or directions are skipped.
// A bare field name sorts in its natural direction (time and count descending).
func ParseSortOrder(raw string) []SortOption {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	options := make([]SortOption, 0, len(parts))
	seen := make(map[SortField]bool)

	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}

		field, dir := splitSortToken(token)
		sortField := mapSortField(field)
		if sortField == "" {
			continue
		}

		direction := naturalDirection(sortField)
		if dir != "" {
			direction = mapSortDirection(dir)
			if direction == "" {
				continue
			}
		}

		if seen[sortField] {
			continue
		}
		seen[sortField] = true

		options = append(options, SortOption{Field: sortField, Direction: direction})
	}

	return options
}

// EncodeSortOrder converts sort options back into their canonical string form.
func EncodeSortOrder(options []SortOption) string {
	if len(options) == 0 {
		return ""
	}
	tokens := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.Field == "" || opt.Direction == "" {
			continue
		}
		tokens = append(tokens, string(opt.Field)+"-"+string(opt.Direction))
	}
	return strings.Join(tokens, ",")
}

// SortProblems orders problems in place. Nil or empty options use
// DefaultSortOptions. The sort is stable so equal keys keep store order.
func SortProblems(problems []*Problem, options []SortOption) {
	if len(options) == 0 {
		options = DefaultSortOptions()
	}
	slices.SortStableFunc(problems, func(a, b *Problem) int {
		for _, opt := range options {
			var result int
			switch opt.Field {
			case SortFieldTime:
				result = a.Time.Compare(b.Time)
			case SortFieldComponent:
				result = cmp.Compare(strings.ToLower(a.HumanIDValue()), strings.ToLower(b.HumanIDValue()))
			case SortFieldCount:
				result = cmp.Compare(a.Count, b.Count)
			case SortFieldID:
				result = cmp.Compare(a.ShortID, b.ShortID)
			}
			if opt.Direction == SortDesc {
				result = -result
			}
			if result != 0 {
				return result
			}
		}
		return 0
	})
}

// SortByRecency orders problems most recent first.
func SortByRecency(problems []*Problem) {
	SortProblems(problems, DefaultSortOptions())
}

func splitSortToken(token string) (string, string) {
	if idx := strings.IndexAny(token, ":-"); idx >= 0 {
		left := strings.TrimSpace(token[:idx])
		right := strings.TrimSpace(token[idx+1:])
		return strings.ToLower(left), strings.ToLower(right)
	}
	return strings.ToLower(token), ""
}

func mapSortField(raw string) SortField {
	switch raw {
	case "time", "date", "last_occurrence":
		return SortFieldTime
	case "component", "name", "human":
		return SortFieldComponent
	case "count", "occurrences":
		return SortFieldCount
	case "id", "short_id":
		return SortFieldID
	default:
		return ""
	}
}

func mapSortDirection(raw string) SortDirection {
	switch raw {
	case "asc", "ascending":
		return SortAsc
	case "desc", "descending":
		return SortDesc
	default:
		return ""
	}
}

func naturalDirection(field SortField) SortDirection {
	switch field {
	case SortFieldTime, SortFieldCount:
		return SortDesc
	default:
		return SortAsc
	}
}
