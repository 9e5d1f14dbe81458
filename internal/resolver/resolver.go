// Package resolver turns a user-supplied match token into problem records.
//
// A token is one of:
//   - a human identifier (component, executable or kind),
//   - a short identifier,
//   - the compound form humanId@shortId,
//   - the reserved word "last".
//
// Lookups never guess: a token matching several problems is reported as
// Ambiguous with every candidate, in store order.
package resolver

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/abrt/abrt-cli/internal/types"
)

// LastToken selects the most recent problem.
const LastToken = "last"

// Separator splits a compound humanId@shortId token.
const Separator = "@"

// CandidateTimeLayout is the timestamp layout used when listing ambiguous
// candidates.
const CandidateTimeLayout = "2006-01-02 15:04:05"

// Outcome classifies a resolution.
type Outcome int

const (
	// NotFound means no problem matched the token.
	NotFound Outcome = iota
	// Resolved means exactly one problem matched.
	Resolved
	// Ambiguous means more than one problem matched.
	Ambiguous
	// NoProblems means the "last" token was used on an empty problem set.
	NoProblems
)

func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not-found"
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	case NoProblems:
		return "no-problems"
	default:
		return "unknown"
	}
}

// Result is the outcome of a lookup together with the matching problems.
type Result struct {
	Outcome  Outcome
	Problems []*types.Problem
}

// Problem returns the resolved problem, or nil unless Outcome is Resolved.
func (r Result) Problem() *types.Problem {
	if r.Outcome != Resolved || len(r.Problems) != 1 {
		return nil
	}
	return r.Problems[0]
}

func resultFor(candidates []*types.Problem) Result {
	switch len(candidates) {
	case 0:
		return Result{Outcome: NotFound}
	case 1:
		return Result{Outcome: Resolved, Problems: candidates}
	default:
		return Result{Outcome: Ambiguous, Problems: candidates}
	}
}

// Index maps human and short identifiers to problems. Buckets and keys keep
// first-seen order so listings are deterministic. An Index is a snapshot: it
// is never updated after BuildIndex returns.
type Index struct {
	byHumanID  map[string][]*types.Problem
	byShortID  map[string][]*types.Problem
	humanOrder []string
	shortOrder []string
}

// BuildIndex indexes problems in the order given. It accepts any input,
// including an empty slice.
func BuildIndex(problems []*types.Problem) *Index {
	idx := &Index{
		byHumanID: make(map[string][]*types.Problem),
		byShortID: make(map[string][]*types.Problem),
	}
	for _, p := range problems {
		if p == nil {
			continue
		}
		human := p.HumanIDValue()
		if _, ok := idx.byHumanID[human]; !ok {
			idx.humanOrder = append(idx.humanOrder, human)
		}
		idx.byHumanID[human] = append(idx.byHumanID[human], p)

		if _, ok := idx.byShortID[p.ShortID]; !ok {
			idx.shortOrder = append(idx.shortOrder, p.ShortID)
		}
		idx.byShortID[p.ShortID] = append(idx.byShortID[p.ShortID], p)
	}
	return idx
}

// ByHumanID returns the bucket for a human identifier.
func (idx *Index) ByHumanID(human string) []*types.Problem {
	return idx.byHumanID[human]
}

// ByShortID returns the bucket for a short identifier.
func (idx *Index) ByShortID(short string) []*types.Problem {
	return idx.byShortID[short]
}

// HumanIDs returns the human identifier keys in first-seen order.
func (idx *Index) HumanIDs() []string {
	return append([]string(nil), idx.humanOrder...)
}

// ShortIDs returns the short identifier keys in first-seen order.
func (idx *Index) ShortIDs() []string {
	return append([]string(nil), idx.shortOrder...)
}

// Len returns the total number of indexed records per index. Both counts
// are always equal.
func (idx *Index) Len() (human, short int) {
	for _, bucket := range idx.byHumanID {
		human += len(bucket)
	}
	for _, bucket := range idx.byShortID {
		short += len(bucket)
	}
	return human, short
}

// Resolve looks token up in priority order: human id, short id, then the
// compound humanId@shortId form split on the first separator.
func (idx *Index) Resolve(token string) Result {
	if bucket, ok := idx.byHumanID[token]; ok {
		return resultFor(bucket)
	}
	if bucket, ok := idx.byShortID[token]; ok {
		return resultFor(bucket)
	}
	if human, short, ok := strings.Cut(token, Separator); ok {
		bucket, ok := idx.byHumanID[human]
		if !ok {
			return Result{Outcome: NotFound}
		}
		var candidates []*types.Problem
		for _, p := range bucket {
			if p.ShortID == short {
				candidates = append(candidates, p)
			}
		}
		return resultFor(candidates)
	}
	return Result{Outcome: NotFound}
}

// Completions yields every token that selects something: all short ids,
// then bare human ids for single-record buckets and humanId@shortId for
// each record of a shared bucket. Consumers may stop early.
func (idx *Index) Completions() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, short := range idx.shortOrder {
			if !yield(short) {
				return
			}
		}
		for _, human := range idx.humanOrder {
			bucket := idx.byHumanID[human]
			if len(bucket) == 1 {
				if !yield(human) {
					return
				}
				continue
			}
			for _, p := range bucket {
				if !yield(human + Separator + p.ShortID) {
					return
				}
			}
		}
	}
}

// Resolve builds a fresh index over problems and resolves token against it.
func Resolve(token string, problems []*types.Problem) Result {
	return BuildIndex(problems).Resolve(token)
}

// ResolveOrDefault handles the "last" token by picking the most recent
// problem without indexing; any other token goes through Resolve.
func ResolveOrDefault(token string, problems []*types.Problem) Result {
	if token == LastToken {
		return MostRecent(problems)
	}
	return Resolve(token, problems)
}

// MostRecent returns the problem with the latest timestamp, or NoProblems.
// Ties go to the problem listed first.
func MostRecent(problems []*types.Problem) Result {
	var latest *types.Problem
	for _, p := range problems {
		if p == nil {
			continue
		}
		if latest == nil || p.Time.After(latest.Time) {
			latest = p
		}
	}
	if latest == nil {
		return Result{Outcome: NoProblems}
	}
	return Result{Outcome: Resolved, Problems: []*types.Problem{latest}}
}

// FormatCandidate renders one line of an ambiguity listing:
// humanId@shortId (timestamp).
func FormatCandidate(p *types.Problem) string {
	return fmt.Sprintf("%s (%s)", p.MatchString(), p.Time.In(time.Local).Format(CandidateTimeLayout))
}
