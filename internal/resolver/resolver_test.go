package resolver_test

import (
	"slices"
	"testing"
	"time"

	"github.com/abrt/abrt-cli/internal/resolver"
	"github.com/abrt/abrt-cli/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2015, 6, 1, 10, 0, 0, 0, time.UTC)

// fixture has two short-id collisions: bc60a5c is shared by unknown_problem
// and one pavucontrol problem, and pavucontrol owns two records.
func fixture() []*types.Problem {
	return []*types.Problem{
		{ID: "/var/spool/abrt/ccpp-1", ShortID: "ccacca5", Kind: types.KindCCpp, Executable: "/home/user/bin/user_app", Time: base},
		{ID: "/var/spool/abrt/ccpp-2", ShortID: "bc60a5c", Kind: types.KindCCpp, Component: "pavucontrol", Time: base.Add(time.Hour)},
		{ID: "/var/spool/abrt/ccpp-3", ShortID: "acbea5c", Kind: types.KindCCpp, Component: "pavucontrol", Time: base.Add(2 * time.Hour)},
		{ID: "/var/spool/abrt/ccpp-4", ShortID: "bc60a5c", Kind: types.KindCCpp, Component: "unknown_problem", Time: base.Add(3 * time.Hour)},
		{ID: "/var/spool/abrt/ccpp-5", ShortID: "ffe635c", Kind: types.KindCCpp, Component: "polkitd", Time: base.Add(-time.Hour)},
	}
}

func ids(problems []*types.Problem) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.ID
	}
	return out
}

func TestBuildIndex(t *testing.T) {
	idx := resolver.BuildIndex(fixture())

	assert.Equal(t, []string{"/home/user/bin/user_app", "pavucontrol", "unknown_problem", "polkitd"}, idx.HumanIDs())
	assert.Equal(t, []string{"ccacca5", "bc60a5c", "acbea5c", "ffe635c"}, idx.ShortIDs())

	human, short := idx.Len()
	assert.Equal(t, 5, human)
	assert.Equal(t, 5, short)

	assert.Equal(t, []string{"/var/spool/abrt/ccpp-2", "/var/spool/abrt/ccpp-3"}, ids(idx.ByHumanID("pavucontrol")))
	assert.Equal(t, []string{"/var/spool/abrt/ccpp-2", "/var/spool/abrt/ccpp-4"}, ids(idx.ByShortID("bc60a5c")))
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := resolver.BuildIndex(nil)
	assert.Empty(t, idx.HumanIDs())
	assert.Empty(t, idx.ShortIDs())
	assert.Empty(t, slices.Collect(idx.Completions()))
}

func TestResolve(t *testing.T) {
	problems := fixture()

	tests := []struct {
		name    string
		token   string
		outcome resolver.Outcome
		want    []string
	}{
		{"unique human id", "polkitd", resolver.Resolved, []string{"/var/spool/abrt/ccpp-5"}},
		{"executable human id", "/home/user/bin/user_app", resolver.Resolved, []string{"/var/spool/abrt/ccpp-1"}},
		{"unique short id", "ffe635c", resolver.Resolved, []string{"/var/spool/abrt/ccpp-5"}},
		{"shared human id", "pavucontrol", resolver.Ambiguous, []string{"/var/spool/abrt/ccpp-2", "/var/spool/abrt/ccpp-3"}},
		{"colliding short id", "bc60a5c", resolver.Ambiguous, []string{"/var/spool/abrt/ccpp-2", "/var/spool/abrt/ccpp-4"}},
		{"compound disambiguates", "pavucontrol@bc60a5c", resolver.Resolved, []string{"/var/spool/abrt/ccpp-2"}},
		{"compound second record", "pavucontrol@acbea5c", resolver.Resolved, []string{"/var/spool/abrt/ccpp-3"}},
		{"compound unknown human", "gnome-shell@bc60a5c", resolver.NotFound, nil},
		{"compound wrong short", "pavucontrol@ffe635c", resolver.NotFound, nil},
		{"compound empty short", "pavucontrol@", resolver.NotFound, nil},
		{"empty token", "", resolver.NotFound, nil},
		{"no match", "nonexistent", resolver.NotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.token, problems)
			assert.Equal(t, tt.outcome, got.Outcome, "outcome is %s", got.Outcome)
			if tt.want == nil {
				assert.Empty(t, got.Problems)
				return
			}
			assert.Equal(t, tt.want, ids(got.Problems))
		})
	}
}

func TestResolveHumanIDBeatsShortID(t *testing.T) {
	problems := []*types.Problem{
		{ID: "a", ShortID: "deadbee", Component: "bash"},
		{ID: "b", ShortID: "cafef00", Component: "deadbee"},
	}
	got := resolver.Resolve("deadbee", problems)
	require.Equal(t, resolver.Resolved, got.Outcome)
	assert.Equal(t, "b", got.Problem().ID)
}

func TestResolveCompoundSplitsOnFirstSeparator(t *testing.T) {
	problems := []*types.Problem{
		{ID: "a", ShortID: "x@y", Component: "mail"},
		{ID: "b", ShortID: "z", Component: "mail"},
	}
	got := resolver.Resolve("mail@x@y", problems)
	require.Equal(t, resolver.Resolved, got.Outcome)
	assert.Equal(t, "a", got.Problem().ID)
}

func TestResolveOrDefaultLast(t *testing.T) {
	got := resolver.ResolveOrDefault(resolver.LastToken, fixture())
	require.Equal(t, resolver.Resolved, got.Outcome)
	assert.Equal(t, "/var/spool/abrt/ccpp-4", got.Problem().ID)
}

func TestResolveOrDefaultLastTieKeepsFirst(t *testing.T) {
	problems := []*types.Problem{
		{ID: "first", ShortID: "1", Time: base},
		{ID: "second", ShortID: "2", Time: base},
	}
	got := resolver.ResolveOrDefault(resolver.LastToken, problems)
	require.Equal(t, resolver.Resolved, got.Outcome)
	assert.Equal(t, "first", got.Problem().ID)
}

func TestResolveOrDefaultNoProblems(t *testing.T) {
	got := resolver.ResolveOrDefault(resolver.LastToken, nil)
	assert.Equal(t, resolver.NoProblems, got.Outcome)
	assert.Nil(t, got.Problem())

	// Any other token on an empty set is a plain miss.
	got = resolver.ResolveOrDefault("polkitd", nil)
	assert.Equal(t, resolver.NotFound, got.Outcome)
}

func TestResolveOrDefaultLastWinsOverHumanID(t *testing.T) {
	problems := []*types.Problem{
		{ID: "named-last", ShortID: "1", Component: "last", Time: base},
		{ID: "newer", ShortID: "2", Component: "bash", Time: base.Add(time.Minute)},
	}
	got := resolver.ResolveOrDefault(resolver.LastToken, problems)
	require.Equal(t, resolver.Resolved, got.Outcome)
	assert.Equal(t, "newer", got.Problem().ID)
}

func TestCompletions(t *testing.T) {
	idx := resolver.BuildIndex(fixture())
	got := slices.Collect(idx.Completions())

	want := []string{
		"ccacca5", "bc60a5c", "acbea5c", "ffe635c",
		"/home/user/bin/user_app",
		"pavucontrol@bc60a5c", "pavucontrol@acbea5c",
		"unknown_problem",
		"polkitd",
	}
	assert.Equal(t, want, got)
}

func TestCompletionsResolve(t *testing.T) {
	problems := fixture()
	idx := resolver.BuildIndex(problems)
	for token := range idx.Completions() {
		got := idx.Resolve(token)
		assert.NotEqual(t, resolver.NotFound, got.Outcome, "completion %q resolves to nothing", token)
	}
}

func TestCompletionsStopEarly(t *testing.T) {
	idx := resolver.BuildIndex(fixture())
	var seen []string
	for token := range idx.Completions() {
		seen = append(seen, token)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"ccacca5", "bc60a5c"}, seen)
}

func TestFormatCandidate(t *testing.T) {
	p := &types.Problem{Component: "pavucontrol", ShortID: "bc60a5c", Time: base.In(time.Local)}
	want := "pavucontrol@bc60a5c (" + base.In(time.Local).Format(resolver.CandidateTimeLayout) + ")"
	assert.Equal(t, want, resolver.FormatCandidate(p))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "resolved", resolver.Resolved.String())
	assert.Equal(t, "ambiguous", resolver.Ambiguous.String())
	assert.Equal(t, "not-found", resolver.NotFound.String())
	assert.Equal(t, "no-problems", resolver.NoProblems.String())
}
