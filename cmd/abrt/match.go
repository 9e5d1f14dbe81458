package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/config"
	"github.com/abrt/abrt-cli/internal/debug"
	"github.com/abrt/abrt-cli/internal/resolver"
	"github.com/abrt/abrt-cli/internal/types"
	"github.com/abrt/abrt-cli/internal/ui"
)

// matchArg returns the MATCH argument, defaulting to "last".
func matchArg(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return resolver.LastToken
	}
	return args[0]
}

// getProblem resolves token against a fresh snapshot of the store. Anything
// other than a single match is reported on w and returned as an exitError.
func (a *app) getProblem(ctx context.Context, w io.Writer, token string) (*types.Problem, error) {
	problems, err := a.store.ListProblems(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing problems: %w", err)
	}

	res := resolver.ResolveOrDefault(token, problems)
	switch res.Outcome {
	case resolver.Resolved:
		return res.Problem(), nil
	case resolver.NoProblems:
		fmt.Fprintln(w, ui.RenderMuted("No problems"))
		return nil, &exitError{Code: exitNoProblems, Message: "no problems"}
	case resolver.Ambiguous:
		fmt.Fprintln(w, "Ambiguous match specified resulting in multiple problems:")
		for _, p := range res.Problems {
			fmt.Fprintf(w, "- %s\n", resolver.FormatCandidate(p))
		}
		return nil, &exitError{Code: exitAmbiguous, Message: fmt.Sprintf("%q matches %d problems", token, len(res.Problems))}
	default:
		fmt.Fprintln(w, "No problem(s) matched")
		return nil, &exitError{Code: exitNoMatch, Message: fmt.Sprintf("%q matches no problem", token)}
	}
}

// unsupportedKind reports that an operation needs a native crash.
func unsupportedKind(w io.Writer, token, action string) error {
	which := "This"
	if token == resolver.LastToken {
		which = "Last"
	}
	fmt.Fprintln(w, ui.RenderWarn(fmt.Sprintf("%s problem is not of a C/C++ type. Can't %s", which, action)))
	return &exitError{Code: exitUnsupported, Message: "problem is not of a C/C++ type"}
}

// completeMatch offers match tokens for the first positional argument.
func (a *app) completeMatch(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := a.ensureStore(); err != nil {
		debug.Logf("completion: %v\n", err)
		return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	problems, err := a.store.ListProblems(ctx, false)
	if err != nil {
		debug.Logf("completion: %v\n", err)
		return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveError
	}

	limit := config.GetInt(config.KeyCompletionLimit)
	var out []string
	if len(problems) > 0 && strings.HasPrefix(resolver.LastToken, toComplete) {
		out = append(out, resolver.LastToken)
	}
	for token := range resolver.BuildIndex(problems).Completions() {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.HasPrefix(token, toComplete) {
			out = append(out, token)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
