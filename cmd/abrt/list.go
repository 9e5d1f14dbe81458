package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/config"
	"github.com/abrt/abrt-cli/internal/debug"
	"github.com/abrt/abrt-cli/internal/storage"
	"github.com/abrt/abrt-cli/internal/timeparsing"
	"github.com/abrt/abrt-cli/internal/types"
	"github.com/abrt/abrt-cli/internal/ui"
)

type listOptions struct {
	since       string
	until       string
	fmtStr      string
	pretty      string
	auth        bool
	nonReported bool
	sort        string
	kinds       []string
	watch       bool
	noPager     bool
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "problems",
		Short:   "List problems",
		Long: `List problems, most recent first.

--since and --until accept unix timestamps, compact durations (-2d, 6h),
dates (2006-01-02, RFC3339) and phrases such as "last monday". Both bounds
are inclusive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("pretty") {
				opts.pretty = config.GetString(config.KeyListPretty)
			}
			return a.runList(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.since, "since", "", "List only the problems more recent than this time")
	cmd.Flags().StringVar(&opts.until, "until", "", "List only the problems older than this time")
	cmd.Flags().StringVar(&opts.fmtStr, "fmt", "", "Go template used to render each problem")
	cmd.Flags().StringVar(&opts.pretty, "pretty", prettyMedium, "Built-in output format: "+strings.Join(prettyFormats, ", "))
	cmd.Flags().BoolVarP(&opts.auth, "auth", "a", false, "Show all problems on this machine, not only your own")
	cmd.Flags().BoolVarP(&opts.nonReported, "non-reported", "n", false, "List only non-reported problems")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort order, e.g. time-desc,count-desc (fields: time, component, count, id)")
	cmd.Flags().StringSliceVarP(&opts.kinds, "type", "t", nil, "List only problems of these types (CCpp, Python, ...)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Keep running and redraw the list when problems change")
	cmd.Flags().BoolVar(&opts.noPager, "no-pager", false, "Do not pipe output through a pager")
	_ = cmd.RegisterFlagCompletionFunc("pretty", cobra.FixedCompletions(prettyFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// buildFilter turns the filtering flags into a ProblemFilter.
func buildFilter(opts listOptions, now time.Time) (types.ProblemFilter, error) {
	var filter types.ProblemFilter
	if opts.since != "" {
		t, err := timeparsing.ParseRelativeTime(opts.since, now)
		if err != nil {
			return filter, fmt.Errorf("invalid --since: %w", err)
		}
		filter.Since = &t
	}
	if opts.until != "" {
		t, err := timeparsing.ParseRelativeTime(opts.until, now)
		if err != nil {
			return filter, fmt.Errorf("invalid --until: %w", err)
		}
		filter.Until = &t
	}
	filter.NonReported = opts.nonReported
	for _, raw := range opts.kinds {
		k := types.ParseKind(raw)
		if k == types.KindUnknown && !strings.EqualFold(strings.TrimSpace(raw), string(types.KindUnknown)) {
			return filter, fmt.Errorf("unknown problem type %q", raw)
		}
		filter.Kinds = append(filter.Kinds, k)
	}
	return filter, nil
}

func (a *app) runList(cmd *cobra.Command, opts listOptions) error {
	filter, err := buildFilter(opts, a.now())
	if err != nil {
		return err
	}
	formatter, err := newProblemFormatter(opts.pretty, opts.fmtStr)
	if err != nil {
		return err
	}
	if opts.watch {
		return a.watchList(cmd, opts, filter, formatter)
	}

	ctx := a.context()
	problems, err := a.selectProblems(ctx, opts, filter)
	if err != nil {
		return err
	}
	if a.structured() {
		return a.encode(cmd.OutOrStdout(), problems)
	}
	content, err := renderProblemList(problems, formatter)
	if err != nil {
		return err
	}
	return ui.ToPager(content, ui.PagerOptions{NoPager: opts.noPager, Out: cmd.OutOrStdout()})
}

// selectProblems fetches, filters and orders the problems for a listing.
func (a *app) selectProblems(ctx context.Context, opts listOptions, filter types.ProblemFilter) ([]*types.Problem, error) {
	all, err := a.store.ListProblems(ctx, opts.auth)
	if err != nil {
		return nil, fmt.Errorf("listing problems: %w", err)
	}
	problems := types.FilterProblems(all, filter)
	types.SortProblems(problems, types.ParseSortOrder(opts.sort))
	debug.Logf("list: %d of %d problems after filtering\n", len(problems), len(all))
	return problems, nil
}

func renderProblemList(problems []*types.Problem, formatter *problemFormatter) (string, error) {
	if len(problems) == 0 {
		return ui.RenderMuted("No problems") + "\n", nil
	}
	out, err := formatter.FormatAll(problems)
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

// watchList redraws the listing whenever the dump location changes, until
// the command's context is cancelled.
func (a *app) watchList(cmd *cobra.Command, opts listOptions, filter types.ProblemFilter, formatter *problemFormatter) error {
	w, ok := a.store.(storage.Watcher)
	if !ok || w.WatchPath() == "" {
		return fmt.Errorf("--watch needs a problem store backed by a directory")
	}
	path := w.WatchPath()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	ctx := a.context()
	out := cmd.OutOrStdout()
	var mu sync.Mutex
	redraw := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := a.drawList(ctx, out, opts, filter, formatter); err != nil && ctx.Err() == nil {
			WarnError("%v", err)
		}
	}

	redraw()
	debug.FprintNormal(cmd.ErrOrStderr(), "\n%s\n", ui.RenderMuted(fmt.Sprintf("Watching %s for changes... (Press Ctrl+C to exit)", path)))

	delay := config.GetDuration(config.KeyWatchDebounce)
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	debouncer := NewDebouncer(delay, redraw)
	defer debouncer.CancelAndWait()

	for {
		select {
		case <-ctx.Done():
			debug.FprintNormal(cmd.ErrOrStderr(), "\n%s\n", ui.RenderMuted("Stopped watching."))
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Write) {
				debug.Logf("watch: %s\n", event)
				debouncer.Trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Logf("watch error: %v\n", err)
		}
	}
}

func (a *app) drawList(ctx context.Context, out io.Writer, opts listOptions, filter types.ProblemFilter, formatter *problemFormatter) error {
	problems, err := a.selectProblems(ctx, opts, filter)
	if err != nil {
		return err
	}
	if a.structured() {
		return a.encode(out, problems)
	}
	content, err := renderProblemList(problems, formatter)
	if err != nil {
		return err
	}
	if out == io.Writer(os.Stdout) && ui.IsTerminal() {
		fmt.Fprint(out, "\033[H\033[2J")
	}
	_, err = fmt.Fprint(out, content)
	return err
}
