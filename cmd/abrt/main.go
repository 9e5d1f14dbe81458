package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abrt/abrt-cli/internal/config"
	"github.com/abrt/abrt-cli/internal/debug"
	"github.com/abrt/abrt-cli/internal/events"
	"github.com/abrt/abrt-cli/internal/storage"
	"github.com/abrt/abrt-cli/internal/storage/dumpdir"
	"github.com/abrt/abrt-cli/internal/telemetry"
	"github.com/abrt/abrt-cli/internal/ui"
)

// Output modes accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// noStoreAnnotation marks commands that run without opening the problem store.
const noStoreAnnotation = "abrt.no-store"

// app carries the state shared by every command of one invocation.
type app struct {
	store  storage.Storage
	runner *events.Runner

	// Hooks replaced by tests.
	openStore func() (storage.Storage, error)
	confirm   func(question string, defaultYes bool) (bool, error)
	geteuid   func() int
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	verbose      bool
	quiet        bool
	output       string
	dumpLocation string
}

func newApp() *app {
	return &app{
		openStore: openDumpDirStore,
		confirm:   ui.Confirm,
		geteuid:   os.Geteuid,
		now:       time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "abrt",
		Short: "abrt - Manage problems detected by ABRT",
		Long: `List, inspect and act on the crash reports collected by the ABRT daemon.

Commands taking a MATCH accept a component or executable name, a short id,
the compound name@shortid form, or "last" (the default) for the most recent
problem.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				return a.printVersion(cmd)
			}
			return cmd.Help()
		},
		PersistentPreRunE: a.preRun,
		PersistentPostRun: a.postRun,
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose/debug output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress non-essential output (errors only)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "", "Output format: text, json or yaml (default from config)")
	root.PersistentFlags().StringVar(&a.dumpLocation, "dump-location", "", "Problem directory root (default /var/spool/abrt)")
	root.Flags().BoolP("version", "V", false, "Print version information")

	root.AddGroup(
		&cobra.Group{ID: "problems", Title: "Working With Problems:"},
		&cobra.Group{ID: "tools", Title: "Debugging & Reporting:"},
	)

	root.AddCommand(
		newListCmd(a),
		newStatusCmd(a),
		newInfoCmd(a),
		newRmCmd(a),
		newBacktraceCmd(a),
		newRetraceCmd(a),
		newReportCmd(a),
		newGDBCmd(a),
		newDebuginfoCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	a.ctx, a.cancel = signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)

	debug.SetVerbose(a.verbose)
	debug.SetQuiet(a.quiet)
	ui.ApplyColorProfile()

	if cmd.Flags().Changed("dump-location") {
		config.Set(config.KeyDumpLocation, a.dumpLocation)
	}
	if !cmd.Flags().Changed("output") {
		a.output = config.GetString(config.KeyOutput)
	}
	if a.output == "" {
		a.output = outputText
	}
	switch a.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("invalid output format %q (want text, json or yaml)", a.output)
	}

	if !needsStore(cmd) {
		return nil
	}
	if err := telemetry.Init(a.ctx, "abrt", Version); err != nil {
		WarnError("telemetry disabled: %v", err)
	}
	return a.ensureStore()
}

func (a *app) postRun(_ *cobra.Command, _ []string) {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			debug.Logf("closing store: %v\n", err)
		}
	}
	telemetry.Shutdown(context.Background())
	if a.cancel != nil {
		a.cancel()
	}
}

// context returns the signal-aware context of the running command.
func (a *app) context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

func (a *app) ensureStore() error {
	if a.store != nil {
		return nil
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	a.store = s
	return nil
}

// ensureRunner builds the event runner from the built-in events, the
// optional events file and the per-command overrides in config.
func (a *app) ensureRunner() *events.Runner {
	if a.runner != nil {
		return a.runner
	}
	reg := events.NewRegistry()
	if path := config.GetString(config.KeyEventsFile); path != "" {
		if err := reg.LoadFile(path); err != nil {
			WarnError("%v", err)
		}
	}
	reg.Override(events.EventGDB, config.GetString(config.KeyGDBCommand))
	reg.Override(events.EventDebuginfoInstall, config.GetString(config.KeyDebuginfoCommand))
	reg.Override(events.EventReportCLI, config.GetString(config.KeyReportCommand))
	a.runner = events.NewRunner(reg)
	return a.runner
}

func openDumpDirStore() (storage.Storage, error) {
	s, err := dumpdir.New(dumpdir.Options{
		Path:        config.GetString(config.KeyDumpLocation),
		Concurrency: config.GetInt(config.KeyLoadConcurrency),
		LockTimeout: config.GetDuration(config.KeyLockTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("opening problem store: %w", err)
	}
	return telemetry.WrapStorage(s), nil
}

// needsStore reports whether cmd reads problems.
func needsStore(cmd *cobra.Command) bool {
	if !cmd.HasParent() {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noStoreAnnotation] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func main() {
	if err := config.Initialize(); err != nil {
		FatalError("%v", err)
	}

	root := newRootCmd(newApp())
	err := root.Execute()
	var ee *exitError
	switch {
	case err == nil, errors.As(err, &ee):
	case errors.Is(err, storage.ErrPermission):
		FatalErrorWithHint(err.Error(), "Check the permissions of "+config.GetString(config.KeyDumpLocation)+" or run abrt as root")
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("Error:"), err)
	}
	os.Exit(exitCode(err))
}
