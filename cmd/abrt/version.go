package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of abrt (overridden by ldflags at build time)
	Version = "2.17.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit is the git revision the binary was built from (optional ldflag)
	Commit = ""
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{noStoreAnnotation: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printVersion(cmd)
		},
	}
}

func (a *app) printVersion(cmd *cobra.Command) error {
	commit := resolveCommitHash()
	if a.output == outputJSON || a.output == outputYAML {
		info := map[string]string{
			"version": Version,
			"build":   Build,
		}
		if commit != "" {
			info["commit"] = commit
		}
		return a.encode(cmd.OutOrStdout(), info)
	}
	if commit != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "abrt version %s (%s: %s)\n", Version, Build, shortCommit(commit))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "abrt version %s (%s)\n", Version, Build)
	return nil
}

func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
