package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"osta/internal/prof"
)

// profileCleanup stops profiling once the command has finished.
var profileCleanup = func() error { return nil }

// setupProfiling starts the profilers requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) (func() error, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		paths prof.Paths
		err   error
	)
	if paths.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if paths.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if paths.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !paths.Enabled() {
		return func() error { return nil }, nil
	}
	session, err := prof.Start(paths)
	if err != nil {
		return nil, err
	}
	return session.Stop, nil
}
