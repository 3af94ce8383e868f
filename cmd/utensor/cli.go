package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hunglethanh9/uTensor/internal/config"
)

const version = "v0.1.0-dev"

// appendEnvDocs lists the environment variables cmd honours in its usage text.
func appendEnvDocs(cmd *cobra.Command, envs []config.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "utensor",
		Short:         "Quantized fully-connected kernel runner",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(*cobra.Command, []string) {
			slog.SetDefault(newLogger(os.Stderr, config.LogLevel()))
		},
	}

	kernelsCmd := newKernelsCmd()
	runCmd := newRunCmd()
	selftestCmd := newSelftestCmd()
	envCmd := newEnvCmd()

	envVars := config.AsMap()
	for _, cmd := range []*cobra.Command{runCmd, selftestCmd} {
		appendEnvDocs(cmd, []config.EnvVar{
			envVars["UTENSOR_DEBUG"],
			envVars["UTENSOR_CHECK_SHAPES"],
			envVars["UTENSOR_ARENA_SIZE"],
		})
	}

	rootCmd.AddCommand(kernelsCmd, runCmd, selftestCmd, envCmd)
	return rootCmd
}
