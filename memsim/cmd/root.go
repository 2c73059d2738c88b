// Package cmd provides the command-line interface of the memory simulator.
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/krish-2325/memory-management-simulator/simulation"
	"github.com/krish-2325/memory-management-simulator/tracing"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "memsim simulates heap allocators, caches and virtual memory.",
	Long: `memsim simulates a contiguous heap allocator, a buddy allocator, ` +
		`a multi-level cache hierarchy and a paged virtual memory. Commands ` +
		`are read from the terminal or from a script.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringSlice("env", nil,
		"Load the configuration from these .env files instead of ./.env")
	rootCmd.PersistentFlags().Bool("verbose", false,
		"Log every engine event to stderr")
	rootCmd.PersistentFlags().String("trace-db", "",
		"Record engine events into this SQLite file (without extension)")
	rootCmd.PersistentFlags().Bool("trace", false,
		"Record engine events into a uniquely named SQLite file")
}

func buildSimulation(cmd *cobra.Command) *simulation.Simulation {
	envFiles, _ := cmd.Flags().GetStringSlice("env")
	verbose, _ := cmd.Flags().GetBool("verbose")
	traceDB, _ := cmd.Flags().GetString("trace-db")
	trace, _ := cmd.Flags().GetBool("trace")

	config, err := simulation.LoadConfig(envFiles...)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	builder := simulation.MakeBuilder().WithConfig(config)
	if trace {
		builder = builder.WithTraceRecording()
	}

	if traceDB != "" {
		builder = builder.WithOutputFileName(traceDB)
	}

	s, err := builder.Build()
	if err != nil {
		log.Fatalf("Error creating simulation: %v", err)
	}

	if verbose {
		logger := log.New(os.Stderr, "memsim: ", 0)
		s.AddTracer(tracing.NewEventLogger(logger))
	}

	return s
}

// monitorPort returns the port given with flag, or the configured one when
// the flag is absent.
func monitorPort(
	cmd *cobra.Command,
	flag string,
	config simulation.Config,
) int {
	if cmd.Flags().Changed(flag) {
		port, _ := cmd.Flags().GetInt(flag)
		return port
	}

	return config.MonitorPort
}

func terminate(s *simulation.Simulation) {
	err := s.Terminate()
	if err != nil {
		log.Fatalf("Error closing trace database: %v", err)
	}
}
