package cmd

import (
	"bytes"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/krish-2325/memory-management-simulator/monitoring"
	"github.com/krish-2325/memory-management-simulator/shell"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run simulator commands.",
	Long: "`run` reads commands from the terminal. " +
		"`run --script [file]` executes the commands in a file.",
	Run: func(cmd *cobra.Command, _ []string) {
		s := buildSimulation(cmd)
		defer terminate(s)

		scriptFile, _ := cmd.Flags().GetString("script")
		if scriptFile == "" {
			err := shell.New(s, os.Stdout).WithPrompt("> ").Run(os.Stdin)
			if err != nil {
				log.Fatalf("Error reading commands: %v", err)
			}

			return
		}

		script, err := os.ReadFile(scriptFile)
		if err != nil {
			log.Fatalf("Error reading script: %v", err)
		}

		sh := shell.New(s, os.Stdout)

		port := monitorPort(cmd, "monitor", s.Config())
		if port != 0 {
			m := monitoring.NewMonitor().WithPortNumber(port)
			m.RegisterSimulation(s)
			m.StartServer()

			bar := m.CreateProgressBar(scriptFile,
				uint64(bytes.Count(script, []byte("\n"))+1))
			defer m.CompleteProgressBar(bar)

			sh.WithLineCallbacks(
				func() { bar.IncrementInProgress(1) },
				func() { bar.MoveInProgressToFinished(1) },
			)
		}

		err = sh.Run(bytes.NewReader(script))
		if err != nil {
			log.Fatalf("Error running script: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("script", "", "Execute the commands in this file")
	runCmd.Flags().Int("monitor", 0,
		"Serve the monitor on this port while the script runs "+
			"(default MEMSIM_MONITOR_PORT, 0 disables it)")
}
