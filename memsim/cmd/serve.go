package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/krish-2325/memory-management-simulator/monitoring"
	"github.com/krish-2325/memory-management-simulator/shell"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulator with the web monitor.",
	Long: "`serve` starts the web monitor and reads commands from the " +
		"terminal. The monitor shows the state after every command.",
	Run: func(cmd *cobra.Command, _ []string) {
		s := buildSimulation(cmd)
		defer terminate(s)

		port := monitorPort(cmd, "port", s.Config())
		m := monitoring.NewMonitor().WithPortNumber(port)
		m.RegisterSimulation(s)
		url := m.StartServer()

		open, _ := cmd.Flags().GetBool("open")
		if open {
			err := browser.OpenURL(url)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
			}
		}

		err := shell.New(s, os.Stdout).WithPrompt("> ").Run(os.Stdin)
		if err != nil {
			log.Fatalf("Error reading commands: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0,
		"Port of the monitor (default MEMSIM_MONITOR_PORT), "+
			"a random port if below 1000")
	serveCmd.Flags().Bool("open", false, "Open the monitor in a browser")
}
