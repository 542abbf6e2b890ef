package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "culturepulse",
		Short: "Measure cultural engagement across news categories on a radar chart",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(pulseCmd())
	root.AddCommand(chartCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

// windowFlags are shared by pulse and chart.
type windowFlags struct {
	days int
	from string
	to   string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.days, "days", 0, "days to look back (default: from config)")
	cmd.Flags().StringVar(&f.from, "from", "", "start date YYYY-MM-DD (requires --to)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date YYYY-MM-DD (requires --from)")
}

func pulseCmd() *cobra.Command {
	var (
		window     windowFlags
		jsonOutput bool
		raw        bool
		chartPath  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Score all categories and print the pulse table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPulse(window, jsonOutput, raw, chartPath, noCache)
		},
	}

	window.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "skip relative normalization")
	cmd.Flags().StringVar(&chartPath, "chart", "", "also write an SVG radar chart to this path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	return cmd
}

func chartCmd() *cobra.Command {
	var (
		window  windowFlags
		out     string
		raw     bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Score all categories and write an SVG radar chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(window, out, raw, noCache)
		},
	}

	window.register(cmd)
	cmd.Flags().StringVar(&out, "out", "culture_pulse.svg", "output path")
	cmd.Flags().BoolVar(&raw, "raw", false, "chart raw scores instead of normalized")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduled refresh and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
