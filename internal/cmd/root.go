package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	outputFmt string
)

// version is set via ldflags: -X .../internal/cmd.version=v1.0.0
var version = "dev"

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "alp",
	Short: "alp — Apache combined access log parser",
	Long: `alp parses Apache combined-format access logs into typed records.

It runs either as a batch tool over files and stdin (parse) or as a
long-lived pipeline that follows configured services and exposes metrics
and an operational API (watch).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (required for watch)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
