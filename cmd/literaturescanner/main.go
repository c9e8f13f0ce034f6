// Package main provides the literaturescanner CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"LiteratureScanner/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// cfg is loaded once before any subcommand runs.
var cfg config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "literaturescanner",
	Short: "Recent clinical literature from major medical journals",
	Long: `literaturescanner pulls recent articles from NEJM, The Lancet, JAMA, The BMJ
and Nature Medicine through the NCBI E-utilities, and summarizes abstracts
into a structured clinical synopsis on demand.

Configuration is read from the YAML file named by LITERATURE_SCANNER_CONFIG,
then overridden by environment variables (a .env file is honored).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		cfg = config.Load()
	},
}

func init() {
	_ = godotenv.Load()
	rootCmd.Version = Version
}
