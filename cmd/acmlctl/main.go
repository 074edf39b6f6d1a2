package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	skipConfirm bool
)

var rootCmd = &cobra.Command{
	Use:   "acmlctl",
	Short: "acmlctl — ACML administration console",
	Long:  "acmlctl is the command-line administration console for the ACML community platform: member records and approvals, events, announcements, finances, education, and shared resources.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults plus ACMLCTL_* environment)")
	rootCmd.PersistentFlags().BoolVar(&skipConfirm, "yes", false, "skip confirmation prompts")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
