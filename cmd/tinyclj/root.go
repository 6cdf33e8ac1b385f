package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tinyclj",
	Short: "Evaluate Tiny-Clj value-runtime expressions from the command line",
	Long: `tinyclj hosts the Tiny-Clj value runtime: tagged-pointer immediates,
reference-counted heap objects, persistent/transient vectors and maps,
namespaces, and structured exceptions. The reader and tree-walking
evaluator are external concerns; this CLI drives the runtime through
its own minimal self-eval/resolve/apply loop.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML runtime config file")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
