package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-landmark-instrumentation",
	Short: "go-landmark-instrumentation inserts landmark profiling probes into your compilation unit trees",
	Long:  "go-landmark-instrumentation inserts landmark profiling probes into your compilation unit trees",
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
