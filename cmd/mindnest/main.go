package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mindnest",
	Short: "Personal journaling API with mood and writing analytics.",
	Long: `mindnest serves the journaling API, runs the stats worker and offers
a few admin and client commands. Configuration comes from the environment
or a .env file (DATABASE_URL, JWT_SECRET, HTTP_ADDR, ...).`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, promptsCmd, statsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
