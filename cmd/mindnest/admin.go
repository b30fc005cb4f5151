package main

import (
	"context"
	"fmt"
	"time"

	"mindnest/internal/prompts"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade tables and indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := openDB(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage writing prompts",
}

var promptsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert prompts from a TOML file (built-in set by default)",
	Long: `Reads [[prompt]] tables with text, category and mood keys and inserts
every prompt whose text is not stored yet. Without --file the PROMPTS_FILE
setting is used, and without that the built-in prompts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		cfg, gdb, err := openDB()
		if err != nil {
			return err
		}
		if file == "" {
			file = cfg.PromptsFile
		}

		list, err := prompts.LoadSeed(file)
		if err != nil {
			return err
		}
		added, err := prompts.Seed(context.Background(), gdb, list, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to seed prompts: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d prompts added\n", added, len(list))
		return nil
	},
}

func init() {
	promptsSeedCmd.Flags().String("file", "", "TOML file with [[prompt]] tables")
	promptsCmd.AddCommand(promptsSeedCmd)
}
