package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mindnest/internal/analytics"
	"mindnest/internal/client"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print your analytics from a running server",
	Long: `Signs in against --server and prints the analytics summary.
The password is read from MINDNEST_PASSWORD; a token in MINDNEST_TOKEN
skips the sign-in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		email, _ := cmd.Flags().GetString("email")
		tz, _ := cmd.Flags().GetString("tz")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		c := client.New(server)
		session := client.NewSession(c)

		if tok := strings.TrimSpace(os.Getenv("MINDNEST_TOKEN")); tok != "" {
			c.SetToken(tok)
			if _, err := session.Check(ctx); err != nil {
				return err
			}
		} else {
			if email == "" {
				return errors.New("--email is required without MINDNEST_TOKEN")
			}
			if err := session.Login(ctx, email, os.Getenv("MINDNEST_PASSWORD")); err != nil {
				return err
			}
		}
		if session.State() != client.StateAuthenticated {
			return errors.New("not signed in")
		}

		sum, err := c.Summary(ctx, tz)
		if err != nil {
			return fmt.Errorf("failed to load analytics: %w", err)
		}
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("server", "http://localhost:8080", "API base URL")
	statsCmd.Flags().String("email", "", "account email")
	statsCmd.Flags().String("tz", "", "IANA time zone for calendar days (server default if empty)")
}

func printSummary(w io.Writer, s analytics.Summary) {
	fmt.Fprintf(w, "Journals:        %d\n", s.TotalJournals)
	fmt.Fprintf(w, "Favorites:       %d\n", s.FavoritesCount)
	fmt.Fprintf(w, "Words:           %d\n", s.TotalWords)
	fmt.Fprintf(w, "Current streak:  %d days\n", s.CurrentStreak)
	fmt.Fprintf(w, "Longest streak:  %d days\n", s.LongestStreak)

	fmt.Fprintln(w, "\nLast 7 days:")
	for _, d := range s.Activity {
		fmt.Fprintf(w, "  %s %s %s\n", d.Label, d.Date, strings.Repeat("#", d.Count))
	}

	if len(s.Moods) > 0 {
		fmt.Fprintln(w, "\nMoods:")
		for _, m := range s.Moods {
			fmt.Fprintf(w, "  %-12s %d\n", strings.TrimSpace(m.Emoji+" "+m.Label), m.Count)
		}
	}
	if len(s.Tags) > 0 {
		fmt.Fprintln(w, "\nTags:")
		for _, t := range s.Tags {
			fmt.Fprintf(w, "  #%-11s %d\n", t.Tag, t.Count)
		}
	}
	if len(s.Collections) > 0 {
		fmt.Fprintln(w, "\nCollections:")
		for _, c := range s.Collections {
			fmt.Fprintf(w, "  %-12s %d\n", c.Name, c.Value)
		}
	}
}
