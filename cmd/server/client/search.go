package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search monsters by name",
	Long:  `Search the backend monster list and show whether each result already has artwork.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	result, err := sess.Search(ctx, query, searchLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d monsters (showing %d):\n\n", result.Total, len(result.Monsters))
	for _, m := range result.Monsters {
		art := "no artwork yet"
		if img, ok := sess.Cache().Lookup(m.Name); ok {
			art = img.String()
		}
		fmt.Fprintf(out, "%-32s %-28s %s\n", m.Name, m.Key, art)
	}
	return nil
}
