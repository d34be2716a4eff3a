// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kbmd/internal/search"
	"github.com/pdiddy/kbmd/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search dataset and project records",
	Long: `Search queries a SQLite full-text index over the knowledgebase's
dataset and project records. The index is derived from the record
store; it is built on first use and rebuilt with --reindex after
records change.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := store.Find(".")
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	idx, err := search.Open(s, limit)
	if err != nil {
		return err
	}
	defer idx.Close()

	ctx := context.Background()

	reindex, _ := cmd.Flags().GetBool("reindex")
	if !reindex {
		n, err := idx.Count(ctx)
		if err != nil {
			return err
		}
		reindex = n == 0
	}
	if reindex {
		n, err := idx.Reindex(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Indexed %d records\n", n)
	}

	opts := search.QueryOptions{
		Query:      strings.Join(args, " "),
		MaxResults: limit,
	}
	opts.Kind, _ = cmd.Flags().GetString("kind")
	opts.Tag, _ = cmd.Flags().GetString("tag")

	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --kind, or --tag")
	}

	results, err := idx.Query(ctx, opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []search.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-24s  %-50s  %s\n", "Kind", "Slug", "Description", "Tags")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range results {
		description := r.Description
		if len(description) > 50 {
			description = description[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-24s  %-50s  %s\n",
			r.Kind, r.Slug, description, strings.Join(r.Tags, ", "))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func init() {
	searchCmd.Flags().String("kind", "", "filter by record kind: dataset or project")
	searchCmd.Flags().String("tag", "", "filter by tag")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = default)")
	searchCmd.Flags().Bool("reindex", false, "rebuild the search index before querying")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
