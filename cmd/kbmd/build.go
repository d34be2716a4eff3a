// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kbmd/internal/build"
	"github.com/pdiddy/kbmd/internal/store"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild indices and regenerate all markdown documents",
	Long: `Build recomputes the by-filesystem and by-topic indices from the
current dataset and project records, then renders every record to
markdown under .kbmd/generated/. The build is a full regeneration:
previous indices and rendered output are replaced.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := store.Find(".")
	if err != nil {
		return err
	}

	summary, err := build.NewRunner(s).Run(os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Build completed: %d documents generated\n", summary.Total())
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
