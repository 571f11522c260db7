package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/tentcards/internal/services/monsterimage"
)

var pruneYes bool

var pruneImagesCmd = &cobra.Command{
	Use:   "prune-images",
	Short: "Remove image map entries whose artwork file is gone",
	Long: `Scan the monster image map for entries that point at the local blob store
but whose file no longer exists, list them, and delete them after confirmation.`,
	RunE: runPruneImages,
}

func init() {
	pruneImagesCmd.Flags().BoolVar(&pruneYes, "yes", false, "Delete without asking")
}

func runPruneImages(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServerConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	report, err := b.svc.Prune(ctx, &monsterimage.PruneInput{DryRun: true})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked %d entries, found %d without artwork\n", report.Checked, len(report.Missing))
	if len(report.Missing) == 0 {
		return nil
	}
	for _, name := range report.Missing {
		fmt.Fprintf(out, "  - %s\n", name)
	}

	if !pruneYes {
		fmt.Fprint(out, "\nDelete these entries? (yes/no): ")
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if strings.TrimSpace(answer) != "yes" {
			fmt.Fprintln(out, "Aborted - no changes made")
			return nil
		}
	}

	result, err := b.svc.Prune(ctx, &monsterimage.PruneInput{})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d entries\n", result.Removed)
	return nil
}
