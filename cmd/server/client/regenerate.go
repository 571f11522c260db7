package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/cardimage"
)

var acceptRegenerated bool

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <monster name>",
	Short: "Produce a new candidate image and accept or reject it",
	Long: `Generate a fresh candidate for a monster that already has artwork. With --accept
the candidate replaces the saved image; otherwise it is discarded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRegenerate,
}

func init() {
	regenerateCmd.Flags().BoolVar(&acceptRegenerated, "accept", false, "Persist the new image")
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	name := strings.Join(args, " ")
	b, v, err := mountAndWait(ctx, sess, name, cardimage.SurfacePreview)
	if err != nil {
		return err
	}
	defer b.Unmount()

	if v.Confirmed == nil {
		return errors.FailedPreconditionf("%s has no artwork to replace yet", name)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "current:   %s\n", v.Confirmed)
	if err := b.Regenerate(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "candidate: %s\n", b.State().Pending)

	if !acceptRegenerated {
		if err := b.Reject(); err != nil {
			return err
		}
		fmt.Fprintln(out, "rejected; current artwork kept")
		return nil
	}

	if err := b.Accept(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "accepted:  %s\n", b.State().Confirmed)
	return nil
}
