package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/cardimage"
)

var generateCmd = &cobra.Command{
	Use:   "generate <monster name>",
	Short: "Ensure a monster has artwork",
	Long:  `Return the cached artwork for a monster, or generate it once if none exists.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	name := strings.Join(args, " ")
	b, v, err := mountAndWait(ctx, sess, name, cardimage.SurfaceSelectedRow)
	if err != nil {
		return err
	}
	defer b.Unmount()

	if v.Failed || v.Image == nil {
		return errors.Unavailablef("could not generate artwork for %s", name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, v.Image)
	return nil
}
