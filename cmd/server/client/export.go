package client

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/namematch"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/cardimage"
	"github.com/KirkDiggler/tentcards/internal/services/session"
)

var (
	exportPath     string
	exportGenerate bool
)

var exportCmd = &cobra.Command{
	Use:   "export <name[:quantity]>...",
	Short: "Print a working set of monsters to a PDF",
	Long: `Build a working set from the arguments and export it as a Letter landscape PDF,
four tent cards per sheet. Names that the backend does not know become custom cards.

  tentcards client export --out goblins.pdf "Goblin:4" "Goblin Boss" "Owlbear:2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "tentcards.pdf", "Output PDF path")
	exportCmd.Flags().BoolVar(&exportGenerate, "generate", true, "Generate missing artwork before printing")
}

// parseEntry splits "Name:3" into its parts; a missing quantity means one
func parseEntry(arg string) (string, int, error) {
	name, qty, found := strings.Cut(arg, ":")
	name = strings.TrimSpace(name)
	if namematch.Normalize(name) == "" {
		return "", 0, errors.InvalidArgumentf("%q has no monster name", arg)
	}
	if !found {
		return name, 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || n < 1 {
		return "", 0, errors.InvalidArgumentf("%q has an invalid quantity", arg)
	}
	return name, n, nil
}

// resolveMonster prefers the backend's record for an exact name match
func resolveMonster(ctx context.Context, sess *session.Session, name string) entities.Monster {
	result, err := sess.Search(ctx, name, 5)
	if err != nil {
		slog.Warn("Monster search failed, using a custom card", "monster", name, "error", err)
		return entities.Monster{Name: name, Custom: true}
	}
	want := namematch.Normalize(name)
	for _, m := range result.Monsters {
		if namematch.Normalize(m.Name) == want {
			return m
		}
	}
	return entities.Monster{Name: name, Custom: true}
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	for _, arg := range args {
		name, qty, err := parseEntry(arg)
		if err != nil {
			return err
		}
		monster := resolveMonster(ctx, sess, name)
		if err := sess.Add(monster); err != nil {
			return err
		}
		// Add bumps existing entries by one, so set the total explicitly
		current := 0
		for _, e := range sess.WorkingSet() {
			if namematch.Normalize(e.Monster.Name) == namematch.Normalize(monster.Name) {
				current = e.Quantity
			}
		}
		if err := sess.SetQuantity(monster.Name, current-1+qty); err != nil {
			return err
		}
	}

	if exportGenerate {
		for _, e := range sess.WorkingSet() {
			b, v, err := mountAndWait(ctx, sess, e.Monster.Name, cardimage.SurfaceSelectedRow)
			if err != nil {
				return err
			}
			if v.Failed {
				slog.Warn("Artwork unavailable, card will print a placeholder", "monster", e.Monster.Name)
			}
			b.Unmount()
		}
	}

	preview, err := sess.PrintPreview(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		for _, b := range preview {
			b.Unmount()
		}
	}()

	out, err := sess.Export(ctx, exportPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d cards on %d pages (%d images embedded, %d not embedded)\n",
		out.Path, out.Cards, out.Pages, out.Embedded, out.Unembedded)
	return nil
}
