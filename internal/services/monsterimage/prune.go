package monsterimage

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/repositories/blobstore"
	"github.com/KirkDiggler/tentcards/internal/repositories/imagemap"
)

// Prune implements Service. Entries pointing outside the blob store are
// never touched.
func (s *service) Prune(ctx context.Context, input *PruneInput) (*PruneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	list, err := s.images.List(ctx, imagemap.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list monster images")
	}

	out := &PruneOutput{Checked: len(list.Images)}
	for name, locator := range list.Images {
		u, err := url.Parse(locator)
		// absolute URLs live on some other host; only stored paths are checked
		if err != nil || u.IsAbs() || !strings.HasPrefix(u.Path, s.blobs.URLPrefix()) {
			continue
		}
		if _, err := s.blobs.Get(ctx, blobstore.GetInput{Path: u.Path}); err == nil {
			continue
		} else if !errors.IsNotFound(err) {
			return nil, errors.Wrapf(err, "failed to check blob for %s", name)
		}
		out.Missing = append(out.Missing, name)
	}
	sort.Strings(out.Missing)

	if input.DryRun {
		return out, nil
	}
	for _, name := range out.Missing {
		del, err := s.images.Delete(ctx, imagemap.DeleteInput{Name: name})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to remove image entry for %s", name)
		}
		if del.Deleted {
			out.Removed++
		}
	}

	slog.Info("Monster image map pruned", "checked", out.Checked, "missing", len(out.Missing), "removed", out.Removed)
	return out, nil
}
