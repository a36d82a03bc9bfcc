package content

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Sweep removes files whose keys are not in the inUse set. A crash between
// a registry delete and its file removal can orphan a file; the sweep is
// the recovery path. Removals run concurrently with a small bound so a
// large backlog doesn't stall startup.
func Sweep(ctx context.Context, store Store, inUse map[string]bool, log *slog.Logger) (removed int, err error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	results := make(chan string, len(keys))
	for _, key := range keys {
		if inUse[key] {
			continue
		}
		g.Go(func() error {
			if err := store.Remove(ctx, key); err != nil {
				// Another sweeper or a late delete may have won the race;
				// absence is the goal state.
				log.WarnContext(ctx, "sweep: could not remove orphan", "key", key, "error", err)
				return nil
			}
			results <- key
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	close(results)
	for key := range results {
		log.InfoContext(ctx, "sweep: removed orphaned file", "key", key)
		removed++
	}
	return removed, nil
}
