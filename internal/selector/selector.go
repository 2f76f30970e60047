// Package selector decides which repository files are worth sending to
// the model and fetches their contents under a character budget.
package selector

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kevinmichaelchen/repo-lens/internal/budget"
	"github.com/kevinmichaelchen/repo-lens/internal/classify"
	"github.com/kevinmichaelchen/repo-lens/internal/github"
	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

// READMEs are informative but long; cap the raw bytes considered before
// any budget accounting.
const readmeCapBytes = 20_000

// FetchFunc returns the raw bytes of one file in the repository.
type FetchFunc func(ctx context.Context, path string) ([]byte, error)

// Options are the selection knobs, fixed per request.
type Options struct {
	ContextCharBudget int
	MaxSourceFiles    int
	MaxBlobBytes      int
	FetchWorkers      int
}

type candidate struct {
	path string
	tier models.Tier
}

// Select classifies the listing, fetches candidate contents, and returns
// the ordered files that fit the budget. Fetches run concurrently up to
// Options.FetchWorkers, but budgeting happens in a single sequential pass
// over the deterministic tier/depth/path order, so repeated runs over an
// unchanged listing select identical files.
//
// A fetch failure for one file skips that file, except rate-limit and
// permission errors, which abort the whole selection.
func Select(ctx context.Context, listing []models.RepositoryEntry, fetch FetchFunc, opts Options) ([]models.SelectedFile, error) {
	cands := collectCandidates(listing, opts)

	contents, err := fetchAll(ctx, cands, fetch, opts.FetchWorkers)
	if err != nil {
		return nil, err
	}

	alloc := budget.NewAllocator(opts.ContextCharBudget)
	selected := make([]models.SelectedFile, 0, len(cands))

	for i, c := range cands {
		raw := contents[i]
		if raw == nil {
			continue // fetch failed or blob was not text
		}
		capped := false
		if c.tier == models.TierREADME && len(raw) > readmeCapBytes {
			raw = raw[:readmeCapBytes]
			capped = true
		}

		granted := alloc.Reserve(len(raw))
		if granted == 0 {
			break // budget exhausted; lower tiers cannot do better
		}

		selected = append(selected, models.SelectedFile{
			Path:      c.path,
			Tier:      c.tier,
			Content:   string(raw[:granted]),
			Truncated: capped || granted < len(raw),
		})
	}

	return selected, nil
}

// collectCandidates classifies and orders the listing, applying the
// single-README and source-count caps and the blob size limit.
func collectCandidates(listing []models.RepositoryEntry, opts Options) []candidate {
	var cands []candidate
	for _, e := range listing {
		if e.Kind != models.KindFile {
			continue
		}
		if e.SizeBytes <= 0 || e.SizeBytes > opts.MaxBlobBytes {
			continue
		}
		tier := classify.Classify(e.Path)
		if tier == models.TierExcluded {
			continue
		}
		cands = append(cands, candidate{path: e.Path, tier: tier})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].tier != cands[j].tier {
			return cands[i].tier < cands[j].tier
		}
		return classify.Less(cands[i].path, cands[j].path)
	})

	out := cands[:0]
	readmes, sources := 0, 0
	for _, c := range cands {
		switch c.tier {
		case models.TierREADME:
			if readmes >= 1 {
				continue
			}
			readmes++
		case models.TierSource:
			if sources >= opts.MaxSourceFiles {
				continue
			}
			sources++
		}
		out = append(out, c)
	}
	return out
}

// fetchAll retrieves candidate contents with a bounded worker pool.
// Results land in a slice indexed like cands, so selection order is
// unaffected by fetch completion order. Skippable failures leave a nil.
func fetchAll(ctx context.Context, cands []candidate, fetch FetchFunc, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = 1
	}
	contents := make([][]byte, len(cands))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range cands {
		g.Go(func() error {
			raw, err := fetch(gCtx, c.path)
			if err != nil {
				if errors.Is(err, github.ErrRateLimited) || errors.Is(err, github.ErrForbidden) {
					return err
				}
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				return nil // file vanished, binary, or transient blip: skip
			}
			contents[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}
