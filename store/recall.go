package store

import (
	"context"

	"github.com/habiliai/caremem/errors"
)

// RecallOptions tune a Recall call. Zero values fall back to sensible
// defaults.
type RecallOptions struct {
	// Threshold drops results scoring below it. A threshold above the
	// maximum attainable score yields an empty result, not an error.
	Threshold float32

	// TopK caps how many candidates the backend returns before the threshold
	// is applied.
	TopK int
}

// Recall searches the collection for memories of a single user relevant to
// the query. The user filter is pushed into the backend and re-checked here,
// so a memory of another user can never leak through. Finding nothing is a
// normal outcome, not an error.
func Recall(ctx context.Context, collection *Collection, query, userID string, opts RecallOptions) ([]SearchResult, error) {
	if userID == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "user id must not be empty")
	}
	if opts.Threshold < 0 {
		return nil, errors.Wrapf(errors.ErrValidation, "score threshold %f must not be negative", opts.Threshold)
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	candidates, err := collection.Search(ctx, query, opts.TopK, Filter{UserID: userID})
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Record.UserID != userID {
			continue
		}
		if candidate.Score < opts.Threshold {
			continue
		}
		results = append(results, candidate)
	}

	return results, nil
}
