package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// DefaultSimilarityThreshold is the Jaro-Winkler score at or above which two
// track identities count as near-duplicates.
const DefaultSimilarityThreshold = 0.9

// Similar finds pairs of tracks whose identities fuzzy-match at or above threshold.
//
// Identities are built from normalized title and artist with featuring credits
// and separator punctuation smoothed out, then compared pairwise with
// Jaro-Winkler similarity. Pairs that already share an exact metadata key are
// skipped; the exact scan reports those. Pairs order by descending score, then
// by track IDs, so identical input always yields identical output.
func (e *DuplicateEngine) Similar(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	lib *models.Library,
	threshold float64,
) ([]models.SimilarPair, error) {
	if lib == nil {
		return nil, fmt.Errorf("%w: no library loaded", shared.ErrInvalidInput)
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %.2f above 1.0", shared.ErrInvalidArgument, threshold)
	}

	tracks := make([]models.Track, len(lib.Tracks))
	copy(tracks, lib.Tracks)
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })

	identities := make([]string, len(tracks))
	keys := make([]string, len(tracks))
	for i, t := range tracks {
		identities[i] = identityString(t, e.opts.FoldDiacritics)
		keys[i] = MetadataKey(t, e.opts.FoldDiacritics)
	}

	var pairs []models.SimilarPair
	total := len(tracks)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.sendProgress(progress, comparingTracksUpdate(i+1, total))

		if identities[i] == "" {
			continue
		}

		for j := i + 1; j < total; j++ {
			if identities[j] == "" {
				continue
			}
			// Exact-key duplicates belong to the scan report, not here.
			if keys[i] != "" && keys[i] == keys[j] {
				continue
			}

			if sim, err := edlib.StringsSimilarity(identities[i], identities[j], edlib.JaroWinkler); err == nil {
				if float64(sim) >= threshold {
					pair := models.SimilarPair{
						A:     tracks[i].Summary(),
						B:     tracks[j].Summary(),
						Score: float64(sim),
					}
					pairs = append(pairs, pair)
					e.sendProgress(progress, similarFoundUpdate(pair))
				}
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		if pairs[i].A.ID != pairs[j].A.ID {
			return pairs[i].A.ID < pairs[j].A.ID
		}
		return pairs[i].B.ID < pairs[j].B.ID
	})

	return pairs, nil
}
