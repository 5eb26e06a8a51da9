package tasks

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// EvaluateOpts contains configuration for file-backed group evaluation.
type EvaluateOpts struct {
	NumWorkers int           // Concurrent filesystem probes (default: 4)
	ProbeRate  float64       // Probes per second (0 = unthrottled)
	Exclude    GroupExcluder // Groups to leave out of the evaluation
}

// GroupExcluder reports whether a duplicate group was previously allowlisted.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type GroupExcluder interface {
	Contains(kind models.KeyKind, trackIDs []int) bool
}

type probeJob struct {
	id   int
	path string
}

type probeResult struct {
	id     int
	exists bool
}

// Evaluate scores every member of every duplicate group and marks one keeper per group.
//
// This method implements a worker pool pattern to probe each member's file on
// disk concurrently, optionally throttled to respect slow or network-mounted
// volumes. A member whose file is present scores far above one whose file is
// gone; bit rate, sample rate, size, play count and rating break the ties.
// The highest-scoring member of each group is kept, the rest are marked for
// removal with a reason naming the track that outscored them.
func (e *DuplicateEngine) Evaluate(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	report *models.Report,
	lib *models.Library,
	opts EvaluateOpts,
) (*models.Evaluation, error) {
	if report == nil {
		return nil, fmt.Errorf("%w: no report to evaluate", shared.ErrInvalidInput)
	}
	if lib == nil {
		return nil, fmt.Errorf("%w: no library loaded", shared.ErrInvalidInput)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	evaluation := &models.Evaluation{
		LibraryPath: report.LibraryPath,
	}

	var candidates []models.DuplicateGroup
	for _, group := range report.Groups() {
		if opts.Exclude != nil && opts.Exclude.Contains(group.Kind, group.TrackIDs()) {
			evaluation.Allowlisted++
			continue
		}
		candidates = append(candidates, group)
	}

	index := lib.Index()
	presence := e.probeMembers(ctx, progress, candidates, index, opts)

	e.sendProgress(progress, scoringUpdate(len(candidates)))

	for _, group := range candidates {
		scored := scoreGroup(group, index, presence)

		for _, st := range scored {
			if st.Keep {
				evaluation.KeepCount++
			} else {
				evaluation.RemoveCount++
			}
		}

		evaluation.Groups = append(evaluation.Groups, models.EvaluatedGroup{
			Kind:   group.Kind,
			Key:    group.Key,
			Tracks: scored,
		})
	}

	evaluation.GroupCount = len(evaluation.Groups)
	return evaluation, nil
}

// probeMembers stats each distinct group member's file once and reports which exist.
func (e *DuplicateEngine) probeMembers(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	groups []models.DuplicateGroup,
	index map[int]models.Track,
	opts EvaluateOpts,
) map[int]bool {
	pending := make(map[int]string)
	for _, group := range groups {
		for _, id := range group.TrackIDs() {
			if _, seen := pending[id]; seen {
				continue
			}
			track, ok := index[id]
			if !ok || track.Location == "" {
				continue
			}
			pending[id] = LocationKey(track)
		}
	}

	presence := make(map[int]bool, len(pending))
	if len(pending) == 0 {
		return presence
	}

	total := len(pending)
	e.sendProgress(progress, probeFilesUpdate(total))

	jobs := make(chan probeJob, total)
	results := make(chan probeResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.probeWorker(ctx, &wg, jobs, results)
	}

	go func() {
		var limiter *rate.Limiter
		if opts.ProbeRate > 0 {
			limiter = rate.NewLimiter(rate.Limit(opts.ProbeRate), 1)
		}

		ids := make([]int, 0, total)
		for id := range pending {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		for _, id := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					close(jobs)
					return
				}
			}

			jobs <- probeJob{id: id, path: pending[id]}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		presence[res.id] = res.exists
		e.sendProgress(progress, probeFileUpdate(completed, total, pending[res.id]))
	}

	return presence
}

// probeWorker is a worker goroutine that stats file paths from the jobs channel.
func (e *DuplicateEngine) probeWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan probeJob,
	results chan<- probeResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		info, err := os.Stat(job.path)
		results <- probeResult{id: job.id, exists: err == nil && !info.IsDir()}
	}
}

// scoreGroup ranks a group's members and marks the winner.
func scoreGroup(group models.DuplicateGroup, index map[int]models.Track, presence map[int]bool) []models.ScoredTrack {
	scored := make([]models.ScoredTrack, 0, len(group.Tracks))
	for _, summary := range group.Tracks {
		track, ok := index[summary.ID]
		if !ok {
			scored = append(scored, models.ScoredTrack{
				Track:  summary,
				Reason: "not in library export",
			})
			continue
		}

		exists := presence[track.ID]
		scored = append(scored, models.ScoredTrack{
			Track:  track.Summary(),
			Exists: exists,
			Score:  scoreTrack(track, exists),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Track.ID < scored[j].Track.ID
	})

	for i := range scored {
		if i == 0 {
			scored[i].Keep = true
			if scored[i].Reason == "" {
				scored[i].Reason = "highest score"
			}
		} else if scored[i].Reason == "" {
			scored[i].Reason = fmt.Sprintf("outscored by track %d", scored[0].Track.ID)
		}
	}

	return scored
}

// scoreTrack computes a member's quality score. A file that still exists
// dominates everything else; the remaining terms prefer higher fidelity,
// larger files and tracks the listener actually plays.
func scoreTrack(t models.Track, exists bool) float64 {
	score := 0.0
	if exists {
		score += 1000
	}
	score += float64(t.BitRate)
	score += float64(t.SampleRate) / 100
	score += float64(t.SizeBytes) / 1e6
	score += float64(t.PlayCount) * 5
	score += float64(t.Rating) * 10
	return score
}
