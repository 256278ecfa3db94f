package export

import (
	"context"
	"sync"

	"darkroom/internal/photos"
	"darkroom/internal/services"
)

// Result is the outcome of one asset in a batch.
type Result struct {
	Asset *photos.AssetRecord
	Outcome
	Err error
}

// Batch exports assets into destDir using up to workers concurrent exports and
// returns one Result per asset in input order. Assets not started before ctx
// is cancelled report the context error.
func Batch(ctx context.Context, engine *Engine, assets []*photos.AssetRecord, destDir string, opts Options, workers int) []Result {
	results := make([]Result, len(assets))
	if len(assets) == 0 {
		return results
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(assets) {
		workers = len(assets)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				asset := assets[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Asset: asset, Err: cancelled(err)}
					continue
				}
				out, err := engine.ExportAll(ctx, asset, destDir, opts)
				results[idx] = Result{Asset: asset, Outcome: out, Err: err}
			}
		}()
	}

	for idx := range assets {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	return results
}

func cancelled(err error) error {
	return services.Wrap(services.ErrCopyFailed, "export", "batch", "not started", err)
}
