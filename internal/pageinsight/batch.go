package pageinsight

import (
	"context"
	"fmt"
	"sync"

	"github.com/Bahjat/page-palette/internal/model"
	"github.com/Bahjat/page-palette/internal/platform/errs"
)

// MaxBatchURLs is the largest batch AnalyzeAll accepts.
const MaxBatchURLs = 100

// urlAnalyzer analyses a single page by URL.
type urlAnalyzer interface {
	Analyze(ctx context.Context, url string) (*model.AnalysisResult, error)
}

// BatchAnalyzer analyses many URLs with a bounded pool of workers.
type BatchAnalyzer struct {
	analyzer    urlAnalyzer
	concurrency int
}

// NewBatchAnalyzer returns a BatchAnalyzer running at most concurrency
// analyses at once.
func NewBatchAnalyzer(a urlAnalyzer, concurrency int) *BatchAnalyzer {
	return &BatchAnalyzer{analyzer: a, concurrency: max(concurrency, 1)}
}

// AnalyzeAll analyses every URL and returns one item per URL in input order.
// A failing URL is reported on its item and does not stop the batch.
func (b *BatchAnalyzer) AnalyzeAll(ctx context.Context, urls []string) ([]model.BatchItem, error) {
	if len(urls) == 0 {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: "At least one URL is required."}
	}
	if len(urls) > MaxBatchURLs {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: fmt.Sprintf("A batch may contain at most %d URLs.", MaxBatchURLs),
		}
	}

	items := make([]model.BatchItem, len(urls))
	jobs := make(chan int, len(urls))

	var wg sync.WaitGroup
	for range min(len(urls), b.concurrency) {
		wg.Go(func() {
			for i := range jobs {
				items[i] = b.analyze(ctx, urls[i])
			}
		})
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items, nil
}

func (b *BatchAnalyzer) analyze(ctx context.Context, url string) model.BatchItem {
	item := model.BatchItem{URL: url}
	if err := ctx.Err(); err != nil {
		f := model.FailureFromError(err)
		item.Failure = &f
		return item
	}

	result, err := b.analyzer.Analyze(ctx, url)
	if err != nil {
		f := model.FailureFromError(err)
		item.Failure = &f
		return item
	}
	item.Result = result
	return item
}
