package offfetch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"mealprep/internal/dataset"
	"mealprep/internal/fileutil"
	"mealprep/internal/logging"
)

// PageFetcher returns one page of search results.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (*SearchResponse, error)
}

// Options control a fetch run.
type Options struct {
	Output   string
	MaxPages int
}

// Result summarizes a fetch run. Written and Fetched include the totals
// carried over from a resumed checkpoint.
type Result struct {
	Resumed   bool
	FirstPage int
	LastPage  int
	Written   int
	Fetched   int
	Total     int
}

// Checkpoint records progress after each completed page.
type Checkpoint struct {
	LastCompletedPage int `json:"last_completed_page"`
	TotalWritten      int `json:"total_written"`
	TotalFetched      int `json:"total_fetched"`
}

// CheckpointPath returns the checkpoint file used for output.
func CheckpointPath(output string) string {
	return output + ".checkpoint.json"
}

// Fetcher pages through the search API and appends usable products to a
// CSV table.
type Fetcher struct {
	pages   PageFetcher
	delay   time.Duration
	logger  *slog.Logger
	sleeper func(context.Context, time.Duration) error
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithPageDelay sets the pause between pages.
func WithPageDelay(delay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.delay = delay
	}
}

// WithLogger sets the fetcher logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logging.NewComponentLogger(logger, "offfetch")
	}
}

// WithPageSleeper overrides how the pause between pages is performed.
func WithPageSleeper(sleeper func(context.Context, time.Duration) error) FetcherOption {
	return func(f *Fetcher) {
		if sleeper != nil {
			f.sleeper = sleeper
		}
	}
}

// NewFetcher constructs a Fetcher around pages.
func NewFetcher(pages PageFetcher, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		pages:   pages,
		logger:  logging.NewComponentLogger(nil, "offfetch"),
		sleeper: sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run fetches pages until the API runs out of products, the API count is
// reached, or MaxPages is passed. A checkpoint is saved after every page and
// removed once the run completes. When a page fails the checkpoint is left
// in place and the error is returned with the partial Result.
func (f *Fetcher) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Output == "" {
		return Result{}, errors.New("fetch: output path required")
	}
	var result Result
	err := fileutil.WithLock(opts.Output, func() error {
		var err error
		result, err = f.run(ctx, opts)
		return err
	})
	return result, err
}

func (f *Fetcher) run(ctx context.Context, opts Options) (Result, error) {
	checkpoint, resumed, err := LoadCheckpoint(opts.Output)
	if err != nil {
		return Result{}, err
	}
	result := Result{
		Resumed:   resumed,
		FirstPage: checkpoint.LastCompletedPage + 1,
		Written:   checkpoint.TotalWritten,
		Fetched:   checkpoint.TotalFetched,
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if resumed {
		flags = os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(opts.Output, flags, 0o644)
	if err != nil {
		return result, fmt.Errorf("open output: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if !resumed {
		if err := writer.Write(dataset.Columns); err != nil {
			return result, fmt.Errorf("write header: %w", err)
		}
		writer.Flush()
	}

	if resumed {
		f.logger.Info("resuming fetch",
			logging.Int("page", result.FirstPage),
			logging.Int("written", result.Written),
			logging.Path(opts.Output),
		)
	} else {
		f.logger.Info("starting fetch", logging.Path(opts.Output))
	}

	sampler := logging.NewProgressSampler(10)
	for page := result.FirstPage; opts.MaxPages <= 0 || page <= opts.MaxPages; page++ {
		data, err := f.pages.FetchPage(ctx, page)
		if err != nil {
			if saveErr := SaveCheckpoint(opts.Output, Checkpoint{
				LastCompletedPage: page - 1,
				TotalWritten:      result.Written,
				TotalFetched:      result.Fetched,
			}); saveErr != nil {
				f.logger.Warn("checkpoint save failed", logging.Error(saveErr))
			}
			return result, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if len(data.Products) == 0 {
			f.logger.Debug("no more products", logging.Int("page", page))
			break
		}

		written := 0
		for _, product := range data.Products {
			row, ok := ExtractRow(product)
			if !ok {
				continue
			}
			if err := writer.Write(dataset.EncodeRow(row)); err != nil {
				return result, fmt.Errorf("write row: %w", err)
			}
			written++
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return result, fmt.Errorf("flush output: %w", err)
		}

		result.LastPage = page
		result.Written += written
		result.Fetched += len(data.Products)
		if data.Count != nil {
			result.Total = *data.Count
		}
		if err := SaveCheckpoint(opts.Output, Checkpoint{
			LastCompletedPage: page,
			TotalWritten:      result.Written,
			TotalFetched:      result.Fetched,
		}); err != nil {
			return result, err
		}

		f.logger.Debug("page fetched",
			logging.Int("page", page),
			logging.Int("usable", written),
			logging.Int("products", len(data.Products)),
		)
		percent := -1.0
		if result.Total > 0 {
			percent = float64(result.Fetched) * 100 / float64(result.Total)
		}
		if sampler.ShouldLog(percent) {
			f.logger.Info("fetch progress",
				logging.Int("page", page),
				logging.Int("written", result.Written),
				logging.Int("fetched", result.Fetched),
				logging.Int("total", result.Total),
			)
		}

		if data.Count != nil && result.Fetched >= *data.Count {
			break
		}
		if err := f.sleeper(ctx, f.delay); err != nil {
			return result, err
		}
	}

	if err := os.Remove(CheckpointPath(opts.Output)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return result, fmt.Errorf("remove checkpoint: %w", err)
	}
	f.logger.Info("fetch complete",
		logging.Int("written", result.Written),
		logging.Int("fetched", result.Fetched),
		logging.Path(opts.Output),
	)
	return result, nil
}

// LoadCheckpoint reads the checkpoint for output. ok is false when either the
// checkpoint or the output file is missing.
func LoadCheckpoint(output string) (Checkpoint, bool, error) {
	for _, path := range []string{CheckpointPath(output), output} {
		exists, err := fileutil.Exists(path)
		if err != nil {
			return Checkpoint{}, false, fmt.Errorf("stat %s: %w", path, err)
		}
		if !exists {
			return Checkpoint{}, false, nil
		}
	}
	data, err := os.ReadFile(CheckpointPath(output))
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("read checkpoint: %w", err)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("decode checkpoint %s: %w", CheckpointPath(output), err)
	}
	return cp, true, nil
}

// SaveCheckpoint atomically writes cp beside output.
func SaveCheckpoint(output string, cp Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := fileutil.WriteFileAtomic(CheckpointPath(output), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}
