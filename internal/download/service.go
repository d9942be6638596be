package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/likegrab/likegrab/internal/library"
	"github.com/likegrab/likegrab/internal/model"
	"github.com/likegrab/likegrab/internal/platform"
)

// Default values
const (
	DefaultMaxParallel = 1
	DefaultMaxAttempts = 3

	defaultRetryDelay  = time.Second
	defaultBackoffUnit = 2 * time.Second
	defaultSettleDelay = 100 * time.Millisecond

	separatorWidth = 50
)

// Options configure a Service.
type Options struct {
	// DestDir is the destination directory; created when absent.
	DestDir string

	// MaxParallel is the worker pool size.
	MaxParallel int

	// MaxAttempts is the per-track attempt budget.
	MaxAttempts int

	// SkipExisting enables the pre-fetch skip check against files already
	// in DestDir.
	SkipExisting bool

	// Out receives per-track outcome lines and the run summary. Defaults
	// to io.Discard.
	Out io.Writer
}

// Service coordinates one acquisition run: it resolves the collection, fans
// tracks out to the worker pool, and aggregates results as they complete.
type Service struct {
	resolver Resolver
	prober   Prober
	fetcher  Fetcher

	destDir      string
	maxParallel  int
	maxAttempts  int
	skipExisting bool

	// set once per run before any worker starts
	transcodeAvailable bool
	probeTranscoder    func() bool

	// retry pacing; tests shrink these
	retryDelay  time.Duration
	backoffUnit time.Duration
	settleDelay time.Duration

	out io.Writer
}

// NewService creates a new acquisition service.
func NewService(resolver Resolver, prober Prober, fetcher Fetcher, opts Options) *Service {
	if opts.MaxParallel < 1 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Service{
		resolver:        resolver,
		prober:          prober,
		fetcher:         fetcher,
		destDir:         opts.DestDir,
		maxParallel:     opts.MaxParallel,
		maxAttempts:     opts.MaxAttempts,
		skipExisting:    opts.SkipExisting,
		probeTranscoder: platform.HasFFmpeg,
		retryDelay:      defaultRetryDelay,
		backoffUnit:     defaultBackoffUnit,
		settleDelay:     defaultSettleDelay,
		out:             opts.Out,
	}
}

// Run executes the whole pipeline for the collection at url and returns the
// aggregated totals. Per-track failures are contained; the only error paths
// are a destination directory that cannot be created and a direct download
// that fails after resolution yielded nothing.
func (s *Service) Run(ctx context.Context, url string) (*model.RunStats, error) {
	if err := platform.CreateDirectoryIfNotExists(s.destDir); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	// probed once per run; workers only read the flag
	s.transcodeAvailable = s.probeTranscoder()
	if s.transcodeAvailable {
		fmt.Fprintln(s.out, "ffmpeg found - tracks will be converted to MP3")
	} else {
		fmt.Fprintln(s.out, "ffmpeg not found - tracks will be kept in their source format")
		fmt.Fprintln(s.out, "install ffmpeg to enable MP3 conversion: https://ffmpeg.org/download.html")
	}
	fmt.Fprintln(s.out, strings.Repeat("-", separatorWidth))

	refs, err := s.resolver.ResolvePlaylist(ctx, url)
	if err != nil {
		log.Printf("playlist resolution failed for %s: %v", url, err)
		refs = nil
	}
	refs = model.DedupTrackRefs(refs)

	if len(refs) == 0 {
		return s.runDirect(ctx, url)
	}

	total := len(refs)
	fmt.Fprintf(s.out, "unique tracks found: %d\n", total)

	index := library.BuildIndex(s.destDir)
	if index.Len() > 0 {
		fmt.Fprintf(s.out, "already downloaded files: %d\n", index.Len())
	}
	fmt.Fprintf(s.out, "saving to: %s\n", s.destDir)
	fmt.Fprintf(s.out, "parallel downloads: %d\n", s.maxParallel)
	fmt.Fprintln(s.out, strings.Repeat("-", separatorWidth))

	results := s.dispatch(ctx, refs, index)

	stats := &model.RunStats{Total: total}
	for res := range results {
		fmt.Fprintln(s.out, res.Line())
		stats.Add(res)
	}

	fmt.Fprintln(s.out, strings.Repeat("-", separatorWidth))
	fmt.Fprintln(s.out, "download finished")
	fmt.Fprintln(s.out, stats.Summary())
	if stats.GeoRestricted > 0 {
		fmt.Fprintf(s.out, "geo-restricted: %d\n", stats.GeoRestricted)
	}

	return stats, nil
}

// dispatch fans refs out to maxParallel workers and returns the channel the
// results arrive on, in completion order. The channel closes once every
// dispatched track has reported.
func (s *Service) dispatch(ctx context.Context, refs []model.TrackRef, index *library.Index) <-chan *model.AcquireResult {
	jobs := make(chan acquireJob)
	results := make(chan *model.AcquireResult)

	var wg sync.WaitGroup
	for w := 0; w < s.maxParallel; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- s.acquire(ctx, job, index)
			}
		}()
	}

	go func() {
		defer close(jobs)
		total := len(refs)
		for i, ref := range refs {
			// checked first: select alone could still hand a job to an
			// idle worker after cancellation
			if ctx.Err() != nil {
				return
			}
			job := acquireJob{id: newJobID(), ref: ref, index: i + 1, total: total}
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// runDirect is the fallback when resolution yields no tracks: the URL itself
// is treated as a single direct item and routed around the skip pipeline.
func (s *Service) runDirect(ctx context.Context, url string) (*model.RunStats, error) {
	fmt.Fprintln(s.out, "no tracks resolved, trying direct download")
	err := s.fetcher.FetchDirect(ctx, url, FetchOptions{
		DestDir:      s.destDir,
		ExtractAudio: s.transcodeAvailable,
	})
	if err != nil {
		return nil, fmt.Errorf("direct download: %w", err)
	}
	return &model.RunStats{Successful: 1, Total: 1}, nil
}

// newJobID generates a unique, time-ordered job ID.
func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("job-%d", time.Now().UnixNano())
	}
	return "job-" + id.String()
}
