package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/likegrab/likegrab/internal/library"
	"github.com/likegrab/likegrab/internal/model"
	"github.com/likegrab/likegrab/internal/platform"
)

// Verification thresholds: a download with a known size estimate must reach
// completeRatio of it; without an estimate it must be at least
// minArtifactSize bytes. Anything shorter than previewMaxSeconds but longer
// than zero is a source-side preview, not the full track.
const (
	completeRatio     = 0.85
	minArtifactSize   = 100_000
	previewMaxSeconds = 60
	maxMessageErrLen  = 60

	targetAudioExt   = "mp3"
	defaultSourceExt = "m4a"
)

type acquireJob struct {
	id    string
	ref   model.TrackRef
	index int // 1-based
	total int
}

// acquire runs the full per-track pipeline for one job: skip check, fetch
// with retry and transcoder fallback, verification, cleanup. Every failure
// is contained in the returned result; acquire never aborts the run.
func (s *Service) acquire(ctx context.Context, job acquireJob, index *library.Index) *model.AcquireResult {
	res := &model.AcquireResult{ID: job.id, Index: job.index, Total: job.total}
	fail := func(msg string) *model.AcquireResult {
		res.Outcome = model.OutcomeFailed
		res.Message = msg
		return res
	}

	if s.skipExisting && s.alreadyHave(ctx, job.ref, index) {
		res.Outcome = model.OutcomeSkipped
		res.Message = "skipped (already exists)"
		return res
	}

	useTranscode := s.transcodeAvailable

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fail("canceled")
		}

		info, err := s.prober.Probe(ctx, job.ref)
		if err != nil || info == nil {
			info = &model.TrackInfo{}
		}

		if info.Duration > 0 && info.Duration < previewMaxSeconds {
			return fail(fmt.Sprintf("skipped (preview %ds, not full version)", int(info.Duration)))
		}

		fetched, err := s.fetcher.Fetch(ctx, job.ref, FetchOptions{
			DestDir:      s.destDir,
			ExtractAudio: useTranscode,
		})
		if err != nil {
			switch classifyFetchError(err) {
			case classTranscoder:
				if attempt == 0 && useTranscode {
					// one immediate retry with transcoding off; the
					// fallback does not consume an attempt
					useTranscode = false
					attempt--
					continue
				}
				return fail("conversion error (ffmpeg not found)")

			case classGeoRestricted:
				res.GeoRestricted = true
				return fail("geo-restricted")

			case classRateLimited:
				if attempt < s.maxAttempts-1 {
					if !s.wait(ctx, time.Duration(attempt+1)*s.backoffUnit) {
						return fail("canceled")
					}
					continue
				}
				return fail("too many requests (429)")

			default:
				if attempt < s.maxAttempts-1 {
					if !s.wait(ctx, s.retryDelay) {
						return fail("canceled")
					}
					continue
				}
				return fail("error: " + truncateError(err, maxMessageErrLen))
			}
		}

		// let the extractor finish renaming part files
		time.Sleep(s.settleDelay)

		var size int64
		if found := s.locateArtifact(fetched, info, useTranscode); found != "" {
			st, statErr := os.Stat(found)
			if statErr == nil {
				size = st.Size()
				if msg, ok := verifySize(size, info.Filesize); !ok {
					_ = os.Remove(found)
					if attempt < s.maxAttempts-1 {
						if !s.wait(ctx, s.retryDelay) {
							return fail("canceled")
						}
						continue
					}
					return fail(msg)
				}
			}
		} else if fetched == nil || !fetched.Completed {
			return fail("download not completed")
		}

		if useTranscode {
			platform.RepairDoubleExtensions(s.destDir, targetAudioExt)
		}

		res.Outcome = model.OutcomeSuccess
		res.Message = successLine(info.Duration, size)
		return res
	}

	return fail(fmt.Sprintf("failed after %d attempts", s.maxAttempts))
}

// alreadyHave implements the three-step skip check: exact key hit in the
// snapshot index, fuzzy hit in the snapshot, then a live rescan of the
// destination directory. A failed probe never blocks an attempt.
func (s *Service) alreadyHave(ctx context.Context, ref model.TrackRef, index *library.Index) bool {
	info, err := s.prober.Probe(ctx, ref)
	if err != nil || info == nil || info.Title == "" {
		return false
	}
	key := library.NormalizeTitle(info.Title)
	if key == "" {
		return false
	}
	if index.Contains(key) || index.FuzzyContains(key) {
		return true
	}
	return library.ScanMatch(s.destDir, key)
}

// locateArtifact finds the downloaded file: the fetcher-reported path first,
// then the expected name built from the sanitized title, then a fuzzy scan
// of the destination directory.
func (s *Service) locateArtifact(fetched *FetchResult, info *model.TrackInfo, transcoded bool) string {
	if fetched != nil && fetched.Path != "" {
		if _, err := os.Stat(fetched.Path); err == nil {
			return fetched.Path
		}
	}

	expected := expectedFilename(info, transcoded)
	if expected == "" {
		return ""
	}
	path := filepath.Join(s.destDir, expected)
	if _, err := os.Stat(path); err == nil {
		return path
	}

	return library.FindByTitle(s.destDir, library.NormalizeTitle(info.Title))
}

// expectedFilename predicts the extractor's output name from the sanitized
// title. Empty when no title is known.
func expectedFilename(info *model.TrackInfo, transcoded bool) string {
	safe := library.SanitizeTitle(info.Title)
	if safe == "" {
		return ""
	}
	if transcoded {
		return safe + "." + targetAudioExt
	}
	ext := info.Ext
	if ext == "" {
		ext = defaultSourceExt
	}
	return safe + "." + ext
}

// verifySize checks a downloaded file against the size estimate. The bool is
// false when the file must be discarded; msg then carries the reason.
func verifySize(actual, estimate int64) (msg string, ok bool) {
	if estimate > 0 {
		if float64(actual) < float64(estimate)*completeRatio {
			return fmt.Sprintf("file incomplete (%d/%d bytes, %d%%)",
				actual, estimate, actual*100/estimate), false
		}
		return "", true
	}
	if actual < minArtifactSize {
		return fmt.Sprintf("file too small (%d bytes)", actual), false
	}
	return "", true
}

func successLine(duration float64, size int64) string {
	switch {
	case duration > 0 && size > 0:
		return fmt.Sprintf("downloaded (%ds, %s)", int(duration), humanize.Bytes(uint64(size)))
	case duration > 0:
		return fmt.Sprintf("downloaded (%ds)", int(duration))
	case size > 0:
		return fmt.Sprintf("downloaded (%s)", humanize.Bytes(uint64(size)))
	default:
		return "downloaded"
	}
}

// wait sleeps for d unless the run is canceled first.
func (s *Service) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
