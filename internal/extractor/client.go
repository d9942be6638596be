// Package extractor adapts the go-ytdlp collaborator to the pipeline's
// Resolver, Prober and Fetcher interfaces. All yt-dlp command construction
// lives here; the rest of the module never sees the wire protocol.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/likegrab/likegrab/internal/download"
	"github.com/likegrab/likegrab/internal/model"
)

// Transport-level knobs passed straight to yt-dlp. These sit below the state
// machine's own retry loop: they cover fragment and connection hiccups
// inside a single attempt.
const (
	playlistFormatSelector = "bestaudio[ext=m4a]/bestaudio/best"
	directFormatSelector   = "bestaudio/best"
	outputTemplate         = "%(title)s.%(ext)s"

	transportRetries    = "10"
	fragmentRetries     = "20"
	fileAccessRetries   = "5"
	concurrentFragments = 4
	socketTimeoutSec    = 30
	httpChunkSize       = "10M"

	skipPreviewArg = "soundcloud:skip_preview"

	targetCodec   = "mp3"
	targetBitrate = "320K"

	progressInterval = 500 * time.Millisecond
)

// Client wraps go-ytdlp command construction. It is stateless and safe for
// concurrent use by the worker pool.
type Client struct{}

// NewClient creates a new extractor client.
func NewClient() *Client {
	return &Client{}
}

var (
	_ download.Resolver = (*Client)(nil)
	_ download.Prober   = (*Client)(nil)
	_ download.Fetcher  = (*Client)(nil)
)

// ResolvePlaylist lists the collection at url without downloading anything.
func (c *Client) ResolvePlaylist(ctx context.Context, url string) ([]model.TrackRef, error) {
	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreErrors().
		FlatPlaylist().
		SkipDownload().
		DumpSingleJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("resolve playlist: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse playlist info: %w", err)
	}

	var refs []model.TrackRef
	for _, info := range infos {
		if info == nil {
			continue
		}
		if len(info.Entries) > 0 {
			for _, entry := range info.Entries {
				if entry != nil && entry.URL != nil && *entry.URL != "" {
					refs = append(refs, model.TrackRef(*entry.URL))
				}
			}
			continue
		}
		if info.URL != nil && *info.URL != "" {
			refs = append(refs, model.TrackRef(*info.URL))
		}
	}
	return refs, nil
}

// Probe fetches metadata for one track without downloading it.
func (c *Client) Probe(ctx context.Context, ref model.TrackRef) (*model.TrackInfo, error) {
	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		SkipDownload().
		DumpSingleJSON()

	result, err := dl.Run(ctx, ref.String())
	if err != nil {
		return nil, fmt.Errorf("probe track: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("probe track: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("probe track: no metadata for %s", ref)
	}
	return trackInfoFrom(infos[0]), nil
}

// Fetch downloads one track into opts.DestDir. Completion and the final
// path come from the progress signal, with the post-run extracted info as
// fallback.
func (c *Client) Fetch(ctx context.Context, ref model.TrackRef, opts download.FetchOptions) (*download.FetchResult, error) {
	dl := c.fetchCommand(playlistFormatSelector, opts)

	fetched := &download.FetchResult{}
	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		if update.Status == ytdlp.ProgressStatusFinished {
			fetched.Completed = true
			if update.Filename != "" {
				fetched.Path = update.Filename
			}
		}
	})

	result, err := dl.Run(ctx, ref.String())
	if err != nil {
		return fetched, fmt.Errorf("fetch track: %w", err)
	}

	if fetched.Path == "" && result != nil {
		if infos, infoErr := result.GetExtractedInfo(); infoErr == nil && len(infos) > 0 {
			if infos[0].Filename != nil && *infos[0].Filename != "" {
				fetched.Path = *infos[0].Filename
				fetched.Completed = true
			}
		}
	}
	return fetched, nil
}

// FetchDirect downloads url as-is, outside the per-track pipeline.
func (c *Client) FetchDirect(ctx context.Context, url string, opts download.FetchOptions) error {
	dl := c.fetchCommand(directFormatSelector, opts)
	if _, err := dl.Run(ctx, url); err != nil {
		return fmt.Errorf("direct fetch: %w", err)
	}
	return nil
}

func (c *Client) fetchCommand(format string, opts download.FetchOptions) *ytdlp.Command {
	dl := ytdlp.New().
		Format(format).
		Output(filepath.Join(opts.DestDir, outputTemplate)).
		IgnoreErrors().
		Quiet().
		NoWarnings().
		Retries(transportRetries).
		FragmentRetries(fragmentRetries).
		FileAccessRetries(fileAccessRetries).
		ConcurrentFragments(concurrentFragments).
		SocketTimeout(socketTimeoutSec).
		HTTPChunkSize(httpChunkSize).
		ExtractorArgs(skipPreviewArg).
		PrintJSON()

	if opts.ExtractAudio {
		dl = dl.ExtractAudio().AudioFormat(targetCodec).AudioQuality(targetBitrate)
	}
	return dl
}

// trackInfoFrom maps the extractor's loosely-typed info into the typed
// TrackInfo the pipeline consumes.
func trackInfoFrom(info *ytdlp.ExtractedInfo) *model.TrackInfo {
	out := &model.TrackInfo{}
	if info == nil {
		return out
	}
	if info.Title != nil {
		out.Title = *info.Title
	}
	if info.Duration != nil {
		out.Duration = *info.Duration
	}
	if info.FileSize != nil {
		out.Filesize = int64(*info.FileSize)
	} else if info.FileSizeApprox != nil {
		out.Filesize = int64(*info.FileSizeApprox)
	}
	if info.Extension != "" {
		out.Ext = info.Extension
	}
	return out
}
