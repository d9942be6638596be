package download

import (
	"context"

	"github.com/likegrab/likegrab/internal/model"
)

// Resolver expands a collection URL into the track locators it contains.
type Resolver interface {
	// ResolvePlaylist returns the tracks of the collection at url in
	// collection order. Duplicates may be present; the caller dedups.
	ResolvePlaylist(ctx context.Context, url string) ([]model.TrackRef, error)
}

// Prober looks up lightweight metadata for a single track.
type Prober interface {
	// Probe is best-effort: an error means no metadata is available, never
	// a fatal condition for the caller.
	Probe(ctx context.Context, ref model.TrackRef) (*model.TrackInfo, error)
}

// FetchOptions control one fetch attempt.
type FetchOptions struct {
	// DestDir is the directory the file is written into.
	DestDir string

	// ExtractAudio requests transcoding to the target codec through the
	// external tool. The state machine turns this off for the fallback
	// attempt when the tool is missing.
	ExtractAudio bool
}

// FetchResult reports what the fetcher observed for one attempt.
type FetchResult struct {
	Completed bool   // a finished signal was seen
	Path      string // final file path when the extractor reported one
}

// Fetcher performs the actual network retrieval.
type Fetcher interface {
	Fetch(ctx context.Context, ref model.TrackRef, opts FetchOptions) (*FetchResult, error)

	// FetchDirect downloads url as-is, outside the per-track pipeline. Used
	// when playlist resolution yields nothing and the URL is treated as a
	// single direct item.
	FetchDirect(ctx context.Context, url string, opts FetchOptions) error
}
