package download

// Package download implements the core acquisition pipeline built on top of
// yt-dlp (via github.com/lrstanley/go-ytdlp). It owns the bounded worker
// pool, the per-track retry/fallback state machine each worker runs, and
// verification of the files the extractor produces.
