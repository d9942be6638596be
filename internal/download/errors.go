package download

import "strings"

// fetchErrorClass buckets collaborator errors for the retry policy. The
// extractor surfaces yt-dlp's own wording, so classification is substring
// based.
type fetchErrorClass int

const (
	// classTransient retries after a short fixed delay.
	classTransient fetchErrorClass = iota

	// classRateLimited retries on a linear backoff schedule.
	classRateLimited

	// classGeoRestricted is permanent and tallied separately.
	classGeoRestricted

	// classTranscoder gets one immediate retry with transcoding disabled,
	// then is permanent.
	classTranscoder
)

func classifyFetchError(err error) fetchErrorClass {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "ffmpeg") || strings.Contains(lower, "ffprobe"):
		return classTranscoder
	case strings.Contains(lower, "geo restriction") || strings.Contains(lower, "not available from your location"):
		return classGeoRestricted
	case strings.Contains(msg, "429") || strings.Contains(lower, "too many requests"):
		return classRateLimited
	default:
		return classTransient
	}
}

// truncateError keeps outcome lines readable.
func truncateError(err error, limit int) string {
	msg := err.Error()
	if len(msg) <= limit {
		return msg
	}
	return msg[:limit]
}
