package model

// TrackRef is an opaque locator (URL or ID) for one remote track. Identity
// is the locator string itself; a TrackRef is never rewritten after it has
// been resolved.
type TrackRef string

// String returns the raw locator.
func (r TrackRef) String() string { return string(r) }

// TrackInfo carries the metadata the extractor reports for a track. Zero
// values mean the field was not reported: an unknown duration is 0 and is
// not a preview, an unknown size estimate is 0 and switches verification to
// the absolute minimum-size rule.
type TrackInfo struct {
	Title    string
	Duration float64 // seconds
	Filesize int64   // bytes, extractor's best estimate
	Ext      string  // source container extension, e.g. "m4a"
}

// DedupTrackRefs drops duplicate locators, keeping the first occurrence of
// each and the original order of the rest.
func DedupTrackRefs(refs []TrackRef) []TrackRef {
	seen := make(map[TrackRef]struct{}, len(refs))
	out := make([]TrackRef, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
