package download

import (
	"context"
	"errors"
	"sync"

	"github.com/likegrab/likegrab/internal/model"
)

type stubResolver struct {
	refs []model.TrackRef
	err  error
}

func (r *stubResolver) ResolvePlaylist(context.Context, string) ([]model.TrackRef, error) {
	return r.refs, r.err
}

type stubProber struct {
	infos map[model.TrackRef]*model.TrackInfo
}

func (p *stubProber) Probe(_ context.Context, ref model.TrackRef) (*model.TrackInfo, error) {
	if info, ok := p.infos[ref]; ok {
		return info, nil
	}
	return nil, errors.New("no metadata")
}

// stubFetcher records every Fetch call and delegates to fn with the 1-based
// call number.
type stubFetcher struct {
	mu    sync.Mutex
	calls []FetchOptions
	fn    func(call int, ref model.TrackRef, opts FetchOptions) (*FetchResult, error)

	directCalls int
	directErr   error
}

func (f *stubFetcher) Fetch(_ context.Context, ref model.TrackRef, opts FetchOptions) (*FetchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	call := len(f.calls)
	f.mu.Unlock()
	if f.fn == nil {
		return &FetchResult{Completed: true}, nil
	}
	return f.fn(call, ref, opts)
}

func (f *stubFetcher) FetchDirect(context.Context, string, FetchOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directCalls++
	return f.directErr
}

func (f *stubFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// newTestService wires a Service with fast retry pacing and the transcoder
// probe stubbed off.
func newTestService(resolver Resolver, prober Prober, fetcher Fetcher, opts Options) *Service {
	svc := NewService(resolver, prober, fetcher, opts)
	svc.probeTranscoder = func() bool { return false }
	svc.retryDelay = 0
	svc.backoffUnit = 0
	svc.settleDelay = 0
	return svc
}
