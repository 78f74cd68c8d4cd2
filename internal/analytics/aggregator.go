// Package analytics turns the backend's per-day click totals into a
// sorted series and manages the loading and error state around fetching
// them.
package analytics

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// ClicksFetcher returns the raw {date: count} payload for a range.
// *api.Client satisfies it.
type ClicksFetcher interface {
	TotalClicks(ctx context.Context, start, end string) (json.RawMessage, error)
}

// Result is a snapshot of the aggregator's state.
type Result struct {
	// TotalClicks is nil until the first successful fetch.
	TotalClicks *int64
	Series      []ClickSample
	IsLoading   bool
	// Error is the display message of the last failed fetch, or "".
	Error     string
	StartDate string
	EndDate   string
	// Seq identifies the fetch this snapshot belongs to.
	Seq uint64
}

// Total returns the grand total, or 0 before the first success.
func (r Result) Total() int64 {
	if r.TotalClicks == nil {
		return 0
	}
	return *r.TotalClicks
}

// Aggregator fetches click totals and tracks the latest outcome. Only the
// most recently started fetch may change the state; older completions
// are dropped.
type Aggregator struct {
	fetcher   ClicksFetcher
	logger    zerolog.Logger
	keepStale bool

	mu       sync.Mutex
	result   Result
	seq      uint64
	cancel   context.CancelFunc
	hasRange bool

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(Result)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the aggregator's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithKeepStaleOnError keeps the previous series when a fetch fails.
// By default the series is cleared on failure; the total always keeps
// its last successful value.
func WithKeepStaleOnError(keep bool) Option {
	return func(a *Aggregator) { a.keepStale = keep }
}

// NewAggregator creates an Aggregator over fetcher.
func NewAggregator(fetcher ClicksFetcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher: fetcher,
		logger:  zerolog.Nop(),
		result:  Result{Series: []ClickSample{}},
		subs:    make(map[int]func(Result)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot returns the current state.
func (a *Aggregator) Snapshot() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Fetch loads totals for [start, end]. An invalid range sets Error and
// returns without calling the backend. Starting a fetch cancels the one
// in flight. The returned snapshot is the current state, which belongs to
// a newer fetch if this one was superseded.
func (a *Aggregator) Fetch(ctx context.Context, start, end string) Result {
	if err := ValidateRange(start, end); err != nil {
		return a.reject(start, end, err)
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	seq := a.begin(start, end, cancel)
	a.result.IsLoading = true
	a.result.Error = ""
	loading := a.snapshotLocked()
	a.mu.Unlock()

	a.logger.Debug().Uint64("seq", seq).Str("start", start).Str("end", end).Msg("fetching click totals")
	a.notify(loading)

	raw, err := a.fetcher.TotalClicks(fetchCtx, start, end)

	a.mu.Lock()
	if seq != a.seq {
		current := a.snapshotLocked()
		a.mu.Unlock()
		a.logger.Debug().Uint64("seq", seq).Uint64("latest", current.Seq).Msg("discarding superseded fetch")
		return current
	}
	a.cancel = nil
	if err != nil {
		a.fail(ErrorMessage(err))
		a.logger.Warn().Err(err).Uint64("seq", seq).Msg("click totals fetch failed")
	} else {
		series, total := BuildSeries(raw)
		a.result.Series = series
		a.result.TotalClicks = &total
		a.result.Error = ""
	}
	a.result.IsLoading = false
	done := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(done)
	return done
}

// Refetch repeats the last requested range. Without one it reports that
// dates are required.
func (a *Aggregator) Refetch(ctx context.Context) Result {
	a.mu.Lock()
	start, end := a.result.StartDate, a.result.EndDate
	a.mu.Unlock()
	return a.Fetch(ctx, start, end)
}

// SetRange fetches only when the range differs from the last request.
func (a *Aggregator) SetRange(ctx context.Context, start, end string) Result {
	a.mu.Lock()
	unchanged := a.hasRange && a.result.StartDate == start && a.result.EndDate == end
	if unchanged {
		current := a.snapshotLocked()
		a.mu.Unlock()
		return current
	}
	a.mu.Unlock()
	return a.Fetch(ctx, start, end)
}

// Subscribe registers fn to receive every state change. Call the returned
// function to stop receiving.
func (a *Aggregator) Subscribe(fn func(Result)) (unsubscribe func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	id := a.nextSubID
	a.nextSubID++
	a.subs[id] = fn
	return func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		delete(a.subs, id)
	}
}

// reject records a validation failure as the latest request.
func (a *Aggregator) reject(start, end string, err error) Result {
	a.mu.Lock()
	a.begin(start, end, nil)
	a.cancel = nil
	a.fail(ErrorMessage(err))
	a.result.IsLoading = false
	rejected := a.snapshotLocked()
	a.mu.Unlock()

	a.logger.Debug().Str("start", start).Str("end", end).Str("reason", rejected.Error).Msg("rejected date range")
	a.notify(rejected)
	return rejected
}

// begin supersedes any fetch in flight. Expects a.mu to be held.
func (a *Aggregator) begin(start, end string, cancel context.CancelFunc) uint64 {
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = cancel
	a.seq++
	a.hasRange = true
	a.result.StartDate = start
	a.result.EndDate = end
	a.result.Seq = a.seq
	return a.seq
}

// fail expects a.mu to be held.
func (a *Aggregator) fail(msg string) {
	a.result.Error = msg
	if !a.keepStale {
		a.result.Series = []ClickSample{}
	}
}

func (a *Aggregator) snapshotLocked() Result {
	r := a.result
	r.Series = slices.Clone(a.result.Series)
	if a.result.TotalClicks != nil {
		total := *a.result.TotalClicks
		r.TotalClicks = &total
	}
	return r
}

func (a *Aggregator) notify(r Result) {
	a.subMu.Lock()
	fns := make([]func(Result), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subMu.Unlock()

	for _, fn := range fns {
		fn(r)
	}
}
