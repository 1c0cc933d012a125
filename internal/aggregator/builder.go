package aggregator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

// BuildStats describes one Build call.
type BuildStats struct {
	SeriesID    string
	Matches     int // matches that passed the map filter
	Rows        int
	Skipped     int
	UnknownSlot int
	Players     int
	Duration    time.Duration
}

// Observer receives a BuildStats after every successful Build.
type Observer interface {
	ObserveBuild(BuildStats)
}

// Result is the presentation-ready output of a series build.
type Result struct {
	Matches []model.MatchSummary
	Players []model.PlayerSeriesAggregate
}

// MapBreakdown is the aggregate of one map of a series.
type MapBreakdown struct {
	MapID   string
	MapName string
	Matches []model.MatchSummary
	Players []model.PlayerSeriesAggregate
}

// Builder turns a loaded series snapshot into match summaries and rated
// per-player aggregates. It holds no per-series state and may be shared.
type Builder struct {
	players   PlayerResolver
	providers Providers
	logger    zerolog.Logger
	observer  Observer
	workers   int
	now       func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithObserver registers an observer for build statistics.
func WithObserver(o Observer) Option {
	return func(b *Builder) { b.observer = o }
}

// WithWorkers caps the number of matches processed concurrently.
// Zero means one goroutine per match.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.workers = n
		}
	}
}

// WithProviders sets the providers assumed for matches without a source.
// Empty fields keep the defaults.
func WithProviders(p Providers) Option {
	return func(b *Builder) {
		if p.FPS != "" {
			b.providers.FPS = p.FPS
		}
		if p.MOBA != "" {
			b.providers.MOBA = p.MOBA
		}
	}
}

// NewBuilder returns a Builder resolving players through players.
func NewBuilder(players PlayerResolver, opts ...Option) *Builder {
	b := &Builder{
		players:   players,
		providers: DefaultProviders,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build summarizes every match of the series and aggregates the stat rows of
// the matches passing mapFilter (empty = all maps). Degenerate input yields
// partial or empty output; the only error is the caller's context error.
func (b *Builder) Build(ctx context.Context, series *model.Series, mapFilter string) (Result, error) {
	return b.build(ctx, series, func(m *model.Match) bool { return matchesMap(m, mapFilter) })
}

func (b *Builder) build(ctx context.Context, series *model.Series, include func(*model.Match) bool) (Result, error) {
	start := b.now()
	if series == nil || len(series.Matches) == 0 {
		b.observe(BuildStats{SeriesID: seriesID(series), Duration: b.now().Sub(start)})
		return Result{Matches: []model.MatchSummary{}, Players: []model.PlayerSeriesAggregate{}}, nil
	}

	n := len(series.Matches)
	summaries := make([]model.MatchSummary, n)
	partials := make([]Totals, n)
	stats := make([]FoldStats, n)
	included := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}
	for i := range series.Matches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m := &series.Matches[i]
			summaries[i] = Summarize(series, m)
			if !include(m) {
				return nil
			}
			included[i] = true
			partials[i], stats[i] = Fold(b.providers.Tag(series, m, i), b.players)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	// Merge in match order so last-write-wins fields follow the series order.
	totals := make(Totals)
	bs := BuildStats{SeriesID: series.ID}
	for i := range partials {
		if !included[i] {
			continue
		}
		Merge(totals, partials[i])
		bs.Matches++
		bs.Rows += stats[i].Rows
		bs.Skipped += stats[i].Skipped
		bs.UnknownSlot += stats[i].UnknownSlot

		if stats[i].Skipped > 0 {
			b.logger.Debug().
				Str("series_id", series.ID).
				Str("match_id", series.Matches[i].ID).
				Int("skipped", stats[i].Skipped).
				Msg("stat rows without a linked game profile")
		}
		if stats[i].UnknownSlot > 0 {
			b.logger.Debug().
				Str("series_id", series.ID).
				Str("match_id", series.Matches[i].ID).
				Int("unknown_slot", stats[i].UnknownSlot).
				Msg("stat rows could not be attributed to a series team")
		}
	}

	players := Rate(totals)
	bs.Players = len(players)
	bs.Duration = b.now().Sub(start)
	b.observe(bs)

	return Result{Matches: summaries, Players: players}, nil
}

// BuildPerMap builds once per distinct map of the series, in order of first
// appearance. Matches are grouped by map id, or by lower-cased map name when
// the id is missing, so every match lands in exactly one breakdown.
func (b *Builder) BuildPerMap(ctx context.Context, series *model.Series) ([]MapBreakdown, error) {
	if series == nil {
		return nil, nil
	}
	var out []MapBreakdown
	seen := make(map[string]struct{})
	for i := range series.Matches {
		m := &series.Matches[i]
		key := mapKey(m)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		res, err := b.build(ctx, series, func(o *model.Match) bool { return mapKey(o) == key })
		if err != nil {
			return nil, err
		}
		mb := MapBreakdown{MapID: m.MapID, MapName: m.MapName, Players: res.Players}
		for j := range series.Matches {
			if mapKey(&series.Matches[j]) == key {
				mb.Matches = append(mb.Matches, res.Matches[j])
			}
		}
		out = append(out, mb)
	}
	return out, nil
}

func (b *Builder) observe(bs BuildStats) {
	if b.observer != nil {
		b.observer.ObserveBuild(bs)
	}
}

func seriesID(s *model.Series) string {
	if s == nil {
		return ""
	}
	return s.ID
}
