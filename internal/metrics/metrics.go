package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
)

var _ aggregator.Observer = (*Service)(nil)

// Service records series build statistics as Prometheus metrics.
type Service struct {
	Builds        prometheus.Counter
	RowsProcessed prometheus.Counter
	RowsSkipped   prometheus.Counter
	RowsUnknown   prometheus.Counter
	BuildDuration prometheus.Histogram
	LastPlayers   prometheus.Gauge
}

// NewService creates and registers the build metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "balkana_series_builds_total",
			Help: "The total number of series aggregations built.",
		}),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "balkana_stat_rows_processed_total",
			Help: "The total number of player stat rows folded into aggregates.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "balkana_stat_rows_skipped_total",
			Help: "Stat rows dropped because no game profile was linked.",
		}),
		RowsUnknown: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "balkana_stat_rows_unknown_slot_total",
			Help: "Stat rows that could not be attributed to a series team.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "balkana_series_build_duration_seconds",
			Help:    "The duration of a series aggregation build.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LastPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "balkana_series_build_players",
			Help: "Number of players in the most recent series aggregation.",
		}),
	}

	reg.MustRegister(
		s.Builds,
		s.RowsProcessed,
		s.RowsSkipped,
		s.RowsUnknown,
		s.BuildDuration,
		s.LastPlayers,
	)

	return s
}

// ObserveBuild implements aggregator.Observer.
func (s *Service) ObserveBuild(bs aggregator.BuildStats) {
	s.Builds.Inc()
	s.RowsProcessed.Add(float64(bs.Rows))
	s.RowsSkipped.Add(float64(bs.Skipped))
	s.RowsUnknown.Add(float64(bs.UnknownSlot))
	s.BuildDuration.Observe(bs.Duration.Seconds())
	s.LastPlayers.Set(float64(bs.Players))
}

// WriteTextfile dumps everything gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
