// Package metrics counts assistant activity with Prometheus collectors.
//
// There is no HTTP endpoint; the registry is exported as a node-exporter
// textfile when the process exits.
package metrics

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BTreeMap/PortfolioBot/internal/models"
)

const namespace = "portfoliobot"

// Recorder owns a private registry so independent instances never collide.
type Recorder struct {
	registry *prometheus.Registry

	submissions  *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	sessionsOpen prometheus.Gauge
	sessions     prometheus.Counter
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Recorder{
		registry: reg,
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of chat submissions by outcome",
			},
			[]string{"outcome"},
		),
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total number of bot replies by matched topic",
			},
			[]string{"topic"},
		),
		sessionsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_open",
				Help:      "Number of conversation sessions currently open",
			},
		),
		sessions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Total number of conversation sessions opened",
			},
		),
	}

	// Pre-create every label value so exported files list zero counts too.
	for _, topic := range models.AllTopics {
		r.resolutions.WithLabelValues(string(topic))
	}
	for _, outcome := range []models.SubmitOutcome{
		models.OutcomeAccepted, models.OutcomeIgnoredEmpty, models.OutcomeIgnoredBusy, models.OutcomeIgnoredClosed,
	} {
		r.submissions.WithLabelValues(string(outcome))
	}
	return r
}

// Registry exposes the underlying registry as a Gatherer.
func (r *Recorder) Registry() prometheus.Gatherer {
	return r.registry
}

// ObserveSubmission counts one Submit call by outcome.
func (r *Recorder) ObserveSubmission(outcome models.SubmitOutcome) {
	r.submissions.WithLabelValues(string(outcome)).Inc()
}

// ObserveResolution counts one bot reply by topic.
func (r *Recorder) ObserveResolution(topic models.Topic) {
	r.resolutions.WithLabelValues(string(topic)).Inc()
}

// SessionOpened marks a new session.
func (r *Recorder) SessionOpened() {
	r.sessions.Inc()
	r.sessionsOpen.Inc()
}

// SessionClosed marks a session teardown.
func (r *Recorder) SessionClosed() {
	r.sessionsOpen.Dec()
}

// WriteTextfile writes the current metric values in the text exposition format.
// The file is written atomically, as the node-exporter textfile collector expects.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		slog.Error("Failed to write metrics textfile", "error", err, "path", path)
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	slog.Debug("Metrics textfile written", "path", path)
	return nil
}
