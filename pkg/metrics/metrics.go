// Package metrics records run outcomes as Prometheus metrics and writes
// them to a textfile for the node exporter's textfile collector.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = []float64{10, 30, 60, 120, 300, 600, 1200, 1800, 3600}

const (
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"
	OutcomeDeclined  = "declined"
)

// Recorder holds the metrics of one run on a private registry
type Recorder struct {
	registry *prometheus.Registry

	jobs          *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	packages      *prometheus.CounterVec
	deploys       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// NewRecorder creates a recorder with every collector registered
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.jobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mwu",
		Name:      "jobs_total",
		Help:      "Site update jobs by outcome and failure reason",
	}, []string{"outcome", "reason"})

	r.jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mwu",
		Name:      "job_duration_seconds",
		Help:      "Wall time of site update jobs",
		Buckets:   durationBuckets,
	}, []string{"outcome"})

	r.packages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mwu",
		Name:      "package_updates_total",
		Help:      "Package updates by result",
	}, []string{"result"})

	r.deploys = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mwu",
		Name:      "deploys_total",
		Help:      "Deploys by target environment and status",
	}, []string{"env", "status"})

	r.notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mwu",
		Name:      "notifications_total",
		Help:      "Slack deliveries by result",
	}, []string{"result"})

	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mwu",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the run finished",
	})

	r.registry.MustRegister(r.jobs, r.jobDuration, r.packages, r.deploys, r.notifications, r.lastRun)
	return r
}

// Registry exposes the private registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveJob records one finished job
func (r *Recorder) ObserveJob(rep *report.Report, took time.Duration) {
	outcome := Outcome(rep)
	r.jobs.With(prometheus.Labels{"outcome": outcome, "reason": string(rep.Reason)}).Inc()
	r.jobDuration.With(prometheus.Labels{"outcome": outcome}).Observe(took.Seconds())

	if p := rep.Sections.PackageUpdates; p != nil {
		r.packages.With(prometheus.Labels{"result": "applied"}).Add(float64(len(p.Applied)))
		r.packages.With(prometheus.Labels{"result": "failed"}).Add(float64(len(p.Failed)))
		r.packages.With(prometheus.Labels{"result": "unavailable"}).Add(float64(len(p.Unavailable)))
	}
	for _, d := range []*report.DeploySection{rep.Sections.DeployTest, rep.Sections.DeployLive} {
		if d != nil {
			r.deploys.With(prometheus.Labels{"env": d.Env, "status": string(d.Status)}).Inc()
		}
	}
}

// ObserveNotification records delivery results of one job
func (r *Recorder) ObserveNotification(sent int, err error) {
	r.notifications.With(prometheus.Labels{"result": "sent"}).Add(float64(sent))
	if err != nil {
		r.notifications.With(prometheus.Labels{"result": "failed"}).Inc()
	}
}

// Outcome classifies a finished report
func Outcome(rep *report.Report) string {
	switch {
	case rep.Error:
		return OutcomeAborted
	case rep.Declined:
		return OutcomeDeclined
	default:
		return OutcomeCompleted
	}
}

// WriteFile stamps the run end time and writes the textfile atomically
func (r *Recorder) WriteFile(path string) error {
	r.lastRun.SetToCurrentTime()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create metrics directory")
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to write metrics to %s", path)
	}
	return nil
}
