package profile

import (
	"context"
	"fmt"
	"math"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	prommodel "github.com/prometheus/common/model"
	"k8s.io/klog/v2"

	"github.com/guimove/trunkfit/internal/model"
)

// PrometheusLoader builds a profile from a call-attempt counter by summing its
// hourly increase per hour of day over a window of past days.
type PrometheusLoader struct {
	api      promv1.API
	endpoint string
	query    string
	window   time.Duration
	location *time.Location
	timeout  time.Duration
	now      func() time.Time
}

// PrometheusOption configures the Prometheus loader.
type PrometheusOption func(*PrometheusLoader)

// WithTimeout sets the query timeout.
func WithTimeout(d time.Duration) PrometheusOption {
	return func(l *PrometheusLoader) { l.timeout = d }
}

// WithWindow sets how far back samples are collected.
func WithWindow(d time.Duration) PrometheusOption {
	return func(l *PrometheusLoader) { l.window = d }
}

// WithLocation sets the time zone that defines the hour of day.
func WithLocation(loc *time.Location) PrometheusOption {
	return func(l *PrometheusLoader) { l.location = loc }
}

// NewPrometheusLoader creates a loader reading counter from the given endpoint.
func NewPrometheusLoader(endpoint, counter string, opts ...PrometheusOption) (*PrometheusLoader, error) {
	client, err := promapi.NewClient(promapi.Config{
		Address: endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}

	l := &PrometheusLoader{
		api:      promv1.NewAPI(client),
		endpoint: endpoint,
		query:    queryHourlyIncrease(counter),
		window:   7 * 24 * time.Hour,
		location: time.UTC,
		timeout:  60 * time.Second,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Source returns the endpoint and query.
func (l *PrometheusLoader) Source() string {
	return fmt.Sprintf("%s (%s)", l.endpoint, l.query)
}

// Load queries the counter's hourly increase and folds it onto 24 hours.
func (l *PrometheusLoader) Load(ctx context.Context) (model.HourlyProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	end := l.now().Truncate(time.Hour)
	r := promv1.Range{
		Start: end.Add(-l.window),
		End:   end,
		Step:  time.Hour,
	}

	value, warnings, err := l.api.QueryRange(ctx, l.query, r)
	if err != nil {
		return model.HourlyProfile{}, fmt.Errorf("querying prometheus: %w", err)
	}
	for _, w := range warnings {
		klog.InfoS("Prometheus query warning", "warning", w)
	}

	counts, samples := foldByHour(value, l.location)
	klog.V(2).InfoS("Loaded traffic samples", "endpoint", l.endpoint, "samples", samples)
	if samples == 0 {
		return model.HourlyProfile{}, ErrNoSamples
	}
	return Normalize(counts)
}

// foldByHour sums matrix samples by the hour of day they cover. A sample at
// time t holds the increase over (t-1h, t], so it is attributed to t-1h.
func foldByHour(value prommodel.Value, loc *time.Location) ([model.HoursPerDay]float64, int) {
	var counts [model.HoursPerDay]float64
	matrix, ok := value.(prommodel.Matrix)
	if !ok {
		return counts, 0
	}

	samples := 0
	for _, stream := range matrix {
		for _, pair := range stream.Values {
			v := float64(pair.Value)
			if math.IsNaN(v) || v < 0 { // counter reset artefact
				continue
			}
			hour := pair.Timestamp.Time().Add(-time.Hour).In(loc).Hour()
			counts[hour] += v
			samples++
		}
	}
	return counts, samples
}

func queryHourlyIncrease(counter string) string {
	return fmt.Sprintf(`sum(increase(%s[1h]))`, counter)
}
