// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the collectors for store calls.
type StoreMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewStoreMetrics creates the collectors and registers them with reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "filegate",
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Duration of object store calls in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"store", "operation", "status"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "filegate",
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of object store calls",
			},
			[]string{"store", "operation", "status"},
		),
	}
	reg.MustRegister(m.duration, m.total)
	return m
}

func (m *StoreMetrics) record(store StoreType, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.duration.WithLabelValues(string(store), operation, status).Observe(time.Since(start).Seconds())
	m.total.WithLabelValues(string(store), operation, status).Inc()
}

// MetricsStore wraps a Store and adds metrics instrumentation
type MetricsStore struct {
	store   Store
	metrics *StoreMetrics
}

// NewMetricsStore creates a new metrics-instrumented Store wrapper
func NewMetricsStore(store Store, metrics *StoreMetrics) *MetricsStore {
	return &MetricsStore{store: store, metrics: metrics}
}

// Unwrap returns the underlying Store implementation
func (m *MetricsStore) Unwrap() Store {
	return m.store
}

func (m *MetricsStore) Type() StoreType {
	return m.store.Type()
}

func (m *MetricsStore) Bucket() string {
	return m.store.Bucket()
}

func (m *MetricsStore) List(ctx context.Context) (*Listing, error) {
	start := time.Now()
	l, err := m.store.List(ctx)
	m.metrics.record(m.store.Type(), "list", start, err)
	return l, err
}

func (m *MetricsStore) Probe(ctx context.Context) error {
	start := time.Now()
	err := m.store.Probe(ctx)
	m.metrics.record(m.store.Type(), "probe", start, err)
	return err
}

func (m *MetricsStore) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	start := time.Now()
	err := m.store.Put(ctx, key, body, size)
	m.metrics.record(m.store.Type(), "put", start, err)
	return err
}

// Get records the time to open the object, not to stream it.
func (m *MetricsStore) Get(ctx context.Context, key string) (*Object, error) {
	start := time.Now()
	obj, err := m.store.Get(ctx, key)
	m.metrics.record(m.store.Type(), "get", start, err)
	return obj, err
}

func (m *MetricsStore) Close() error {
	return m.store.Close()
}
