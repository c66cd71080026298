// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics holds the Prometheus instruments exported on /metrics.

All instruments are created against an injected [prometheus.Registerer] so that
tests can use an isolated registry. Recording helpers are safe to call on a nil
*Metrics, which lets services run without instrumentation in unit tests.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sakan"

// Metrics holds all Prometheus metrics for the Sakan API.
type Metrics struct {
	// HTTP layer
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication
	OTPIssued       *prometheus.CounterVec
	OTPVerified     *prometheus.CounterVec
	SessionsCreated *prometheus.CounterVec

	// Storage and uploads
	PresignedURLs  *prometheus.CounterVec
	UploadedFiles  *prometheus.CounterVec
	UploadCleanups *prometheus.CounterVec

	// Ads
	AdsCreated prometheus.Counter

	registry *prometheus.Registry
}

// New creates a Metrics instance with all instruments registered on a fresh
// registry that also carries the Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := NewWithRegisterer(registry)
	m.registry = registry
	return m
}

// NewWithRegisterer creates a Metrics instance registered on the given registerer.
func NewWithRegisterer(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route pattern, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		OTPIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "otp_issued_total",
				Help:      "Total number of one-time passwords issued",
			},
			[]string{"type"},
		),
		OTPVerified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "otp_verifications_total",
				Help:      "Total number of OTP verification attempts by outcome",
			},
			[]string{"type", "outcome"},
		),
		SessionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_created_total",
				Help:      "Total number of sessions created by session type",
			},
			[]string{"type"},
		),

		PresignedURLs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_presigned_urls_total",
				Help:      "Total number of presigned upload URLs issued",
			},
			[]string{"storage_type", "upload_type"},
		),
		UploadedFiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upload_files_total",
				Help:      "Total number of multipart files processed by outcome",
			},
			[]string{"outcome"},
		),
		UploadCleanups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upload_cleanups_total",
				Help:      "Total number of staged upload files removed",
			},
			[]string{"reason"},
		),

		AdsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ads_created_total",
				Help:      "Total number of ads created",
			},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// # Recording helpers

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordOTPIssued counts an issued OTP of the given type.
func (m *Metrics) RecordOTPIssued(otpType string) {
	if m == nil {
		return
	}
	m.OTPIssued.WithLabelValues(otpType).Inc()
}

// RecordOTPVerification counts a verification attempt ("success", "not_found", "mismatch").
func (m *Metrics) RecordOTPVerification(otpType, outcome string) {
	if m == nil {
		return
	}
	m.OTPVerified.WithLabelValues(otpType, outcome).Inc()
}

// RecordSessionCreated counts a new session of the given type.
func (m *Metrics) RecordSessionCreated(sessionType string) {
	if m == nil {
		return
	}
	m.SessionsCreated.WithLabelValues(sessionType).Inc()
}

// RecordPresignedURL counts an issued presigned URL.
func (m *Metrics) RecordPresignedURL(storageType, uploadType string) {
	if m == nil {
		return
	}
	m.PresignedURLs.WithLabelValues(storageType, uploadType).Inc()
}

// RecordUploadedFile counts a multipart file by outcome ("accepted", "filtered", "rejected").
func (m *Metrics) RecordUploadedFile(outcome string) {
	if m == nil {
		return
	}
	m.UploadedFiles.WithLabelValues(outcome).Inc()
}

// RecordUploadCleanup counts removed staged files ("failure" or "completed").
func (m *Metrics) RecordUploadCleanup(reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.UploadCleanups.WithLabelValues(reason).Add(float64(count))
}

// RecordAdCreated counts a committed ad.
func (m *Metrics) RecordAdCreated() {
	if m == nil {
		return
	}
	m.AdsCreated.Inc()
}
