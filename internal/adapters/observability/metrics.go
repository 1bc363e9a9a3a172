package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "wanderbot"

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func latency(name, help string, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: name, Help: help, Buckets: prometheus.DefBuckets,
	}, labels)
}

var (
	HTTPRequests = counter("http_requests_total", "Inbound API requests.", "route", "method", "status")
	HTTPLatency  = latency("http_request_duration_seconds", "Inbound API latency.", "route", "method")

	// service is hotelfeed, open-meteo, imagehost or gemini.
	ExternalRequests = counter("external_requests_total", "Calls to third-party services.", "service", "endpoint", "status")
	ExternalLatency  = latency("external_request_duration_seconds", "Third-party call latency.", "service", "endpoint")

	CacheEvents = counter("cache_events_total", "Cache lookups and writes.", "cache", "event")
	LLMTokens   = counter("llm_tokens_total", "Tokens billed by the travel model.", "model", "kind")

	AssistantTurns = counter("assistant_turns_total", "Assistant replies by tool and outcome.", "tool", "outcome")
	IngestResults  = counter("ingest_results_total", "Hotel feed imports by outcome.", "outcome")
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency,
		ExternalRequests, ExternalLatency,
		CacheEvents, LLMTokens,
		AssistantTurns, IngestResults,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Serve exposes reg on its own listener in the background. Empty addr is a no-op.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics listener up")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal takes status 0 for transport failures.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

// ObserveCache counts hit, miss, set and del events.
func ObserveCache(cache, event string) { CacheEvents.WithLabelValues(cache, event).Inc() }

func ObserveTokens(model string, prompt, completion int32) {
	for kind, n := range map[string]int32{"prompt": prompt, "completion": completion} {
		if n > 0 {
			LLMTokens.WithLabelValues(model, kind).Add(float64(n))
		}
	}
}

// ObserveAssistant records one assistant reply. An empty tool counts as "none".
func ObserveAssistant(tool string, fallback bool) {
	if tool == "" {
		tool = "none"
	}
	outcome := "model"
	if fallback {
		outcome = "fallback"
	}
	AssistantTurns.WithLabelValues(tool, outcome).Inc()
}

// ObserveIngest counts one hotel import as ok or failed.
func ObserveIngest(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	IngestResults.WithLabelValues(outcome).Inc()
}

// LabelErr turns an error into a low-cardinality log field.
func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
