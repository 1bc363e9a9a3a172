package observability_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wanderbot/internal/adapters/observability"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestRegistryExposesWanderbotSeries(t *testing.T) {
	reg := observability.InitRegistry()

	observability.ObserveHTTP("/v1/hotels/{id}", http.MethodGet, 200, 12*time.Millisecond)
	observability.ObserveExternal("open-meteo", "/v1/forecast", 0, time.Millisecond)
	observability.ObserveTokens("gemini-test", 10, 4)
	observability.ObserveAssistant("", true)
	observability.ObserveIngest(nil)

	out := scrape(t, observability.MetricsHandler(reg))
	for _, name := range []string{
		"wanderbot_http_requests_total",
		"wanderbot_external_requests_total",
		"wanderbot_llm_tokens_total",
		"wanderbot_assistant_turns_total",
		"wanderbot_ingest_results_total",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestAssistantAndIngestLabels(t *testing.T) {
	reg := observability.InitRegistry()
	observability.ObserveAssistant("", true)
	observability.ObserveAssistant("get_weather", false)
	observability.ObserveIngest(errors.New("feed down"))
	observability.ObserveTokens("zero-model", 5, 0)

	out := scrape(t, observability.MetricsHandler(reg))
	for _, series := range []string{
		`wanderbot_assistant_turns_total{outcome="fallback",tool="none"}`,
		`wanderbot_assistant_turns_total{outcome="model",tool="get_weather"}`,
		`wanderbot_ingest_results_total{outcome="failed"}`,
		`wanderbot_llm_tokens_total{kind="prompt",model="zero-model"} 5`,
	} {
		if !strings.Contains(out, series) {
			t.Fatalf("expected %s in output", series)
		}
	}
	if strings.Contains(out, `kind="completion",model="zero-model"`) {
		t.Fatalf("zero completion tokens should not create a series")
	}
}

func TestLabelErr(t *testing.T) {
	if observability.LabelErr(nil) != "none" {
		t.Fatalf("nil error label")
	}
	if got := observability.LabelErr(errors.New("x")); got != "*errors.errorString" {
		t.Fatalf("unexpected label %s", got)
	}
}
