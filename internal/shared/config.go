package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	HotelFeedBase string
	HotelFeedKey  string
	HotelFeedIDs  []int64
	Workers       int

	WeatherBase      string
	GeocodingBase    string
	RecommendWorkers int

	ImageUploadURL string
	ImagePreset    string

	GenAIKey        string
	GeminiModel     string
	GeminiVersion   string
	GeminiBaseURL   string
	GeminiEmbedding string
	// AssistantTools lets the model request weather and hotel lookups itself.
	AssistantTools  bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set take precedence.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/wanderbot?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		HotelFeedBase: env("HOTELFEED_BASE_URL", "https://content-api.cupid.travel/v3.0"),
		HotelFeedKey:  env("HOTELFEED_API_KEY", ""),
		HotelFeedIDs:  parseIDs(os.Getenv("HOTELFEED_IDS")),
		Workers:       atoi("INGEST_WORKERS", 8),

		WeatherBase:      env("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		GeocodingBase:    env("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com"),
		RecommendWorkers: atoi("RECOMMEND_WORKERS", 4),

		ImageUploadURL: env("IMAGEHOST_UPLOAD_URL", ""),
		ImagePreset:    env("IMAGEHOST_PRESET", ""),

		GenAIKey:        env("GENAI_API_KEY", ""),
		GeminiModel:     env("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiVersion:   env("GEMINI_API_VERSION", "v1beta"),
		GeminiBaseURL:   env("GEMINI_BASE_URL", ""),
		GeminiEmbedding: env("GEMINI_EMBED_MODEL", "gemini-embedding-001"),
		AssistantTools:  env("ASSISTANT_MODEL_TOOLS", "") == "true",
	}
	if c.GenAIKey == "" {
		log.Warn().Msg("GENAI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// parseIDs reads a comma separated id list, skipping junk entries.
func parseIDs(s string) []int64 {
	var out []int64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if n, err := strconv.ParseInt(f, 10, 64); err == nil && n > 0 {
			out = append(out, n)
		} else {
			log.Warn().Str("value", f).Msg("skipping bad HOTELFEED_IDS entry")
		}
	}
	return out
}
