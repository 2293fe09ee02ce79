package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// App holds the scalar settings of the API process. Connections are set up
// by the Init* functions of this package.
type App struct {
	Port string

	SupabaseURL     string
	SupabaseAnonKey string

	GCSBucket string

	CORSAllowedOrigins []string
	AuthRatePerMinute  int
	ApplyRatePerMinute int

	JobCacheTTL  time.Duration
	RoleCacheTTL time.Duration

	GCPProjectID string
	GCPLocation  string
	GeminiModel  string

	NotifyWorkers int
}

func LoadApp() App {
	return App{
		Port:               getenv("PORT", "8080"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AuthRatePerMinute:  getint("AUTH_RATE_PER_MINUTE", 10),
		ApplyRatePerMinute: getint("APPLY_RATE_PER_MINUTE", 20),
		JobCacheTTL:        getduration("JOB_CACHE_TTL", 10*time.Minute),
		RoleCacheTTL:       getduration("ROLE_CACHE_TTL", 5*time.Minute),
		GCPProjectID:       os.Getenv("GCP_PROJECT_ID"),
		GCPLocation:        getenv("GCP_LOCATION", "us-central1"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		NotifyWorkers:      getint("NOTIFY_WORKERS", 2),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
