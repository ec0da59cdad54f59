package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBUrl string
	// JWT verification (tokens are issued by the auth service, we only verify)
	JWTSecret   string
	FrontendURL string
	// Gemini Configuration
	GeminiAPIKey string
	GeminiModel  string
	// Crawler Configuration
	CrawlSeeds          []string
	CrawlTimeoutSeconds int
	CrawlDelayMillis    int
	CrawlCronSpec       string // empty disables the scheduler
	EnrichBatchSize     int
	// Redis Configuration (rate limiting)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
}

// defaultSeeds are the listing pages the crawler knows how to handle.
// Adding a source means adding both a seed URL here and its adapter.
var defaultSeeds = []string{
	"https://cse.knu.ac.kr/bbs/board.php?bo_table=sub5_1&lang=kor",
	"https://www.knu.ac.kr/wbbs/wbbs/bbs/btin/stdList.action?menu_idx=42",
	"https://home.knu.ac.kr/HOME/aic/sub.htm?nav_code=aic1635293208",
	"https://see.knu.ac.kr/content/board/notice.html",
}

func LoadConfig() (*Config, error) {
	// Load .env file (effective locally, ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		// Gemini Configuration
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		// Crawler Configuration
		CrawlSeeds:          getEnvList("CRAWL_SEED_URLS", defaultSeeds),
		CrawlTimeoutSeconds: getEnvInt("CRAWL_TIMEOUT_SECONDS", 30),
		CrawlDelayMillis:    getEnvInt("CRAWL_DELAY_MILLIS", 1000),
		CrawlCronSpec:       getEnv("CRAWL_CRON_SPEC", ""),
		EnrichBatchSize:     getEnvInt("ENRICH_BATCH_SIZE", 10),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not configured. Enrichment and scoring will be unavailable.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList returns a comma-separated environment variable or fallback if not set
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
