package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	apperrors "listapresentes/productworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Fetch configuration
	FetchTimeout      time.Duration
	ImageFetchTimeout time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr   string
	ResultCacheTTL time.Duration

	// Refresh worker configuration
	RefreshInterval      time.Duration
	RefreshURLsFile      string
	RefreshConcurrency   int
	RefreshRatePerSecond float64
	RefreshRateBurst     int
	SweepTimeout         time.Duration
	EmbedImages          bool

	// Escalation (GitHub issues) configuration
	GitHubToken            string
	GitHubRepoOwner        string
	GitHubRepoName         string
	GitHubAPIBaseURL       string
	GitHubAutoCreateIssues bool
	EscalationDedupeTTL    time.Duration
	EscalationQueueSize    int
	EscalationWorkers      int

	AppVersion  string
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	imageFetchTimeout, _ := strconv.Atoi(getEnv("IMAGE_FETCH_TIMEOUT_SECONDS", "15"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	resultCacheTTL, _ := strconv.Atoi(getEnv("RESULT_CACHE_TTL_SECONDS", "3600"))
	refreshInterval, _ := strconv.Atoi(getEnv("REFRESH_INTERVAL_SECONDS", "3600"))
	refreshConcurrency, _ := strconv.Atoi(getEnv("REFRESH_CONCURRENCY", "4"))
	refreshRate, _ := strconv.ParseFloat(getEnv("REFRESH_RATE_PER_SECOND", "2"), 64)
	refreshBurst, _ := strconv.Atoi(getEnv("REFRESH_RATE_BURST", "1"))
	sweepTimeout, _ := strconv.Atoi(getEnv("SWEEP_TIMEOUT_SECONDS", "600"))
	embedImages, _ := strconv.ParseBool(getEnv("EMBED_IMAGES", "false"))
	autoCreateIssues, _ := strconv.ParseBool(getEnv("GITHUB_AUTO_CREATE_ISSUES", "true"))
	dedupeTTL, _ := strconv.Atoi(getEnv("ESCALATION_DEDUPE_TTL_SECONDS", "86400"))
	queueSize, _ := strconv.Atoi(getEnv("ESCALATION_QUEUE_SIZE", "64"))
	escalationWorkers, _ := strconv.Atoi(getEnv("ESCALATION_WORKERS", "2"))

	return &Config{
		FetchTimeout:           time.Duration(fetchTimeout) * time.Second,
		ImageFetchTimeout:      time.Duration(imageFetchTimeout) * time.Second,
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                redisDB,
		RedisStream:            getEnv("REDIS_STREAM", "products"),
		RedisStreamCount:       redisStreamCount,
		RedisStreamMaxLength:   redisStreamMaxLength,
		MemcacheAddr:           getEnv("MEMCACHE_ADDR", "localhost:11211"),
		ResultCacheTTL:         time.Duration(resultCacheTTL) * time.Second,
		RefreshInterval:        time.Duration(refreshInterval) * time.Second,
		RefreshURLsFile:        getEnv("REFRESH_URLS_FILE", "urls.txt"),
		RefreshConcurrency:     refreshConcurrency,
		RefreshRatePerSecond:   refreshRate,
		RefreshRateBurst:       refreshBurst,
		SweepTimeout:           time.Duration(sweepTimeout) * time.Second,
		EmbedImages:            embedImages,
		GitHubToken:            getEnv("GITHUB_TOKEN", ""),
		GitHubRepoOwner:        getEnv("GITHUB_REPO_OWNER", ""),
		GitHubRepoName:         getEnv("GITHUB_REPO_NAME", ""),
		GitHubAPIBaseURL:       getEnv("GITHUB_API_BASE_URL", "https://api.github.com"),
		GitHubAutoCreateIssues: autoCreateIssues,
		EscalationDedupeTTL:    time.Duration(dedupeTTL) * time.Second,
		EscalationQueueSize:    queueSize,
		EscalationWorkers:      escalationWorkers,
		AppVersion:             getEnv("APP_VERSION", "unknown"),
		Environment:            getEnv("PRODUCTWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the loaded values are usable
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return apperrors.NewConfiguration("FETCH_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.ImageFetchTimeout <= 0 {
		return apperrors.NewConfiguration("IMAGE_FETCH_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.RedisStreamCount < 1 {
		return apperrors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	}
	if c.RefreshConcurrency < 1 {
		return apperrors.NewConfiguration("REFRESH_CONCURRENCY must be at least 1", nil)
	}
	if c.RefreshInterval <= 0 {
		return apperrors.NewConfiguration("REFRESH_INTERVAL_SECONDS must be positive", nil)
	}
	if c.EscalationQueueSize < 1 || c.EscalationWorkers < 1 {
		return apperrors.NewConfiguration("escalation queue size and workers must be at least 1", nil)
	}
	if c.EscalationEnabled() && (c.GitHubRepoOwner == "" || c.GitHubRepoName == "") {
		return apperrors.NewConfiguration(
			fmt.Sprintf("GITHUB_REPO_OWNER and GITHUB_REPO_NAME are required when GITHUB_TOKEN is set (owner=%q, repo=%q)",
				c.GitHubRepoOwner, c.GitHubRepoName), nil)
	}
	return nil
}

// EscalationEnabled reports whether tickets should actually be filed
func (c *Config) EscalationEnabled() bool {
	return c.GitHubAutoCreateIssues && c.GitHubToken != ""
}

// IsProduction reports whether the worker runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
