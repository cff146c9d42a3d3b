package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "MYQURAN_"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per HTTP request, covers upstream retries

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Bookmark storage
	Store      string // "sqlite" | "redis" | "memory"
	SQLitePath string // ex: "./data/myquran.db", ":memory:" for an ephemeral db

	// Redis (only read when Store == "redis")
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// Upstream content APIs
	QuranBaseURL   string        // api.quran.com v4 root
	EquranBaseURL  string        // equran.id v2 root
	AudioBaseURL   string        // host of relative recitation paths
	UserAgent      string        // sent on every upstream request
	TranslationID  int           // translation resource (33 = Indonesian, Kemenag)
	ReciterID      int           // recitation resource (7 = Mishari Rashid al-Afasy)
	SearchSize     int           // max search results
	HTTPTimeout    time.Duration // per upstream request
	HTTPRetries    int           // attempts per upstream request
	HTTPMaxBody    int64         // max upstream body in bytes
	CacheTTL       time.Duration // upstream response cache, 0 = disabled
	UpstreamRate   float64       // requests per second per upstream host, 0 = unlimited
	UpstreamBurst  int
	CatalogRefresh time.Duration // chapter catalogue reload interval

	// API surface
	APIRate      float64       // requests per second per client IP, 0 = unlimited
	APIBurst     int           // burst per client IP
	SessionTTL   time.Duration // idle player sessions are collected after this
	GCInterval   time.Duration // interval of the player session collector
	CORSOrigins  []string      // allowed origins, "*" = any
	AllowedHosts []string      // optional, restrict /infra and /reload to these Host headers
	AllowedCIDRS []string      // optional, restrict /infra to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool          // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

var (
	dotenvOnce sync.Once

	// fileValues holds the YAML overlay; environment variables take precedence.
	fileValues   map[string]string
	fileValuesMu sync.RWMutex
)

// Load reads the configuration from the environment and the optional YAML
// file named by MYQURAN_CONFIG_FILE.
func Load() *Config {
	loadDotenv()
	return LoadFile(os.Getenv(envPrefix + "CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML file, "" for none.
func LoadFile(path string) *Config {
	loadDotenv()
	overlay, err := readOverlay(path)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}
	setOverlay(overlay)

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MYQURAN_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MYQURAN_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("MYQURAN_REQUEST_TIMEOUT", 20*time.Second),

		// Logging
		LogLevel:  getenv("MYQURAN_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MYQURAN_PRETTY_LOG", true),

		// Storage
		Store:      strings.ToLower(getenv("MYQURAN_STORE", "sqlite")),
		SQLitePath: getenv("MYQURAN_SQLITE_PATH", "./data/myquran.db"),

		// Upstream
		QuranBaseURL:   getenv("MYQURAN_QURAN_API", "https://api.quran.com/api/v4"),
		EquranBaseURL:  getenv("MYQURAN_EQURAN_API", "https://equran.id/api/v2"),
		AudioBaseURL:   getenv("MYQURAN_AUDIO_BASE", "https://verses.quran.com/"),
		UserAgent:      getenv("MYQURAN_USER_AGENT", "myquran/1.0"),
		TranslationID:  getenvInt("MYQURAN_TRANSLATION_ID", 33),
		ReciterID:      getenvInt("MYQURAN_RECITER_ID", 7),
		SearchSize:     getenvInt("MYQURAN_SEARCH_SIZE", 10),
		HTTPTimeout:    mustDuration("MYQURAN_HTTP_TIMEOUT", 15*time.Second),
		HTTPRetries:    getenvInt("MYQURAN_HTTP_RETRIES", 3),
		HTTPMaxBody:    int64(getenvInt("MYQURAN_HTTP_MAX_BODY", 8<<20)),
		CacheTTL:       mustDuration("MYQURAN_CACHE_TTL", time.Hour),
		UpstreamRate:   getenvFloat("MYQURAN_UPSTREAM_RATE", 10),
		UpstreamBurst:  getenvInt("MYQURAN_UPSTREAM_BURST", 5),
		CatalogRefresh: mustDuration("MYQURAN_CATALOG_REFRESH", 24*time.Hour),

		// API
		APIRate:      getenvFloat("MYQURAN_API_RATE", 20),
		APIBurst:     getenvInt("MYQURAN_API_BURST", 40),
		SessionTTL:   mustDuration("MYQURAN_SESSION_TTL", 30*time.Minute),
		GCInterval:   mustDuration("MYQURAN_GC_INTERVAL", 5*time.Minute),
		CORSOrigins:  splitAndTrim(getenv("MYQURAN_CORS_ORIGINS", "*")),
		AllowedHosts: splitAndTrim(getenv("MYQURAN_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("MYQURAN_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MYQURAN_TRUST_PROXY", false),
	}

	switch cfg.Store {
	case "sqlite", "memory":
	case "redis":
		cfg.RedisAddr = requireEnv("MYQURAN_REDIS_ADDR")
		cfg.RedisUser = getenv("MYQURAN_REDIS_USERNAME", "")
		cfg.RedisPassword = getenv("MYQURAN_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("MYQURAN_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("MYQURAN_REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("MYQURAN_REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("MYQURAN_REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("MYQURAN_REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("MYQURAN_REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("MYQURAN_REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("MYQURAN_REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("MYQURAN_REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("MYQURAN_REDIS_WARN_THRESHOLD", 3)
	default:
		panic(fmt.Sprintf("❌ FATAL: MYQURAN_STORE must be sqlite, redis or memory, got %q", cfg.Store))
	}

	if cfg.TranslationID <= 0 || cfg.ReciterID <= 0 {
		panic("❌ FATAL: MYQURAN_TRANSLATION_ID and MYQURAN_RECITER_ID must be positive")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadDotenv fills unset variables from MYQURAN_ENV_FILE, ".env" by default.
// A missing file is not an error.
func loadDotenv() {
	dotenvOnce.Do(func() {
		path := os.Getenv(envPrefix + "ENV_FILE")
		if path == "" {
			path = ".env"
		}
		if err := loadEnvFile(path); err != nil {
			log.Printf("[WARN] ignoring env file %s: %v\n", path, err)
		}
	})
}

// loadEnvFile sets the variables of a dotenv file that the environment does
// not already define.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// readOverlay parses a flat YAML file of settings. Keys are the environment
// names without prefix, in any case: "store: redis" sets MYQURAN_STORE.
func readOverlay(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file yaml: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		key := envPrefix + strings.TrimPrefix(strings.ToUpper(k), envPrefix)
		switch val := v.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			values[key] = strings.Join(parts, ",")
		default:
			values[key] = fmt.Sprint(val)
		}
	}
	return values, nil
}

func setOverlay(values map[string]string) {
	fileValuesMu.Lock()
	defer fileValuesMu.Unlock()
	fileValues = values
}

// lookup reads key from the environment, then from the YAML overlay.
func lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	fileValuesMu.RLock()
	defer fileValuesMu.RUnlock()
	return fileValues[key]
}

// helpers
func getenv(key, def string) string {
	if v := lookup(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := lookup(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := lookup(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := lookup(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := lookup(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := lookup(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
