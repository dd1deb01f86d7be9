package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	HTTPAddr            string
	GRPCAddr            string
	DatabaseURL         string
	DBMaxConns          int32
	JWTSecret           string
	JWTIssuer           string
	TokenTTL            time.Duration
	Environment         string
	RedisAddr           string
	RedisPassword       string
	LoginRateLimit      int
	CORSOrigins         []string
	GradesBulkAtomic    bool
	ServiceAuthToken    string
	HealthProbeInterval time.Duration
}

// Load reads the process environment. A .env file in the working directory
// is applied first without overriding variables that are already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:            httpAddr(),
		GRPCAddr:            getenv("GRPC_ADDR", ":9090"),
		DatabaseURL:         databaseURL(),
		DBMaxConns:          int32(getenvInt("DB_MAX_CONNS", 10)),
		JWTSecret:           getenvSecret("JWT_SECRET", "secret_key"),
		JWTIssuer:           getenv("JWT_ISSUER", "saweb-api"),
		TokenTTL:            getenvDuration("JWT_EXPIRY", 24*time.Hour),
		Environment:         strings.ToLower(getenv("APP_ENV", getenv("NODE_ENV", EnvProduction))),
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		LoginRateLimit:      getenvInt("LOGIN_RATE_LIMIT", 20),
		CORSOrigins:         getenvList("CORS_ORIGINS", []string{"*"}),
		GradesBulkAtomic:    getenvBool("GRADES_BULK_ATOMIC", false),
		ServiceAuthToken:    getenv("SERVICE_AUTH_TOKEN", ""),
		HealthProbeInterval: getenvDuration("HEALTH_PROBE_INTERVAL", 30*time.Second),
	}
}

func (c Config) Development() bool {
	return c.Environment == EnvDevelopment
}

func httpAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	return ":" + getenv("PORT", "3000")
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// DB_* parts. A CA file switches the connection to verify-full.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getenv("DB_USER", "postgres"), getenv("DB_PASSWORD", "")),
		Host:   getenv("DB_HOST", "127.0.0.1") + ":" + getenv("DB_PORT", "5432"),
		Path:   "/" + getenv("DB_NAME", "sa_web"),
	}
	q := url.Values{}
	if ca := caPath(); ca != "" {
		q.Set("sslmode", "verify-full")
		q.Set("sslrootcert", ca)
	} else {
		q.Set("sslmode", getenv("DB_SSLMODE", "disable"))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func caPath() string {
	if path := os.Getenv("DB_SSL_CA"); path != "" {
		return path
	}
	if _, err := os.Stat("./ca.pem"); err == nil {
		return "./ca.pem"
	}
	return ""
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvSecret(key, fallback string) string {
	if file := os.Getenv(key + "_FILE"); file != "" {
		if data, err := os.ReadFile(file); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return getenv(key, fallback)
}
