package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr     string
	LogLevel string
	// Signing secret for pairing tokens. Required; the process refuses to
	// start without it.
	Secret   string
	TokenTTL time.Duration
	// Host advertised in pairing URLs. Empty means discover the LAN address.
	AdvertiseHost string

	ExecutorURL     string
	ExecutorTimeout time.Duration

	StreamFPS     int
	StreamQuality int
	// Target bounding box for stream frames; zero keeps native resolution.
	StreamWidth  int
	StreamHeight int

	CORSAllowOrigin string
	PairRatePerMin  int
}

func FromEnv() Config {
	cfg := Config{
		Addr:            getEnv("ADDR", ":3333"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Secret:          os.Getenv("GATEWAY_SECRET"),
		AdvertiseHost:   getEnv("ADVERTISE_HOST", ""),
		ExecutorURL:     getEnv("EXECUTOR_URL", "http://localhost:8080"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
	}
	cfg.TokenTTL = time.Duration(getEnvInt("TOKEN_TTL_SECONDS", 1800)) * time.Second
	cfg.ExecutorTimeout = time.Duration(getEnvInt("EXECUTOR_TIMEOUT_SECONDS", 300)) * time.Second
	cfg.StreamFPS = getEnvInt("STREAM_FPS", 8)
	cfg.StreamQuality = getEnvInt("STREAM_QUALITY", 75)
	cfg.StreamWidth = getEnvInt("STREAM_WIDTH", 800)
	cfg.StreamHeight = getEnvInt("STREAM_HEIGHT", 450)
	cfg.PairRatePerMin = getEnvInt("PAIR_RATE_PER_MIN", 30)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
