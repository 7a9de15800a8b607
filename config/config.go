package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	MongoURI          string
	MongoDB           string
	RedisAddr         string
	RedisPassword     string
	JWTSecret         string
	TokenTTL          time.Duration
	OTPTTL            time.Duration
	OTPHashKey        string
	ReceiptSigningKey string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
	AllowOrigins      []string
	SlotCapacity      int
	RateLimitPerMin   int
	LogLevel          string
	LogDev            bool
}

// Load reads configuration from the environment, loading .env first when present.
// It panics if a required value is missing.
func Load() Config {
	_ = godotenv.Load()

	port := getenv("PORT", "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	jwtSecret := must("JWT_SECRET")

	return Config{
		Port:              port,
		MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getenv("MONGO_DB", "wastewise"),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		JWTSecret:         jwtSecret,
		TokenTTL:          getDuration("TOKEN_TTL", 24*time.Hour),
		OTPTTL:            getDuration("OTP_TTL", 10*time.Minute),
		OTPHashKey:        getenv("OTP_HASH_KEY", ""),
		ReceiptSigningKey: getenv("RECEIPT_SIGNING_KEY", jwtSecret),
		SMTPHost:          getenv("SMTP_HOST", ""),
		SMTPPort:          getInt("SMTP_PORT", 587),
		SMTPUsername:      getenv("SMTP_USERNAME", ""),
		SMTPPassword:      getenv("SMTP_PASSWORD", ""),
		SMTPFrom:          getenv("SMTP_FROM", ""),
		AllowOrigins:      splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		SlotCapacity:      getInt("SLOT_CAPACITY", 5),
		RateLimitPerMin:   getInt("RATE_LIMIT_PER_MINUTE", 30),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogDev:            os.Getenv("LOG_DEV") == "1",
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func getDuration(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
