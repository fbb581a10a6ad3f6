package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSRegion      string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiryDays     int

	// Initial admin account, created on startup if missing.
	AdminUsername string
	AdminPassword string

	// WhatsApp gateway (WPPConnect-style REST bridge).
	WAGatewayURL     string
	WAGatewaySession string
	WAGatewayToken   string
	WASendRate       float64 // messages per second through the gateway
	WebhookSecret    string  // shared secret for the inbound response webhook

	// Reminder engine.
	PollInterval        time.Duration
	TickTimeout         time.Duration
	DispatchConcurrency int
	Timezone            string // IANA name used to resolve session wall-clock times

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Players             string
	Games               string
	Sessions            string
	NotificationConfigs string
	SentReminders       string
	Confirmations       string
	Users               string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Players:             getEnv("DYNAMO_TABLE_PLAYERS", "players"),
			Games:               getEnv("DYNAMO_TABLE_GAMES", "games"),
			Sessions:            getEnv("DYNAMO_TABLE_SESSIONS", "game_sessions"),
			NotificationConfigs: getEnv("DYNAMO_TABLE_NOTIFICATION_CONFIGS", "notification_configs"),
			SentReminders:       getEnv("DYNAMO_TABLE_SENT_REMINDERS", "sent_reminders"),
			Confirmations:       getEnv("DYNAMO_TABLE_CONFIRMATIONS", "confirmations"),
			Users:               getEnv("DYNAMO_TABLE_USERS", "users"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "pelada-reports"),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiryDays:     getEnvInt("JWT_EXPIRY_DAYS", 7),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		WAGatewayURL:     getEnv("WA_GATEWAY_URL", "http://localhost:21465"),
		WAGatewaySession: getEnv("WA_GATEWAY_SESSION", "default"),
		WAGatewayToken:   getEnv("WA_GATEWAY_TOKEN", ""),
		WASendRate:       getEnvFloat("WA_SEND_RATE", 1), // single authenticated session: keep it slow
		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),

		PollInterval:        getEnvDuration("POLL_INTERVAL", 10*time.Second),
		TickTimeout:         getEnvDuration("TICK_TIMEOUT", 30*time.Second),
		DispatchConcurrency: getEnvInt("DISPATCH_CONCURRENCY", 4),
		Timezone:            getEnv("TIMEZONE", "America/Sao_Paulo"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
