// Package config builds per-binary configuration from environment variables
// so each main stays lean. Defaults target local development; production
// deployments override everything via the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Token holds the shared-secret token configuration. The same secret is used
// by the gateway (verification) and the identity service (issuance), which is
// what makes the edge-issued claim verifiable at each internal hop.
type Token struct {
	Secret string
	TTL    time.Duration
}

// Gateway captures edge gateway configuration.
type Gateway struct {
	Addr            string
	AuthServiceURL  string
	EmployeeSvcURL  string
	RedisURL        string
	RatePerMinute   int
	PublicPrefixes  []string
	Token           Token
	ShutdownTimeout time.Duration
}

// Auth captures identity service configuration.
type Auth struct {
	Addr               string
	DatabaseURL        string
	Token              Token
	SeedSuperAdmin     bool
	SuperAdminEmail    string
	SuperAdminPassword string
	ShutdownTimeout    time.Duration
}

// Employee captures employee service configuration.
type Employee struct {
	Addr            string
	DatabaseURL     string
	AuthServiceURL  string
	AuthTimeout     time.Duration
	KafkaBrokers    []string
	Token           Token
	ShutdownTimeout time.Duration
}

// Notifier captures notification consumer configuration.
type Notifier struct {
	Addr          string
	KafkaBrokers  []string
	KafkaGroup    string
	SendGridKey   string
	EmailFrom     string
	EmailFromName string
}

func tokenFromEnv() Token {
	secret := envStr("JWT_SECRET", "dev-secret-change-in-production")
	return Token{
		Secret: secret,
		TTL:    envDur("JWT_TTL", 24*time.Hour),
	}
}

// GatewayFromEnv builds the gateway config.
func GatewayFromEnv() Gateway {
	return Gateway{
		Addr:           envStr("GATEWAY_ADDR", ":8080"),
		AuthServiceURL: envStr("AUTH_SERVICE_URL", "http://localhost:8081"),
		EmployeeSvcURL: envStr("EMPLOYEE_SERVICE_URL", "http://localhost:8082"),
		RedisURL:       envStr("REDIS_URL", ""),
		RatePerMinute:  envInt("RATE_LIMIT_PER_MINUTE", 120),
		PublicPrefixes: []string{
			"/api/auth/register",
			"/api/auth/login",
			"/healthz",
		},
		Token:           tokenFromEnv(),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// AuthFromEnv builds the identity service config.
func AuthFromEnv() Auth {
	return Auth{
		Addr:               envStr("AUTH_ADDR", ":8081"),
		DatabaseURL:        envStr("DATABASE_URL", ""),
		Token:              tokenFromEnv(),
		SeedSuperAdmin:     envBool("SEED_SUPERADMIN", false),
		SuperAdminEmail:    envStr("SUPERADMIN_EMAIL", ""),
		SuperAdminPassword: envStr("SUPERADMIN_PASSWORD", ""),
		ShutdownTimeout:    envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// EmployeeFromEnv builds the employee service config.
func EmployeeFromEnv() Employee {
	return Employee{
		Addr:            envStr("EMPLOYEE_ADDR", ":8082"),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		AuthServiceURL:  envStr("AUTH_SERVICE_URL", "http://localhost:8081"),
		AuthTimeout:     envDur("AUTH_TIMEOUT", 5*time.Second),
		KafkaBrokers:    envList("KAFKA_BROKERS", "localhost:9092"),
		Token:           tokenFromEnv(),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// NotifierFromEnv builds the notification consumer config.
func NotifierFromEnv() Notifier {
	return Notifier{
		Addr:          envStr("NOTIFIER_ADDR", ":8083"),
		KafkaBrokers:  envList("KAFKA_BROKERS", "localhost:9092"),
		KafkaGroup:    envStr("KAFKA_GROUP", "notification-group"),
		SendGridKey:   envStr("SENDGRID_API_KEY", ""),
		EmailFrom:     envStr("EMAIL_FROM", "no-reply@darum.local"),
		EmailFromName: envStr("EMAIL_FROM_NAME", "Darum HR"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key, fallback string) []string {
	raw := envStr(key, fallback)
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
