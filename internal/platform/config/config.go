package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Optional backends (postgres,
// redis, kafka, smtp) stay disabled when their variables are empty so the
// service can run fully in-memory for development.
type Server struct {
	Addr          string
	JWTSigningKey string

	PostgresDSN  string
	RedisURL     string
	KafkaBrokers []string
	AuditTopic   string

	SMTPAddr  string
	MailFrom  string
	AdminMail string
}

// ReportCacheTTL bounds staleness of cached scoring reports.
var ReportCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ORDR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	auditTopic := os.Getenv("ORDR_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "ordr.audit"
	}

	adminMail := os.Getenv("ORDR_ADMIN_MAIL")
	if adminMail == "" {
		adminMail = "admin@localhost"
	}

	var brokers []string
	if v := os.Getenv("ORDR_KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		PostgresDSN:   os.Getenv("ORDR_POSTGRES_DSN"),
		RedisURL:      os.Getenv("ORDR_REDIS_URL"),
		KafkaBrokers:  brokers,
		AuditTopic:    auditTopic,
		SMTPAddr:      os.Getenv("ORDR_SMTP_ADDR"),
		MailFrom:      os.Getenv("ORDR_MAIL_FROM"),
		AdminMail:     adminMail,
	}
}
