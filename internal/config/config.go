package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Authentication modes for the Vault document platform.
const (
	VaultAuthSession  = "session"
	VaultAuthPassword = "password"
)

// Mail transports.
const (
	TransportSMTP     = "smtp"
	TransportSendGrid = "sendgrid"
)

// VaultConfig holds Veeva Vault connection settings.
type VaultConfig struct {
	Domain         string
	APIVersion     string
	SessionID      string
	Username       string
	Password       string
	HTTPTimeoutSec int
}

// AuthMode reports which credential source the fetcher should use.
// A pre-provisioned session ID always wins over username/password.
func (v VaultConfig) AuthMode() string {
	if v.SessionID != "" {
		return VaultAuthSession
	}
	return VaultAuthPassword
}

// HTTPTimeout returns the outbound client timeout. Zero means no timeout.
func (v VaultConfig) HTTPTimeout() time.Duration {
	if v.HTTPTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(v.HTTPTimeoutSec) * time.Second
}

// SMTPConfig holds settings for direct SMTP delivery (Gmail, SendGrid relay, ...).
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SendGridConfig holds settings for the SendGrid v3 Mail Send API.
type SendGridConfig struct {
	APIKey string
	Host   string
}

// MailConfig groups outbound mail settings.
type MailConfig struct {
	Transport string
	From      string
	FromName  string
	Subject   string
	DefaultTo string
	SMTP      SMTPConfig
	SendGrid  SendGridConfig
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup and treated as read-only afterwards.
type AppConfig struct {
	Port             string
	Timezone         string
	BodyLimitMB      int
	CORSAllowOrigins string
	Vault            VaultConfig
	Mail             MailConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() *AppConfig {
	sendGridKey := getEnv("SENDGRID_API_KEY", "")
	defaultTransport := TransportSMTP
	if sendGridKey != "" {
		defaultTransport = TransportSendGrid
	}

	mailUser := getEnv("MAIL_USER", "")

	return &AppConfig{
		Port:             getEnv("PORT", "3000"),
		Timezone:         getEnv("APP_TIMEZONE", "UTC"),
		BodyLimitMB:      getEnvInt("BODY_LIMIT_MB", 50),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		Vault: VaultConfig{
			Domain:         getEnv("VAULT_DOMAIN", ""),
			APIVersion:     getEnv("VAULT_API_VERSION", "v23.1"),
			SessionID:      getEnv("VAULT_SESSION_ID", ""),
			Username:       getEnv("VAULT_USER", ""),
			Password:       getEnv("VAULT_PASS", ""),
			HTTPTimeoutSec: getEnvInt("VAULT_HTTP_TIMEOUT_SEC", 120),
		},
		Mail: MailConfig{
			Transport: strings.ToLower(getEnv("MAIL_TRANSPORT", defaultTransport)),
			From:      getEnv("MAIL_FROM", mailUser),
			FromName:  getEnv("MAIL_FROM_NAME", "Veeva Vault Print Relay"),
			Subject:   getEnv("MAIL_SUBJECT", "[Print Request] Please print the attached Vault documents"),
			DefaultTo: getEnv("TO_EMAIL", ""),
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
				Port:     getEnv("SMTP_PORT", "587"),
				Username: mailUser,
				Password: getEnv("MAIL_PASS", ""),
			},
			SendGrid: SendGridConfig{
				APIKey: sendGridKey,
				Host:   getEnv("SENDGRID_HOST", "https://api.sendgrid.com"),
			},
		},
	}
}

// Validate reports every missing setting required to serve print requests.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Vault.Domain == "" {
		errs = append(errs, errors.New("VAULT_DOMAIN is required"))
	}
	if c.Vault.AuthMode() == VaultAuthPassword && (c.Vault.Username == "" || c.Vault.Password == "") {
		errs = append(errs, errors.New("VAULT_SESSION_ID or VAULT_USER/VAULT_PASS is required"))
	}
	if c.Mail.From == "" {
		errs = append(errs, errors.New("MAIL_FROM or MAIL_USER is required"))
	}
	switch c.Mail.Transport {
	case TransportSMTP:
		if c.Mail.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required"))
		}
	case TransportSendGrid:
		if c.Mail.SendGrid.APIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required"))
		}
	default:
		errs = append(errs, errors.New("MAIL_TRANSPORT must be smtp or sendgrid"))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to UTC when it cannot be loaded.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
