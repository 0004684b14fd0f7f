package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vibhu2208/oberoi-realiy/libs/mailer"
)

const (
	devCORSOriginLocalhost   = "http://localhost:5500"
	devCORSOriginLoopback    = "http://127.0.0.1:5500"
	trustedProxyLoopbackIPv4 = "127.0.0.1"
	trustedProxyLoopbackIPv6 = "::1"
	defaultSMTPPort          = 587
)

type Config struct {
	Addr           string
	Env            string
	PublicBaseURL  string
	WebRoot        string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SMTPEncryption string
	ResendAPIKey   string
	FromAddress    string
	FromName       string
	RecipientEmail string
	RecipientName  string
}

// fromHeader renders the configured sender identity as a From header value.
func (c *Config) fromHeader() string {
	if c.FromName != "" {
		return fmt.Sprintf("%s <%s>", c.FromName, c.FromAddress)
	}
	return c.FromAddress
}

// recipientHeader renders the fixed inquiry recipient as a To header value.
func (c *Config) recipientHeader() string {
	if c.RecipientName != "" {
		return fmt.Sprintf("%s <%s>", c.RecipientName, c.RecipientEmail)
	}
	return c.RecipientEmail
}

type App struct {
	cfg    *Config
	log    *slog.Logger
	mailer *mailer.Mailer
}

func main() {
	if err := loadDotEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{cfg: cfg, log: logger}

	switch {
	case cfg.SMTPHost != "":
		provider, err := mailer.NewSMTPProvider(mailer.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			Encryption: cfg.SMTPEncryption,
		})
		if err != nil {
			panic(err)
		}
		app.mailer = mailer.New(provider, cfg.fromHeader())
		logger.Info("mailer initialized", "provider", "smtp", "host", cfg.SMTPHost, "encryption", cfg.SMTPEncryption)
	case cfg.ResendAPIKey != "":
		app.mailer = mailer.New(mailer.NewResendProvider(cfg.ResendAPIKey), cfg.fromHeader())
		logger.Info("mailer initialized", "provider", "resend")
	case !strings.EqualFold(cfg.Env, "production"):
		app.mailer = mailer.New(mailer.NewLogProvider(logger), cfg.fromHeader())
		logger.Info("mailer initialized", "provider", "log")
	default:
		// The static site stays up; the inquiry endpoint fails closed.
		logger.Warn("no mail provider configured; inquiry endpoint will return 500")
	}

	logger.Info(
		"runtime configuration",
		"env", cfg.Env,
		"addr", cfg.Addr,
		"web_root", cfg.WebRoot,
		"inquiry_recipient", cfg.RecipientEmail,
	)

	r := app.newRouter()

	app.log.Info("starting gin API", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		panic(err)
	}
}

func (a *App) newRouter() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies([]string{trustedProxyLoopbackIPv4, trustedProxyLoopbackIPv6}); err != nil {
		panic(err)
	}
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "server_error",
			"message": fmt.Sprintf("Server error: %v", recovered),
		})
	}))
	r.Use(a.loggingMiddleware())
	r.Use(a.corsMiddleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"success": false,
			"error":   "method_not_allowed",
			"message": "Method Not Allowed",
		})
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/inquiries", a.createInquiryHandler)
	}

	// The deployed front end posts to the path of the handler it replaced.
	r.POST("/mailer.php", a.createInquiryHandler)

	if a.cfg.WebRoot != "" {
		r.NoRoute(a.staticSiteHandler)
	}

	return r
}

func loadConfig() (*Config, error) {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if env == "" {
		env = "development"
	}

	publicBase := strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")

	cfg := &Config{
		Addr:           valueOrDefault("GIN_ADDR", ":8080"),
		Env:            env,
		PublicBaseURL:  publicBase,
		WebRoot:        strings.TrimSpace(os.Getenv("WEB_ROOT")),
		SMTPHost:       strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:       defaultSMTPPort,
		SMTPUsername:   strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		SMTPEncryption: valueOrDefault("SMTP_ENCRYPTION", mailer.EncryptionSTARTTLS),
		ResendAPIKey:   strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		FromAddress:    valueOrDefault("MAILER_FROM_ADDRESS", "no-reply@oberoirealty.example"),
		FromName:       valueOrDefault("MAILER_FROM_NAME", "Oberoi Realty Website"),
		RecipientEmail: strings.TrimSpace(os.Getenv("INQUIRY_RECIPIENT_EMAIL")),
		RecipientName:  valueOrDefault("INQUIRY_RECIPIENT_NAME", "Sales"),
	}

	if rawPort := strings.TrimSpace(os.Getenv("SMTP_PORT")); rawPort != "" {
		parsed, err := strconv.Atoi(rawPort)
		if err != nil || parsed <= 0 || parsed > 65535 {
			return nil, fmt.Errorf("SMTP_PORT must be a valid port number")
		}
		cfg.SMTPPort = parsed
	}

	switch cfg.SMTPEncryption {
	case mailer.EncryptionSTARTTLS, mailer.EncryptionSSL:
	default:
		return nil, fmt.Errorf("SMTP_ENCRYPTION must be %q or %q", mailer.EncryptionSTARTTLS, mailer.EncryptionSSL)
	}

	if cfg.SMTPHost != "" && (cfg.SMTPUsername == "" || cfg.SMTPPassword == "") {
		return nil, fmt.Errorf("SMTP_USERNAME and SMTP_PASSWORD must be set when SMTP_HOST is configured")
	}

	return cfg, nil
}

func loadDotEnvFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.Trim(strings.TrimSpace(line[idx+1:]), "\"")
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func (a *App) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		)
	}
}

func (a *App) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if a.isAllowedCORSOrigin(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *App) isAllowedCORSOrigin(origin string) bool {
	if origin == "" || a.cfg == nil {
		return false
	}
	if a.cfg.PublicBaseURL != "" && origin == a.cfg.PublicBaseURL {
		return true
	}
	if !strings.EqualFold(a.cfg.Env, "development") {
		return false
	}
	return origin == devCORSOriginLocalhost || origin == devCORSOriginLoopback
}
