package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"nrro-site/domain"
)

type Config struct {
	Env       string
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	DBDriver string
	DBDSN    string

	RabbitMQURL       string
	NotificationQueue string

	AIBaseURL    string
	AIAPIKey     string
	AIModel      string
	AIImageModel string
	AITimeout    time.Duration

	ResendAPIKey  string
	ResendBaseURL string
	MailFrom      string
	StaffEmails   []string

	AdminTokens []string
	CORSOrigins []string

	UploadsDir     string
	MaxUploadBytes int64

	PublicRateLimit float64
	PublicRateBurst int

	SiteConfigPath string
	Site           SiteConfig
}

// SiteConfig is the YAML document describing hostnames, static routes and the
// path prefixes used to build public URLs.
type SiteConfig struct {
	Sites        []domain.Site        `yaml:"sites"`
	StaticRoutes []domain.StaticRoute `yaml:"static_routes"`
	ContentPaths domain.ContentPaths  `yaml:"content_paths"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		HTTPAddr:  ":" + getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		DBDriver: getEnv("DB_DRIVER", "mysql"),
		DBDSN:    os.Getenv("DB_DSN"),

		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		NotificationQueue: getEnv("NOTIFICATION_QUEUE", "notification_queue"),

		AIBaseURL:    os.Getenv("AI_BASE_URL"),
		AIAPIKey:     os.Getenv("AI_API_KEY"),
		AIModel:      getEnv("AI_MODEL", "gpt-4o-mini"),
		AIImageModel: getEnv("AI_IMAGE_MODEL", "dall-e-3"),

		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		ResendBaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),
		MailFrom:      getEnv("MAIL_FROM", "NRRO <no-reply@nrro.es>"),
		StaffEmails:   splitList(os.Getenv("STAFF_EMAILS")),

		AdminTokens: splitList(os.Getenv("ADMIN_TOKENS")),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		UploadsDir: getEnv("UPLOADS_DIR", "./uploads"),

		SiteConfigPath: os.Getenv("SITE_CONFIG"),
	}

	var errs []error
	var err error
	if cfg.AITimeout, err = time.ParseDuration(getEnv("AI_TIMEOUT", "60s")); err != nil {
		errs = append(errs, fmt.Errorf("AI_TIMEOUT: %w", err))
	}
	maxMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))
	if err != nil {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB: %w", err))
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20
	if cfg.PublicRateLimit, err = strconv.ParseFloat(getEnv("PUBLIC_RATE_LIMIT", "0.5"), 64); err != nil {
		errs = append(errs, fmt.Errorf("PUBLIC_RATE_LIMIT: %w", err))
	}
	if cfg.PublicRateBurst, err = strconv.Atoi(getEnv("PUBLIC_RATE_BURST", "5")); err != nil {
		errs = append(errs, fmt.Errorf("PUBLIC_RATE_BURST: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg.Site = DefaultSiteConfig()
	if cfg.SiteConfigPath != "" {
		site, err := LoadSiteConfig(cfg.SiteConfigPath)
		if err != nil {
			return nil, err
		}
		cfg.Site = site
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) AIEnabled() bool { return c.AIAPIKey != "" }

func (c *Config) MailEnabled() bool { return c.ResendAPIKey != "" }

// Validate reports every problem at once so a bad deploy shows all of them.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q must be mysql, postgres or sqlite", c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is not set"))
	}
	if c.IsProduction() && len(c.AdminTokens) == 0 {
		errs = append(errs, errors.New("ADMIN_TOKENS is required in production"))
	}
	if c.PublicRateLimit <= 0 || c.PublicRateBurst <= 0 {
		errs = append(errs, errors.New("PUBLIC_RATE_LIMIT and PUBLIC_RATE_BURST must be > 0"))
	}
	if err := c.Site.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func LoadSiteConfig(path string) (SiteConfig, error) {
	var sc SiteConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("read site config: %w", err)
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("parse site config %s: %w", path, err)
	}
	return sc, nil
}

func (sc SiteConfig) Validate() error {
	var errs []error
	if _, err := domain.NewSiteDirectory(sc.Sites); err != nil {
		errs = append(errs, fmt.Errorf("sites: %w", err))
	}
	for i, r := range sc.StaticRoutes {
		for _, l := range domain.Locales {
			if _, ok := r.Paths[l]; !ok {
				errs = append(errs, fmt.Errorf("static_routes[%d]: missing %s path", i, l))
			}
		}
	}
	for name, prefixes := range map[string]map[domain.Locale]string{
		"blog": sc.ContentPaths.Blog, "news": sc.ContentPaths.News, "landing": sc.ContentPaths.Landing,
	} {
		if len(prefixes) == 0 {
			errs = append(errs, fmt.Errorf("content_paths.%s is empty", name))
		}
	}
	return errors.Join(errs...)
}

// DefaultSiteConfig mirrors the production site map; SITE_CONFIG replaces it wholesale.
func DefaultSiteConfig() SiteConfig {
	route := func(es, ca, en string, freq string, prio float64) domain.StaticRoute {
		return domain.StaticRoute{
			Paths:      map[domain.Locale]string{domain.LocaleES: es, domain.LocaleCA: ca, domain.LocaleEN: en},
			ChangeFreq: freq,
			Priority:   prio,
		}
	}
	return SiteConfig{
		Sites: []domain.Site{
			{Key: "nrro", Host: "nrro.es", Aliases: []string{"www.nrro.es"}, BaseURL: "https://nrro.es", DefaultLocale: domain.LocaleES, Primary: true},
			{Key: "ntl", Host: "navarrotaxlegal.com", Aliases: []string{"www.navarrotaxlegal.com"}, BaseURL: "https://navarrotaxlegal.com", DefaultLocale: domain.LocaleEN},
		},
		StaticRoutes: []domain.StaticRoute{
			route("/", "/ca", "/en", "weekly", 1.0),
			route("/servicios", "/ca/serveis", "/en/services", "monthly", 0.9),
			route("/constitucion-empresa", "/ca/constitucio-empresa", "/en/company-setup", "monthly", 0.9),
			route("/ley-beckham", "/ca/llei-beckham", "/en/beckham-law", "monthly", 0.9),
			route("/equipo", "/ca/equip", "/en/team", "monthly", 0.7),
			route("/casos-de-exito", "/ca/casos-exit", "/en/case-studies", "monthly", 0.7),
			route("/carreras", "/ca/carreres", "/en/careers", "weekly", 0.6),
			route("/blog", "/ca/blog", "/en/blog", "daily", 0.8),
			route("/noticias", "/ca/noticies", "/en/news", "daily", 0.7),
			route("/contacto", "/ca/contacte", "/en/contact", "yearly", 0.6),
		},
		ContentPaths: domain.ContentPaths{
			Blog:    map[domain.Locale]string{domain.LocaleES: "/blog", domain.LocaleCA: "/ca/blog", domain.LocaleEN: "/en/blog"},
			News:    map[domain.Locale]string{domain.LocaleES: "/noticias", domain.LocaleCA: "/ca/noticies", domain.LocaleEN: "/en/news"},
			Landing: map[domain.Locale]string{domain.LocaleES: "/lp", domain.LocaleCA: "/ca/lp", domain.LocaleEN: "/en/lp"},
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
