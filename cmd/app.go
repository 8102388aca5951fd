package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"nrro-site/application"
	"nrro-site/domain"
	"nrro-site/infrastructure"
	"nrro-site/interfaces"
)

// app holds what every command needs: config, logger and the database.
type app struct {
	cfg *infrastructure.Config
	log *logrus.Logger
	db  *gorm.DB
}

func newApp() (*app, error) {
	cfg, err := infrastructure.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	log := infrastructure.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := infrastructure.NewDatabase(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// mailDispatcher sends through Resend, or only logs when no API key is set.
func (a *app) mailDispatcher() *infrastructure.MailDispatcher {
	var sender infrastructure.EmailSender = infrastructure.LogSender{Log: a.log}
	if a.cfg.MailEnabled() {
		sender = infrastructure.NewResendClient(a.cfg.ResendBaseURL, a.cfg.ResendAPIKey, 15*time.Second)
	} else {
		a.log.Warn("RESEND_API_KEY unset: emails are logged, not sent")
	}
	return &infrastructure.MailDispatcher{Sender: sender, From: a.cfg.MailFrom, Log: a.log}
}

func (a *app) sitemapService(sites *domain.SiteDirectory) *application.SitemapService {
	return &application.SitemapService{
		Site:     sites.Primary(),
		Routes:   a.cfg.Site.StaticRoutes,
		Paths:    a.cfg.Site.ContentPaths,
		Posts:    infrastructure.NewBlogRepository(a.db),
		Landings: infrastructure.NewLandingRepository(a.db),
	}
}

// dependencies wires every service for the HTTP server. notify is either the
// queue or the direct mailer.
func (a *app) dependencies(notify application.Dispatcher) (interfaces.Dependencies, error) {
	sites, err := domain.NewSiteDirectory(a.cfg.Site.Sites)
	if err != nil {
		return interfaces.Dependencies{}, err
	}

	posts := infrastructure.NewBlogRepository(a.db)
	content := &application.ContentService{Posts: posts, Log: a.log}
	if a.cfg.AIEnabled() {
		content.AI = infrastructure.NewAIClient(infrastructure.AIConfig{
			BaseURL:    a.cfg.AIBaseURL,
			APIKey:     a.cfg.AIAPIKey,
			Model:      a.cfg.AIModel,
			ImageModel: a.cfg.AIImageModel,
			Timeout:    a.cfg.AITimeout,
		}, a.log)
	} else {
		a.log.Warn("AI_API_KEY unset: content generation endpoints return 503")
	}

	sqlDB, err := a.db.DB()
	if err != nil {
		return interfaces.Dependencies{}, err
	}

	return interfaces.Dependencies{
		Sites: sites,
		Leads: &application.LeadService{
			Leads:       infrastructure.NewLeadRepository(a.db),
			Notify:      notify,
			StaffEmails: a.cfg.StaffEmails,
			Log:         a.log,
		},
		Careers: &application.CareersService{
			Candidates:     infrastructure.NewCandidateRepository(a.db),
			Files:          infrastructure.LocalStorage{Dir: a.cfg.UploadsDir},
			Notify:         notify,
			StaffEmails:    a.cfg.StaffEmails,
			MaxResumeBytes: a.cfg.MaxUploadBytes,
			Log:            a.log,
		},
		Landings:  &application.LandingService{Landings: infrastructure.NewLandingRepository(a.db), Log: a.log},
		Blog:      &application.BlogService{Posts: posts},
		Proposals: &application.ProposalService{Proposals: infrastructure.NewProposalRepository(a.db)},
		Audits: &application.AuditService{
			Fetcher:     infrastructure.NewPageFetcher(20*time.Second, 1, 2),
			Audits:      infrastructure.NewAuditRepository(a.db),
			Concurrency: 4,
			Log:         a.log,
		},
		Content:        content,
		Sitemap:        a.sitemapService(sites),
		FormLimiter:    infrastructure.NewKeyedLimiter(a.cfg.PublicRateLimit, a.cfg.PublicRateBurst),
		AdminTokens:    a.cfg.AdminTokens,
		CORSOrigins:    a.cfg.CORSOrigins,
		MaxUploadBytes: a.cfg.MaxUploadBytes,
		Ping:           func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		Log:            a.log,
	}, nil
}
