package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nrro-site/application"
	"nrro-site/domain"
	"nrro-site/infrastructure"
)

const testToken = "test-admin-token"

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return nil
}

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, u string) (domain.PageSnapshot, error) {
	return domain.PageSnapshot{URL: u, StatusCode: 200}, nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	mail   *recordingDispatcher
	deps   Dependencies
}

func setupTestRouter(t *testing.T, opts ...func(*Dependencies)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := infrastructure.NewDatabase("sqlite", "file::memory:", log)
	require.NoError(t, err)
	require.NoError(t, infrastructure.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := infrastructure.DefaultSiteConfig()
	sites, err := domain.NewSiteDirectory(cfg.Sites)
	require.NoError(t, err)

	mail := &recordingDispatcher{}
	posts := infrastructure.NewBlogRepository(db)
	landings := infrastructure.NewLandingRepository(db)

	deps := Dependencies{
		Sites: sites,
		Leads: &application.LeadService{
			Leads:       infrastructure.NewLeadRepository(db),
			Notify:      mail,
			StaffEmails: []string{"staff@nrro.es"},
			Log:         log,
		},
		Careers: &application.CareersService{
			Candidates:     infrastructure.NewCandidateRepository(db),
			Files:          infrastructure.LocalStorage{Dir: t.TempDir()},
			Notify:         mail,
			StaffEmails:    []string{"rrhh@nrro.es"},
			MaxResumeBytes: 1 << 20,
			Log:            log,
		},
		Landings:  &application.LandingService{Landings: landings, Log: log},
		Blog:      &application.BlogService{Posts: posts},
		Proposals: &application.ProposalService{Proposals: infrastructure.NewProposalRepository(db)},
		Audits: &application.AuditService{
			Fetcher: stubFetcher{},
			Audits:  infrastructure.NewAuditRepository(db),
			Log:     log,
		},
		Content: &application.ContentService{Posts: posts, Log: log},
		Sitemap: &application.SitemapService{
			Site:     sites.Primary(),
			Routes:   cfg.StaticRoutes,
			Paths:    cfg.ContentPaths,
			Posts:    posts,
			Landings: landings,
		},
		FormLimiter:    infrastructure.NewKeyedLimiter(100, 100),
		AdminTokens:    []string{testToken},
		CORSOrigins:    []string{"https://nrro.es"},
		MaxUploadBytes: 1 << 20,
		Log:            log,
	}
	for _, o := range opts {
		o(&deps)
	}
	return &testEnv{router: NewRouter(deps), db: db, mail: mail, deps: deps}
}

func (e *testEnv) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) admin(method, path string, body any) *httptest.ResponseRecorder {
	return e.do(method, path, body, "Authorization", "Bearer "+testToken, "X-Editor", "editor@nrro.es")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
