package interfaces

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nrro-site/domain"
	"nrro-site/infrastructure"
)

func TestAdminRequiresToken(t *testing.T) {
	env := setupTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/leads", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/leads", nil, "Authorization", "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK, env.admin(http.MethodGet, "/api/admin/leads", nil).Code)

	closed := setupTestRouter(t, func(d *Dependencies) { d.AdminTokens = nil })
	assert.Equal(t, http.StatusServiceUnavailable, closed.do(http.MethodGet, "/api/admin/leads", nil, "Authorization", "Bearer "+testToken).Code)
}

func TestAdminLeadStatus(t *testing.T) {
	env := setupTestRouter(t)
	w := env.do(http.MethodPost, "/api/contact", map[string]any{"name": "A", "email": "a@example.com", "message": "x", "consent": true})
	require.Equal(t, http.StatusCreated, w.Code)

	var lead domain.Lead
	require.NoError(t, env.db.First(&lead).Error)
	path := fmt.Sprintf("/api/admin/leads/%d", lead.ID)

	w = env.admin(http.MethodPatch, path, map[string]any{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be one of: new, contacted")

	w = env.admin(http.MethodPatch, path, map[string]any{"status": "contacted", "notes": "left voicemail"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.Lead](t, w)
	assert.Equal(t, domain.LeadStatusContacted, got.Status)
	assert.Equal(t, "left voicemail", got.Notes)

	w = env.admin(http.MethodGet, "/api/admin/leads?status=contacted", nil)
	assert.Len(t, decode[[]domain.Lead](t, w), 1)

	assert.Equal(t, http.StatusNotFound, env.admin(http.MethodGet, "/api/admin/leads/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.admin(http.MethodGet, "/api/admin/leads/abc", nil).Code)
}

func TestAdminCandidateEstado(t *testing.T) {
	env := setupTestRouter(t)
	repo := infrastructure.NewCandidateRepository(env.db)
	cand := &domain.Candidate{Name: "Marc", Email: "marc@example.com", Position: "Paralegal", Estado: domain.CandidateNuevo}
	require.NoError(t, repo.Create(t.Context(), cand))
	path := fmt.Sprintf("/api/admin/candidates/%d", cand.ID)

	w := env.admin(http.MethodPatch, path, map[string]any{"estado": "aprobado"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Contains(t, resp.Fields["estado"], "en_revision")

	w = env.admin(http.MethodPatch, path, map[string]any{"estado": "entrevista"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.CandidateEntrevista, decode[domain.Candidate](t, w).Estado)

	assert.Equal(t, http.StatusNoContent, env.admin(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.admin(http.MethodDelete, path, nil).Code)
}

func TestAdminLandingVersioning(t *testing.T) {
	env := setupTestRouter(t)

	w := env.admin(http.MethodPost, "/api/admin/landings", map[string]any{
		"slug":     "Ley Beckham",
		"title":    map[string]string{"es": "Ley Beckham"},
		"sections": []map[string]string{{"type": "hero"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	page := decode[domain.LandingPage](t, w)
	assert.Equal(t, "ley-beckham", page.Slug)
	path := fmt.Sprintf("/api/admin/landings/%d", page.ID)

	w = env.admin(http.MethodPut, path, map[string]any{
		"version": 1,
		"title":   map[string]string{"es": "Ley Beckham 2025"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Page     domain.LandingPage     `json:"page"`
		Snapshot *domain.LandingVersion `json:"snapshot"`
	}](t, w)
	assert.Equal(t, 2, res.Page.Version)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, "Changed: title.es", res.Snapshot.ChangeSummary)
	assert.Equal(t, "editor@nrro.es", res.Snapshot.CreatedBy)

	// A second editor still holding version 1.
	w = env.admin(http.MethodPut, path, map[string]any{"version": 1, "variant": "beckham"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.admin(http.MethodPut, path, map[string]any{"sections": map[string]string{"type": "hero"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.admin(http.MethodGet, path+"/versions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.LandingVersion](t, w), 1)

	w = env.admin(http.MethodPost, path+"/versions/1/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[struct {
		Page     domain.LandingPage     `json:"page"`
		Snapshot *domain.LandingVersion `json:"snapshot"`
	}](t, w)
	assert.Equal(t, "Ley Beckham", res.Page.Title.ES)
	assert.Equal(t, 3, res.Page.Version)

	assert.Equal(t, http.StatusBadRequest, env.admin(http.MethodPost, path+"/versions/zero/restore", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.admin(http.MethodPost, path+"/versions/7/restore", nil).Code)

	w = env.admin(http.MethodPost, "/api/admin/landings", map[string]any{"slug": "ley-beckham"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminPostsLifecycle(t *testing.T) {
	env := setupTestRouter(t)

	w := env.admin(http.MethodPost, "/api/admin/posts", map[string]any{
		"kind":  "news",
		"title": map[string]string{"es": "Nuevo plazo IRPF", "ca": "Nou termini IRPF"},
		"tags":  []string{"irpf"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[domain.BlogPost](t, w)
	assert.Equal(t, "nou-termini-irpf", post.Slug.CA)
	path := fmt.Sprintf("/api/admin/posts/%d", post.ID)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/blog/nou-termini-irpf?locale=ca&kind=news", nil).Code)

	w = env.admin(http.MethodPost, path+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[domain.BlogPost](t, w).PublishedAt)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/blog/nou-termini-irpf?locale=ca&kind=news", nil).Code)

	w = env.admin(http.MethodPost, path+"/unpublish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusDraft, decode[domain.BlogPost](t, w).Status)

	w = env.admin(http.MethodPost, "/api/admin/posts", map[string]any{"kind": "podcast"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, env.admin(http.MethodDelete, path, nil).Code)
}

func TestAdminProposals(t *testing.T) {
	env := setupTestRouter(t)

	w := env.admin(http.MethodPost, "/api/admin/proposals", map[string]any{
		"client_name": "Acme SL",
		"service":     "Constitución de sociedad",
		"fee_cents":   120000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[domain.Proposal](t, w)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, domain.ProposalDraft, p.Status)

	w = env.admin(http.MethodPut, fmt.Sprintf("/api/admin/proposals/%d", p.ID), map[string]any{
		"client_name": "Acme SL",
		"service":     "Constitución de sociedad",
		"fee_cents":   120000,
		"status":      "sent",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.admin(http.MethodGet, "/api/admin/proposals?status=sent", nil)
	assert.Len(t, decode[[]domain.Proposal](t, w), 1)

	w = env.admin(http.MethodPost, "/api/admin/proposals", map[string]any{"client_name": "B", "service": "x", "fee_cents": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAudits(t *testing.T) {
	env := setupTestRouter(t)

	w := env.admin(http.MethodPost, "/api/admin/audits", map[string]any{"urls": []string{"https://nrro.es/", "https://nrro.es/blog"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[map[string]any](t, w)
	assert.Equal(t, float64(2), resp["audited"])
	assert.Equal(t, float64(0), resp["failed"])

	w = env.admin(http.MethodGet, "/api/admin/audits?url=blog", nil)
	assert.Len(t, decode[[]domain.AuditResult](t, w), 1)

	w = env.admin(http.MethodPost, "/api/admin/audits", map[string]any{"urls": []string{"not a url"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.admin(http.MethodPost, "/api/admin/audits", map[string]any{"urls": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminContentWithoutAI(t *testing.T) {
	env := setupTestRouter(t)

	w := env.admin(http.MethodPost, "/api/admin/content/blog-draft", map[string]any{"topic": "IVA trimestral"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.admin(http.MethodPost, "/api/admin/content/image", map[string]any{"prompt": "x", "size": "10x10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminSitemapPreview(t *testing.T) {
	env := setupTestRouter(t)

	w := env.admin(http.MethodGet, "/api/admin/sitemap", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, float64(30), resp["count"])
	assert.Contains(t, resp["xml"], "<urlset")
}
