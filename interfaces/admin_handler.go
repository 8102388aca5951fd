package interfaces

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"nrro-site/domain"
)

// Leads

func (h *HTTPHandler) ListLeads(c *gin.Context) {
	leads, err := h.Leads.List(c.Request.Context(), domain.LeadFilter{
		Kind:     domain.LeadKind(c.Query("kind")),
		Priority: domain.Priority(c.Query("priority")),
		Status:   domain.LeadStatus(c.Query("status")),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h *HTTPHandler) GetLead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	lead, err := h.Leads.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type leadStatusRequest struct {
	Status string  `json:"status" binding:"required,lead_status"`
	Notes  *string `json:"notes" binding:"omitempty,max=10000"`
}

func (h *HTTPHandler) UpdateLead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req leadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	lead, err := h.Leads.UpdateStatus(c.Request.Context(), id, domain.LeadStatus(req.Status), req.Notes)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Candidates

func (h *HTTPHandler) ListCandidates(c *gin.Context) {
	list, err := h.Careers.List(c.Request.Context(), domain.CandidateFilter{
		Estado:   domain.CandidateStatus(c.Query("estado")),
		Position: c.Query("position"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *HTTPHandler) GetCandidate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cand, err := h.Careers.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}

type candidateStatusRequest struct {
	Estado string  `json:"estado" binding:"required,candidate_status"`
	Notes  *string `json:"notes" binding:"omitempty,max=10000"`
}

func (h *HTTPHandler) UpdateCandidate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req candidateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	cand, err := h.Careers.UpdateEstado(c.Request.Context(), id, domain.CandidateStatus(req.Estado), req.Notes)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}

func (h *HTTPHandler) DeleteCandidate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Careers.Delete(c.Request.Context(), id); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Landing pages

func (h *HTTPHandler) ListLandings(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !domain.IsValidPublishStatus(status) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "status must be one of: draft, published"})
		return
	}
	pages, err := h.Landings.List(c.Request.Context(), domain.PublishStatus(status))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

type landingRequest struct {
	Slug            string               `json:"slug" binding:"max=191"`
	Variant         string               `json:"variant" binding:"max=64"`
	Title           domain.LocalizedText `json:"title"`
	MetaTitle       domain.LocalizedText `json:"meta_title"`
	MetaDescription domain.LocalizedText `json:"meta_description"`
	Sections        json.RawMessage      `json:"sections"`
	Status          string               `json:"status" binding:"omitempty,oneof=draft published"`
	InternalNotes   string               `json:"internal_notes"`
}

func (h *HTTPHandler) CreateLanding(c *gin.Context) {
	var req landingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	page := &domain.LandingPage{
		Slug:            req.Slug,
		Variant:         req.Variant,
		Title:           req.Title,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Sections:        datatypes.JSON(req.Sections),
		Status:          domain.PublishStatus(req.Status),
		InternalNotes:   req.InternalNotes,
	}
	if err := h.Landings.Create(c.Request.Context(), page); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

func (h *HTTPHandler) GetLanding(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, err := h.Landings.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// landingUpdateRequest carries the version the editor loaded; a stale one is 409.
type landingUpdateRequest struct {
	domain.LandingUpdate
	Version int `json:"version" binding:"gte=0"`
}

func (h *HTTPHandler) UpdateLanding(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req landingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	res, err := h.Landings.Update(c.Request.Context(), id, req.LandingUpdate, req.Version, editorFrom(c))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": res.Page, "snapshot": res.Snapshot})
}

func (h *HTTPHandler) DeleteLanding(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Landings.Delete(c.Request.Context(), id); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ListLandingVersions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	versions, err := h.Landings.Versions(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (h *HTTPHandler) RestoreLandingVersion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid version"})
		return
	}
	res, err := h.Landings.Restore(c.Request.Context(), id, version, editorFrom(c))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": res.Page, "snapshot": res.Snapshot})
}

// Blog posts

type postRequest struct {
	Kind            string               `json:"kind" binding:"omitempty,oneof=blog news"`
	Slug            domain.LocalizedSlug `json:"slug"`
	Title           domain.LocalizedText `json:"title"`
	Excerpt         domain.LocalizedText `json:"excerpt"`
	Content         domain.LocalizedText `json:"content"`
	MetaDescription domain.LocalizedText `json:"meta_description"`
	Tags            []string             `json:"tags" binding:"max=20"`
	CoverImageURL   string               `json:"cover_image_url" binding:"omitempty,url,max=2048"`
	Author          string               `json:"author" binding:"max=255"`
	Status          string               `json:"status" binding:"omitempty,oneof=draft published"`
}

func (r postRequest) post() domain.BlogPost {
	return domain.BlogPost{
		Kind:            domain.PostKind(r.Kind),
		Slug:            r.Slug,
		Title:           r.Title,
		Excerpt:         r.Excerpt,
		Content:         r.Content,
		MetaDescription: r.MetaDescription,
		Tags:            r.Tags,
		CoverImageURL:   r.CoverImageURL,
		Author:          r.Author,
		Status:          domain.PublishStatus(r.Status),
	}
}

func (h *HTTPHandler) ListPosts(c *gin.Context) {
	posts, err := h.Blog.List(c.Request.Context(), domain.PostFilter{
		Kind:   domain.PostKind(c.Query("kind")),
		Status: domain.PublishStatus(c.Query("status")),
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *HTTPHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	post := req.post()
	if err := h.Blog.Create(c.Request.Context(), &post); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *HTTPHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	post, err := h.Blog.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *HTTPHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	post, err := h.Blog.Update(c.Request.Context(), id, req.post())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *HTTPHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Blog.Delete(c.Request.Context(), id); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) PublishPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	post, err := h.Blog.Publish(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *HTTPHandler) UnpublishPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	post, err := h.Blog.Unpublish(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Proposals

type proposalRequest struct {
	ClientName  string     `json:"client_name" binding:"required,max=255"`
	ClientEmail string     `json:"client_email" binding:"omitempty,email,max=255"`
	Company     string     `json:"company" binding:"max=255"`
	Service     string     `json:"service" binding:"required,max=255"`
	FeeCents    int64      `json:"fee_cents" binding:"gte=0"`
	Currency    string     `json:"currency" binding:"omitempty,len=3"`
	Status      string     `json:"status" binding:"omitempty,oneof=draft sent accepted rejected"`
	Content     string     `json:"content"`
	ValidUntil  *time.Time `json:"valid_until"`
	LeadID      *uint      `json:"lead_id"`
}

func (r proposalRequest) proposal() domain.Proposal {
	return domain.Proposal{
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		Company:     r.Company,
		Service:     r.Service,
		FeeCents:    r.FeeCents,
		Currency:    r.Currency,
		Status:      domain.ProposalStatus(r.Status),
		Content:     r.Content,
		ValidUntil:  r.ValidUntil,
		LeadID:      r.LeadID,
	}
}

func (h *HTTPHandler) ListProposals(c *gin.Context) {
	list, err := h.Proposals.List(c.Request.Context(), domain.ProposalStatus(c.Query("status")), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *HTTPHandler) CreateProposal(c *gin.Context) {
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	p := req.proposal()
	if err := h.Proposals.Create(c.Request.Context(), &p); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *HTTPHandler) GetProposal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.Proposals.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *HTTPHandler) UpdateProposal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	p, err := h.Proposals.Update(c.Request.Context(), id, req.proposal())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *HTTPHandler) DeleteProposal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Proposals.Delete(c.Request.Context(), id); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Audits

func (h *HTTPHandler) ListAudits(c *gin.Context) {
	list, err := h.Audits.List(c.Request.Context(), c.Query("url"), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *HTTPHandler) GetAudit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.Audits.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type auditRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,max=25,dive,url"`
}

func (h *HTTPHandler) RunAudit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	outcomes, err := h.Audits.Run(c.Request.Context(), req.URLs)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	failed := 0
	for _, o := range outcomes {
		if o.Error != "" {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": outcomes, "audited": len(outcomes) - failed, "failed": failed})
}

// SitemapPreview lets editors check the sitemap before crawlers see it.
func (h *HTTPHandler) SitemapPreview(c *gin.Context) {
	set, err := h.Sitemap.Build(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	var buf bytes.Buffer
	if err := set.Encode(&buf); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(set.URLs), "xml": buf.String()})
}
