package interfaces

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"nrro-site/domain"
)

type contactFields struct {
	Name      string `json:"name" form:"name" binding:"required,max=255"`
	Email     string `json:"email" form:"email" binding:"required,email,max=255"`
	Phone     string `json:"phone" form:"phone" binding:"max=64"`
	Locale    string `json:"locale" form:"locale" binding:"omitempty,locale"`
	SourceURL string `json:"source_url" form:"source_url" binding:"omitempty,url,max=2048"`
	Consent   bool   `json:"consent" form:"consent" binding:"required"`
}

type companySetupRequest struct {
	contactFields
	Company          string `json:"company" binding:"max=255"`
	Country          string `json:"country" binding:"max=128"`
	Message          string `json:"message" binding:"max=5000"`
	Timeline         string `json:"timeline" binding:"omitempty,oneof=immediate 1-3-months 3-6-months 6-months-plus"`
	CompanyStage     string `json:"company_stage" binding:"omitempty,oneof=idea planning ready-to-register operating"`
	EstimatedRevenue int64  `json:"estimated_revenue" binding:"gte=0"`
	LandingVariant   string `json:"landing_variant" binding:"max=64"`
}

type beckhamRequest struct {
	contactFields
	CurrentCountry string `json:"current_country" binding:"required,max=128"`
	MoveDate       string `json:"move_date" binding:"max=32"`
	EmploymentType string `json:"employment_type" binding:"omitempty,oneof=employee director self-employed other"`
	Message        string `json:"message" binding:"max=5000"`
	LandingVariant string `json:"landing_variant" binding:"max=64"`
}

type contactRequest struct {
	contactFields
	Company string `json:"company" binding:"max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

// lead fills the fields every form shares. The locale comes from the form,
// then from the page it was sent from, then from the site.
func (f contactFields) lead(c *gin.Context, kind domain.LeadKind) *domain.Lead {
	site := siteFrom(c)
	locale, ok := domain.ParseLocale(f.Locale)
	if !ok {
		locale = site.DefaultLocale
		if u, err := url.Parse(f.SourceURL); err == nil && f.SourceURL != "" {
			locale = domain.LocaleFromPath(u.Path, site.DefaultLocale)
		}
	}
	return &domain.Lead{
		Kind:      kind,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Locale:    locale,
		Site:      site.Key,
		SourceURL: f.SourceURL,
		Consent:   f.Consent,
	}
}

func (h *HTTPHandler) submitLead(c *gin.Context, lead *domain.Lead) {
	if err := h.Leads.Submit(c.Request.Context(), lead); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"reference":  lead.Reference,
		"lead_score": lead.LeadScore,
		"priority":   lead.Priority,
	})
}

func (h *HTTPHandler) SubmitCompanySetup(c *gin.Context) {
	var req companySetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	lead := req.lead(c, domain.LeadKindCompanySetup)
	lead.Company = req.Company
	lead.Country = req.Country
	lead.Message = req.Message
	lead.Timeline = req.Timeline
	lead.CompanyStage = req.CompanyStage
	lead.EstimatedRevenue = req.EstimatedRevenue
	lead.LandingVariant = req.LandingVariant
	h.submitLead(c, lead)
}

func (h *HTTPHandler) SubmitBeckham(c *gin.Context) {
	var req beckhamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	lead := req.lead(c, domain.LeadKindBeckham)
	lead.CurrentCountry = req.CurrentCountry
	lead.MoveDate = req.MoveDate
	lead.EmploymentType = req.EmploymentType
	lead.Message = req.Message
	lead.LandingVariant = req.LandingVariant
	h.submitLead(c, lead)
}

func (h *HTTPHandler) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	lead := req.lead(c, domain.LeadKindContact)
	lead.Company = req.Company
	lead.Message = req.Message
	h.submitLead(c, lead)
}

type applicationRequest struct {
	contactFields
	Position    string `form:"position" binding:"required,max=255"`
	LinkedInURL string `form:"linkedin_url" binding:"omitempty,url,max=512"`
	CoverLetter string `form:"cover_letter" binding:"max=10000"`
}

// SubmitApplication takes the careers form as multipart with the résumé in "resume".
func (h *HTTPHandler) SubmitApplication(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+1<<20)
	}

	var req applicationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	fh, err := c.FormFile("resume")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"resume": "is required"},
		})
		return
	}
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "resume is too large"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read resume"})
		return
	}
	defer file.Close()

	lead := req.lead(c, "")
	candidate := &domain.Candidate{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		LinkedInURL: req.LinkedInURL,
		CoverLetter: req.CoverLetter,
		Locale:      lead.Locale,
	}
	if err := h.Careers.Apply(c.Request.Context(), candidate, file); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": candidate.ID, "estado": candidate.Estado})
}

type publicPost struct {
	ID              uint                     `json:"id"`
	Kind            domain.PostKind          `json:"kind"`
	Locale          domain.Locale            `json:"locale"`
	Slug            string                   `json:"slug"`
	Title           string                   `json:"title"`
	Excerpt         string                   `json:"excerpt"`
	Content         string                   `json:"content,omitempty"`
	MetaDescription string                   `json:"meta_description"`
	Tags            []string                 `json:"tags"`
	CoverImageURL   string                   `json:"cover_image_url,omitempty"`
	Author          string                   `json:"author,omitempty"`
	PublishedAt     *time.Time               `json:"published_at,omitempty"`
	Alternates      map[domain.Locale]string `json:"alternates"`
}

func newPublicPost(p domain.BlogPost, l domain.Locale, withContent bool) publicPost {
	out := publicPost{
		ID:              p.ID,
		Kind:            p.Kind,
		Locale:          l,
		Slug:            p.Slug.Get(l),
		Title:           p.Title.Get(l),
		Excerpt:         p.Excerpt.Get(l),
		MetaDescription: p.MetaDescription.Get(l),
		Tags:            p.Tags,
		CoverImageURL:   p.CoverImageURL,
		Author:          p.Author,
		PublishedAt:     p.PublishedAt,
		Alternates:      map[domain.Locale]string{},
	}
	if withContent {
		out.Content = p.Content.Get(l)
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	for _, alt := range domain.Locales {
		if s := p.Slug.Get(alt); s != "" {
			out.Alternates[alt] = s
		}
	}
	return out
}

func postKind(c *gin.Context) (domain.PostKind, bool) {
	kind := c.DefaultQuery("kind", string(domain.PostKindBlog))
	if !domain.IsValidPostKind(kind) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "kind must be one of: blog, news"})
		return "", false
	}
	return domain.PostKind(kind), true
}

func (h *HTTPHandler) ListPublishedPosts(c *gin.Context) {
	kind, ok := postKind(c)
	if !ok {
		return
	}
	locale := requestLocale(c)
	posts, err := h.Blog.PublishedList(c.Request.Context(), kind, locale, queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	out := make([]publicPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPublicPost(p, locale, false))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) GetPublishedPost(c *gin.Context) {
	kind, ok := postKind(c)
	if !ok {
		return
	}
	locale := requestLocale(c)
	p, err := h.Blog.PublishedBySlug(c.Request.Context(), kind, locale, c.Param("slug"))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, newPublicPost(*p, locale, true))
}

// GetPublishedLanding serves a live landing page to the renderer. Internal notes
// stay in the admin API.
func (h *HTTPHandler) GetPublishedLanding(c *gin.Context) {
	p, err := h.Landings.Published(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	locale := requestLocale(c)
	c.JSON(http.StatusOK, gin.H{
		"id":               p.ID,
		"slug":             p.Slug,
		"variant":          p.Variant,
		"locale":           locale,
		"title":            p.Title.Get(locale),
		"meta_title":       p.MetaTitle.Get(locale),
		"meta_description": p.MetaDescription.Get(locale),
		"sections":         p.Sections,
		"version":          p.Version,
		"updated_at":       p.UpdatedAt,
	})
}

func (h *HTTPHandler) SitemapXML(c *gin.Context) {
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
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (h *HTTPHandler) Health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			h.Log.WithError(err).Warn("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "site": siteFrom(c).Key})
}
