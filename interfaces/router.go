package interfaces

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nrro-site/application"
	"nrro-site/domain"
	"nrro-site/infrastructure"
)

type Dependencies struct {
	Sites     *domain.SiteDirectory
	Leads     *application.LeadService
	Careers   *application.CareersService
	Landings  *application.LandingService
	Blog      *application.BlogService
	Proposals *application.ProposalService
	Audits    *application.AuditService
	Content   *application.ContentService
	Sitemap   *application.SitemapService

	// FormLimiter throttles public form posts per client IP.
	FormLimiter    *infrastructure.KeyedLimiter
	AdminTokens    []string
	CORSOrigins    []string
	MaxUploadBytes int64
	Ping           func(ctx context.Context) error
	Log            logrus.FieldLogger
}

type HTTPHandler struct {
	Dependencies
	errs errorResponder
}

func NewRouter(deps Dependencies) *gin.Engine {
	registerValidators()

	h := &HTTPHandler{Dependencies: deps, errs: errorResponder{log: deps.Log}}

	router := gin.New()
	router.Use(requestID(), requestLogger(deps.Log), recovery(deps.Log), cors(deps.CORSOrigins), resolveSite(deps.Sites))

	router.GET("/health", h.Health)
	router.GET("/sitemap.xml", h.SitemapXML)

	api := router.Group("/api")
	forms := api.Group("", rateLimit(deps.FormLimiter))
	forms.POST("/leads/company-setup", h.SubmitCompanySetup)
	forms.POST("/leads/beckham", h.SubmitBeckham)
	forms.POST("/contact", h.SubmitContact)
	forms.POST("/careers", h.SubmitApplication)

	api.GET("/blog", h.ListPublishedPosts)
	api.GET("/blog/:slug", h.GetPublishedPost)
	api.GET("/landings/:slug", h.GetPublishedLanding)

	admin := api.Group("/admin", adminAuth(deps.AdminTokens))
	admin.GET("/leads", h.ListLeads)
	admin.GET("/leads/:id", h.GetLead)
	admin.PATCH("/leads/:id", h.UpdateLead)

	admin.GET("/candidates", h.ListCandidates)
	admin.GET("/candidates/:id", h.GetCandidate)
	admin.PATCH("/candidates/:id", h.UpdateCandidate)
	admin.DELETE("/candidates/:id", h.DeleteCandidate)

	admin.GET("/landings", h.ListLandings)
	admin.POST("/landings", h.CreateLanding)
	admin.GET("/landings/:id", h.GetLanding)
	admin.PUT("/landings/:id", h.UpdateLanding)
	admin.DELETE("/landings/:id", h.DeleteLanding)
	admin.GET("/landings/:id/versions", h.ListLandingVersions)
	admin.POST("/landings/:id/versions/:version/restore", h.RestoreLandingVersion)

	admin.GET("/posts", h.ListPosts)
	admin.POST("/posts", h.CreatePost)
	admin.GET("/posts/:id", h.GetPost)
	admin.PUT("/posts/:id", h.UpdatePost)
	admin.DELETE("/posts/:id", h.DeletePost)
	admin.POST("/posts/:id/publish", h.PublishPost)
	admin.POST("/posts/:id/unpublish", h.UnpublishPost)

	admin.GET("/proposals", h.ListProposals)
	admin.POST("/proposals", h.CreateProposal)
	admin.GET("/proposals/:id", h.GetProposal)
	admin.PUT("/proposals/:id", h.UpdateProposal)
	admin.DELETE("/proposals/:id", h.DeleteProposal)

	admin.GET("/audits", h.ListAudits)
	admin.GET("/audits/:id", h.GetAudit)
	admin.POST("/audits", h.RunAudit)

	admin.POST("/content/blog-draft", h.GenerateBlogDraft)
	admin.POST("/content/seo-analysis", h.AnalyzeSEO)
	admin.POST("/content/image", h.GenerateImage)

	admin.GET("/sitemap", h.SitemapPreview)

	return router
}
