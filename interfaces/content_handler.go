package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nrro-site/application"
	"nrro-site/domain"
)

type blogDraftRequest struct {
	Topic    string   `json:"topic" binding:"required,max=500"`
	Kind     string   `json:"kind" binding:"omitempty,oneof=blog news"`
	Locale   string   `json:"locale" binding:"omitempty,locale"`
	Keywords []string `json:"keywords" binding:"max=20"`
	Tone     string   `json:"tone" binding:"max=100"`
}

func (h *HTTPHandler) GenerateBlogDraft(c *gin.Context) {
	var req blogDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	locale, _ := domain.ParseLocale(req.Locale)
	post, err := h.Content.GenerateBlogDraft(c.Request.Context(), application.DraftRequest{
		Topic:    req.Topic,
		Kind:     domain.PostKind(req.Kind),
		Locale:   locale,
		Keywords: req.Keywords,
		Tone:     req.Tone,
		Author:   editorFrom(c),
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

type seoAnalysisRequest struct {
	Title           string   `json:"title" binding:"max=500"`
	MetaDescription string   `json:"meta_description" binding:"max=1000"`
	Content         string   `json:"content" binding:"max=100000"`
	Keywords        []string `json:"keywords" binding:"max=20"`
	Locale          string   `json:"locale" binding:"omitempty,locale"`
}

func (h *HTTPHandler) AnalyzeSEO(c *gin.Context) {
	var req seoAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	locale, _ := domain.ParseLocale(req.Locale)
	out, err := h.Content.AnalyzeSEO(c.Request.Context(), application.SEORequest{
		Title:           req.Title,
		MetaDescription: req.MetaDescription,
		Content:         req.Content,
		Keywords:        req.Keywords,
		Locale:          locale,
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type imageRequest struct {
	Prompt     string `json:"prompt" binding:"required,max=4000"`
	Size       string `json:"size" binding:"omitempty,oneof=256x256 512x512 1024x1024 1792x1024 1024x1792"`
	BlogPostID *uint  `json:"blog_post_id"`
}

func (h *HTTPHandler) GenerateImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.bind(c, err)
		return
	}
	img, err := h.Content.GenerateImage(c.Request.Context(), application.ImageRequest{
		Prompt:     req.Prompt,
		Size:       req.Size,
		BlogPostID: req.BlogPostID,
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, img)
}
