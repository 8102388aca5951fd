package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

// Generator is the AI gateway.
type Generator interface {
	CompleteJSON(ctx context.Context, system, prompt string, out any) error
	GenerateImage(ctx context.Context, prompt, size string) (domain.GeneratedImage, error)
}

// ContentService drafts posts, reviews SEO copy and creates cover images.
// With a nil AI every call fails with domain.ErrAIDisabled.
type ContentService struct {
	AI    Generator
	Posts BlogStore
	Log   logrus.FieldLogger
}

type DraftRequest struct {
	Topic    string
	Kind     domain.PostKind
	Locale   domain.Locale
	Keywords []string
	Tone     string
	Author   string
}

type draftCompletion struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Excerpt         string   `json:"excerpt"`
	Content         string   `json:"content"`
	MetaDescription string   `json:"meta_description"`
	Tags            []string `json:"tags"`
}

const editorialSystem = `You write for NRRO (Navarro Tax Legal), a tax, legal and accounting firm in Barcelona and Madrid.
Audience: business owners, founders and expatriates dealing with Spanish tax and company law.
Be accurate and practical, cite the relevant Spanish regulation by name when useful, and never invent figures.
Always answer with a single JSON object and nothing else.`

var localeNames = map[domain.Locale]string{
	domain.LocaleES: "Spanish (Spain)",
	domain.LocaleCA: "Catalan",
	domain.LocaleEN: "British English",
}

// GenerateBlogDraft asks the model for a post and stores it as an AI-generated draft.
func (s *ContentService) GenerateBlogDraft(ctx context.Context, req DraftRequest) (*domain.BlogPost, error) {
	if s.AI == nil {
		return nil, domain.ErrAIDisabled
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}
	if req.Kind == "" {
		req.Kind = domain.PostKindBlog
	}
	if _, ok := domain.ParseLocale(string(req.Locale)); !ok {
		req.Locale = domain.LocaleES
	}
	tone := req.Tone
	if tone == "" {
		tone = "professional and approachable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s article in %s about: %s\n", req.Kind, localeNames[req.Locale], req.Topic)
	fmt.Fprintf(&b, "Tone: %s.\n", tone)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Work these keywords in naturally: %s.\n", strings.Join(req.Keywords, ", "))
	}
	b.WriteString(`Return JSON with keys: "title" (under 60 characters), "slug" (lowercase, hyphenated), ` +
		`"excerpt" (1-2 sentences), "content" (Markdown, 800-1200 words, with H2 sections), ` +
		`"meta_description" (120-160 characters), "tags" (3-6 short strings).`)

	var out draftCompletion
	if err := s.AI.CompleteJSON(ctx, editorialSystem, b.String(), &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Title) == "" || strings.TrimSpace(out.Content) == "" {
		return nil, fmt.Errorf("%w: draft is missing a title or content", domain.ErrUpstream)
	}

	post := &domain.BlogPost{
		Kind:        req.Kind,
		Tags:        out.Tags,
		Author:      req.Author,
		Status:      domain.StatusDraft,
		AIGenerated: true,
	}
	slug := domain.Slugify(out.Slug)
	if slug == "" {
		slug = domain.Slugify(out.Title)
	}
	post.Slug.Set(req.Locale, slug)
	post.Title.Set(req.Locale, out.Title)
	post.Excerpt.Set(req.Locale, out.Excerpt)
	post.Content.Set(req.Locale, out.Content)
	post.MetaDescription.Set(req.Locale, out.MetaDescription)
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := s.Posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	s.Log.WithFields(logrus.Fields{"post_id": post.ID, "locale": req.Locale}).Info("AI draft created")
	return post, nil
}

type SEORequest struct {
	Title           string
	MetaDescription string
	Content         string
	Keywords        []string
	Locale          domain.Locale
}

// AnalyzeSEO reviews copy without storing anything.
func (s *ContentService) AnalyzeSEO(ctx context.Context, req SEORequest) (domain.SEOAnalysis, error) {
	if s.AI == nil {
		return domain.SEOAnalysis{}, domain.ErrAIDisabled
	}
	if req.Title == "" && req.Content == "" {
		return domain.SEOAnalysis{}, fmt.Errorf("%w: title or content is required", domain.ErrInvalidInput)
	}
	if _, ok := domain.ParseLocale(string(req.Locale)); !ok {
		req.Locale = domain.LocaleES
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review the SEO of this page written in %s.\n", localeNames[req.Locale])
	fmt.Fprintf(&b, "Title: %s\nMeta description: %s\n", req.Title, req.MetaDescription)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Target keywords: %s\n", strings.Join(req.Keywords, ", "))
	}
	fmt.Fprintf(&b, "Content:\n%s\n", req.Content)
	b.WriteString(`Return JSON with keys: "score" (0-100), "issues" (array of strings), "suggestions" (array of strings), ` +
		`"improved_title" (under 60 characters), "improved_meta_description" (120-160 characters). ` +
		`Write issues, suggestions and improvements in the page's language.`)

	var out domain.SEOAnalysis
	if err := s.AI.CompleteJSON(ctx, editorialSystem, b.String(), &out); err != nil {
		return domain.SEOAnalysis{}, err
	}
	out.Score = min(max(out.Score, 0), 100)
	if out.Issues == nil {
		out.Issues = []string{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return out, nil
}

type ImageRequest struct {
	Prompt     string
	Size       string
	BlogPostID *uint
}

// GenerateImage creates an image and, when a post is given, makes a returned URL
// its cover.
func (s *ContentService) GenerateImage(ctx context.Context, req ImageRequest) (domain.GeneratedImage, error) {
	if s.AI == nil {
		return domain.GeneratedImage{}, domain.ErrAIDisabled
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return domain.GeneratedImage{}, fmt.Errorf("%w: prompt is required", domain.ErrInvalidInput)
	}

	var post *domain.BlogPost
	if req.BlogPostID != nil {
		p, err := s.Posts.Get(ctx, *req.BlogPostID)
		if err != nil {
			return domain.GeneratedImage{}, err
		}
		post = p
	}

	img, err := s.AI.GenerateImage(ctx, req.Prompt, req.Size)
	if err != nil {
		return domain.GeneratedImage{}, err
	}
	if post != nil && img.URL != "" {
		post.CoverImageURL = img.URL
		if err := s.Posts.Save(ctx, post); err != nil {
			return img, fmt.Errorf("set cover image: %w", err)
		}
	}
	return img, nil
}
