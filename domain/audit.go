package domain

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type IssueSeverity string

const (
	SeverityHigh   IssueSeverity = "high"
	SeverityMedium IssueSeverity = "medium"
	SeverityLow    IssueSeverity = "low"
)

type IssueCategory string

const (
	CategorySEO       IssueCategory = "seo"
	CategoryContent   IssueCategory = "content"
	CategoryStructure IssueCategory = "structure"
)

type AuditIssue struct {
	Code     string        `json:"code"`
	Category IssueCategory `json:"category"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
}

type AuditResult struct {
	ID             uint                            `gorm:"primaryKey" json:"id"`
	URL            string                          `gorm:"size:2048;not null" json:"url"`
	StatusCode     int                             `json:"status_code"`
	SEOScore       int                             `gorm:"column:seo_score" json:"seo_score"`
	ContentScore   int                             `json:"content_score"`
	StructureScore int                             `json:"structure_score"`
	OverallScore   int                             `json:"overall_score"`
	Issues         datatypes.JSONSlice[AuditIssue] `json:"issues"`
	CreatedAt      time.Time                       `json:"created_at"`
}

// PageSnapshot is what an audit extracts from one fetched page.
type PageSnapshot struct {
	URL              string   `json:"url"`
	StatusCode       int      `json:"status_code"`
	Title            string   `json:"title"`
	MetaDescription  string   `json:"meta_description"`
	Canonical        string   `json:"canonical"`
	Lang             string   `json:"lang"`
	H1               []string `json:"h1"`
	H2Count          int      `json:"h2_count"`
	ImageCount       int      `json:"image_count"`
	ImagesMissingAlt int      `json:"images_missing_alt"`
	WordCount        int      `json:"word_count"`
	InternalLinks    int      `json:"internal_links"`
	ExternalLinks    int      `json:"external_links"`
	Hreflangs        []string `json:"hreflangs"`
	OGTitle          string   `json:"og_title"`
	OGDescription    string   `json:"og_description"`
	OGImage          string   `json:"og_image"`
	HasViewport      bool     `json:"has_viewport"`
}

type AuditScores struct {
	SEO       int `json:"seo"`
	Content   int `json:"content"`
	Structure int `json:"structure"`
	Overall   int `json:"overall"`
}

const (
	titleMin       = 30
	titleMax       = 60
	descriptionMin = 120
	descriptionMax = 160
	thinContent    = 300
)

var severityPenalty = map[IssueSeverity]int{
	SeverityHigh:   25,
	SeverityMedium: 10,
	SeverityLow:    5,
}

// EvaluatePage scores a page per category. Each category starts at 100 and loses
// a fixed penalty per issue, floored at zero.
func EvaluatePage(p PageSnapshot) (AuditScores, []AuditIssue) {
	var issues []AuditIssue
	add := func(code string, cat IssueCategory, sev IssueSeverity, format string, args ...any) {
		issues = append(issues, AuditIssue{Code: code, Category: cat, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if p.StatusCode >= 400 {
		add("http_error", CategoryStructure, SeverityHigh, "page returned HTTP %d", p.StatusCode)
	}

	switch n := len([]rune(p.Title)); {
	case n == 0:
		add("title_missing", CategorySEO, SeverityHigh, "page has no <title>")
	case n < titleMin:
		add("title_short", CategorySEO, SeverityMedium, "title is %d characters, aim for %d-%d", n, titleMin, titleMax)
	case n > titleMax:
		add("title_long", CategorySEO, SeverityLow, "title is %d characters, aim for %d-%d", n, titleMin, titleMax)
	}

	switch n := len([]rune(p.MetaDescription)); {
	case n == 0:
		add("description_missing", CategorySEO, SeverityHigh, "meta description is missing")
	case n < descriptionMin:
		add("description_short", CategorySEO, SeverityMedium, "meta description is %d characters, aim for %d-%d", n, descriptionMin, descriptionMax)
	case n > descriptionMax:
		add("description_long", CategorySEO, SeverityLow, "meta description is %d characters, aim for %d-%d", n, descriptionMin, descriptionMax)
	}

	if p.Canonical == "" {
		add("canonical_missing", CategorySEO, SeverityMedium, "no canonical link")
	}
	if len(p.Hreflangs) == 0 {
		add("hreflang_missing", CategorySEO, SeverityMedium, "no hreflang alternates declared")
	}
	if p.OGTitle == "" || p.OGImage == "" {
		add("open_graph_incomplete", CategorySEO, SeverityLow, "og:title or og:image missing")
	}

	if p.WordCount < thinContent {
		add("thin_content", CategoryContent, SeverityMedium, "only %d words of body text", p.WordCount)
	}
	if p.ImagesMissingAlt > 0 {
		add("image_alt_missing", CategoryContent, SeverityLow, "%d of %d images have no alt text", p.ImagesMissingAlt, p.ImageCount)
	}
	if p.InternalLinks == 0 {
		add("no_internal_links", CategoryContent, SeverityLow, "page has no internal links")
	}

	switch len(p.H1) {
	case 0:
		add("h1_missing", CategoryStructure, SeverityHigh, "page has no <h1>")
	case 1:
	default:
		add("h1_multiple", CategoryStructure, SeverityMedium, "page has %d <h1> elements", len(p.H1))
	}
	if p.H2Count == 0 {
		add("h2_missing", CategoryStructure, SeverityLow, "page has no <h2> subheadings")
	}
	if p.Lang == "" {
		add("lang_missing", CategoryStructure, SeverityMedium, "<html> has no lang attribute")
	}
	if !p.HasViewport {
		add("viewport_missing", CategoryStructure, SeverityMedium, "no responsive viewport meta tag")
	}

	scores := AuditScores{
		SEO:       categoryScore(issues, CategorySEO),
		Content:   categoryScore(issues, CategoryContent),
		Structure: categoryScore(issues, CategoryStructure),
	}
	scores.Overall = (scores.SEO + scores.Content + scores.Structure + 1) / 3
	return scores, issues
}

func categoryScore(issues []AuditIssue, cat IssueCategory) int {
	score := 100
	for _, is := range issues {
		if is.Category == cat {
			score -= severityPenalty[is.Severity]
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// NewAuditResult builds the row written for one audited URL.
func NewAuditResult(p PageSnapshot, scores AuditScores, issues []AuditIssue) AuditResult {
	if issues == nil {
		issues = []AuditIssue{}
	}
	return AuditResult{
		URL:            p.URL,
		StatusCode:     p.StatusCode,
		SEOScore:       scores.SEO,
		ContentScore:   scores.Content,
		StructureScore: scores.Structure,
		OverallScore:   scores.Overall,
		Issues:         issues,
	}
}
