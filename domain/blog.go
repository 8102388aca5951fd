package domain

import (
	"time"

	"gorm.io/datatypes"
)

type PostKind string

const (
	PostKindBlog PostKind = "blog"
	PostKindNews PostKind = "news"
)

func IsValidPostKind(s string) bool {
	return s == string(PostKindBlog) || s == string(PostKindNews)
}

// BlogPost backs both the blog and the news section.
type BlogPost struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Kind            PostKind                    `gorm:"size:16;index;not null" json:"kind"`
	Slug            LocalizedSlug               `gorm:"embedded;embeddedPrefix:slug_" json:"slug"`
	Title           LocalizedText               `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Excerpt         LocalizedText               `gorm:"embedded;embeddedPrefix:excerpt_" json:"excerpt"`
	Content         LocalizedText               `gorm:"embedded;embeddedPrefix:content_" json:"content"`
	MetaDescription LocalizedText               `gorm:"embedded;embeddedPrefix:meta_description_" json:"meta_description"`
	Tags            datatypes.JSONSlice[string] `json:"tags"`
	CoverImageURL   string                      `gorm:"size:2048" json:"cover_image_url,omitempty"`
	Author          string                      `gorm:"size:255" json:"author,omitempty"`
	Status          PublishStatus               `gorm:"size:16;index;not null" json:"status"`
	AIGenerated     bool                        `gorm:"column:ai_generated" json:"ai_generated"`
	PublishedAt     *time.Time                  `json:"published_at,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func (p BlogPost) IsPublished() bool { return p.Status == StatusPublished }

// Publish keeps the first publication date when a post is re-published.
func (p *BlogPost) Publish(now time.Time) {
	p.Status = StatusPublished
	if p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}

func (p *BlogPost) Unpublish() {
	p.Status = StatusDraft
}

type PostFilter struct {
	Kind   PostKind
	Status PublishStatus
	// Locale keeps only posts with a slug in that locale.
	Locale Locale
	Limit  int
	Offset int
}
