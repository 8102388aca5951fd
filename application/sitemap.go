package application

import (
	"context"

	"nrro-site/domain"
)

type publishedPosts interface {
	AllPublished(ctx context.Context) ([]domain.BlogPost, error)
}

type landingLister interface {
	List(ctx context.Context, status domain.PublishStatus) ([]domain.LandingPage, error)
}

// SitemapService assembles the sitemap of the primary site from static routes
// and everything currently published.
type SitemapService struct {
	Site     domain.Site
	Routes   []domain.StaticRoute
	Paths    domain.ContentPaths
	Posts    publishedPosts
	Landings landingLister
}

func (s *SitemapService) Build(ctx context.Context) (domain.URLSet, error) {
	posts, err := s.Posts.AllPublished(ctx)
	if err != nil {
		return domain.URLSet{}, err
	}
	landings, err := s.Landings.List(ctx, domain.StatusPublished)
	if err != nil {
		return domain.URLSet{}, err
	}

	entries := make([]domain.SitemapEntry, 0, len(posts)+len(landings))
	for _, p := range posts {
		prefixes := s.Paths.Blog
		if p.Kind == domain.PostKindNews {
			prefixes = s.Paths.News
		}
		lastMod := p.UpdatedAt
		if p.PublishedAt != nil && p.PublishedAt.After(lastMod) {
			lastMod = *p.PublishedAt
		}
		entries = append(entries, domain.ContentEntry(prefixes, p.Slug, lastMod))
	}
	// Landing slugs are shared across locales.
	for _, l := range landings {
		slugs := domain.LocalizedSlug{ES: l.Slug, CA: l.Slug, EN: l.Slug}
		entries = append(entries, domain.ContentEntry(s.Paths.Landing, slugs, l.UpdatedAt))
	}
	return domain.BuildSitemap(s.Site.BaseURL, s.Routes, entries), nil
}
