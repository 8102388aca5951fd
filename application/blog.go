package application

import (
	"context"
	"fmt"
	"time"

	"nrro-site/domain"
)

type BlogStore interface {
	Create(ctx context.Context, p *domain.BlogPost) error
	Get(ctx context.Context, id uint) (*domain.BlogPost, error)
	Save(ctx context.Context, p *domain.BlogPost) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f domain.PostFilter) ([]domain.BlogPost, error)
	AllPublished(ctx context.Context) ([]domain.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, kind domain.PostKind, locale domain.Locale, slug string) (*domain.BlogPost, error)
}

type BlogService struct {
	Posts BlogStore
	Now   func() time.Time
}

func (s *BlogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *BlogService) Create(ctx context.Context, p *domain.BlogPost) error {
	if p.Kind == "" {
		p.Kind = domain.PostKindBlog
	}
	if err := normalizePost(p); err != nil {
		return err
	}
	status := p.Status
	p.Status = domain.StatusDraft
	switch status {
	case "", domain.StatusDraft:
	case domain.StatusPublished:
		p.Publish(s.now())
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return s.Posts.Create(ctx, p)
}

// Update replaces the editable content. Publication state only changes through
// Publish and Unpublish.
func (s *BlogService) Update(ctx context.Context, id uint, in domain.BlogPost) (*domain.BlogPost, error) {
	p, err := s.Posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Kind != "" {
		p.Kind = in.Kind
	}
	p.Slug = in.Slug
	p.Title = in.Title
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.MetaDescription = in.MetaDescription
	p.CoverImageURL = in.CoverImageURL
	p.Author = in.Author
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if err := normalizePost(p); err != nil {
		return nil, err
	}
	if err := s.Posts.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *BlogService) Publish(ctx context.Context, id uint) (*domain.BlogPost, error) {
	p, err := s.Posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Publish(s.now())
	if err := s.Posts.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *BlogService) Unpublish(ctx context.Context, id uint) (*domain.BlogPost, error) {
	p, err := s.Posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Unpublish()
	if err := s.Posts.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *BlogService) Get(ctx context.Context, id uint) (*domain.BlogPost, error) {
	return s.Posts.Get(ctx, id)
}

func (s *BlogService) List(ctx context.Context, f domain.PostFilter) ([]domain.BlogPost, error) {
	return s.Posts.List(ctx, f)
}

func (s *BlogService) Delete(ctx context.Context, id uint) error {
	return s.Posts.Delete(ctx, id)
}

// PublishedList returns live posts of a kind that exist in the given locale.
func (s *BlogService) PublishedList(ctx context.Context, kind domain.PostKind, locale domain.Locale, limit, offset int) ([]domain.BlogPost, error) {
	return s.Posts.List(ctx, domain.PostFilter{
		Kind:   kind,
		Status: domain.StatusPublished,
		Locale: locale,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *BlogService) PublishedBySlug(ctx context.Context, kind domain.PostKind, locale domain.Locale, slug string) (*domain.BlogPost, error) {
	return s.Posts.FindPublishedBySlug(ctx, kind, locale, slug)
}

// normalizePost derives missing slugs from titles and rejects posts with no
// locale at all.
func normalizePost(p *domain.BlogPost) error {
	if !domain.IsValidPostKind(string(p.Kind)) {
		return fmt.Errorf("%w: unknown post kind %q", domain.ErrInvalidInput, p.Kind)
	}
	found := false
	for _, l := range domain.Locales {
		slug := domain.Slugify(p.Slug.Get(l))
		if slug == "" {
			slug = domain.Slugify(p.Title.Get(l))
		}
		p.Slug.Set(l, slug)
		if slug != "" {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: a post needs a title in at least one locale", domain.ErrInvalidInput)
	}
	return nil
}
