package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"nrro-site/domain"
)

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(ctx context.Context, p *domain.BlogPost) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *BlogRepository) Get(ctx context.Context, id uint) (*domain.BlogPost, error) {
	var p domain.BlogPost
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// Save writes the full row.
func (r *BlogRepository) Save(ctx context.Context, p *domain.BlogPost) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error)
}

func (r *BlogRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.BlogPost{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) List(ctx context.Context, f domain.PostFilter) ([]domain.BlogPost, error) {
	q := r.db.WithContext(ctx).Model(&domain.BlogPost{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Locale != "" {
		q = q.Where(slugColumn(f.Locale) + " <> ''")
	}

	order := "updated_at DESC"
	if f.Status == domain.StatusPublished {
		order = "published_at DESC"
	}
	out := []domain.BlogPost{}
	err := paginate(q, f.Limit, f.Offset).Order(order).Order("id DESC").Find(&out).Error
	return out, err
}

// AllPublished is unpaginated; it feeds the sitemap.
func (r *BlogRepository) AllPublished(ctx context.Context) ([]domain.BlogPost, error) {
	out := []domain.BlogPost{}
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusPublished).
		Order("published_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *BlogRepository) FindPublishedBySlug(ctx context.Context, kind domain.PostKind, locale domain.Locale, slug string) (*domain.BlogPost, error) {
	var p domain.BlogPost
	err := r.db.WithContext(ctx).
		Where("kind = ? AND status = ?", kind, domain.StatusPublished).
		Where(slugColumn(locale)+" = ?", slug).
		First(&p).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// slugColumn only ever returns one of three fixed column names.
func slugColumn(l domain.Locale) string {
	switch l {
	case domain.LocaleCA:
		return "slug_ca"
	case domain.LocaleEN:
		return "slug_en"
	default:
		return "slug_es"
	}
}
