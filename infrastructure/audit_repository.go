package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"nrro-site/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, a *domain.AuditResult) error {
	return translateError(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AuditRepository) Get(ctx context.Context, id uint) (*domain.AuditResult, error) {
	var a domain.AuditResult
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

// List filters by URL substring, newest first.
func (r *AuditRepository) List(ctx context.Context, url string, limit, offset int) ([]domain.AuditResult, error) {
	q := r.db.WithContext(ctx).Model(&domain.AuditResult{})
	if url != "" {
		q = q.Where("url LIKE ?", "%"+url+"%")
	}
	out := []domain.AuditResult{}
	err := paginate(q, limit, offset).Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}
