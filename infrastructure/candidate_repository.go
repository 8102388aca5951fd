package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"nrro-site/domain"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	return translateError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CandidateRepository) Get(ctx context.Context, id uint) (*domain.Candidate, error) {
	var c domain.Candidate
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *CandidateRepository) List(ctx context.Context, f domain.CandidateFilter) ([]domain.Candidate, error) {
	q := r.db.WithContext(ctx).Model(&domain.Candidate{})
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.Position != "" {
		q = q.Where("position = ?", f.Position)
	}

	out := []domain.Candidate{}
	err := paginate(q, f.Limit, f.Offset).Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *CandidateRepository) UpdateEstado(ctx context.Context, id uint, estado domain.CandidateStatus, notes *string) (*domain.Candidate, error) {
	updates := map[string]any{"estado": estado}
	if notes != nil {
		updates["notes"] = *notes
	}
	if err := r.db.WithContext(ctx).Model(&domain.Candidate{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translateError(err)
	}
	return r.Get(ctx, id)
}

func (r *CandidateRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Candidate{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
