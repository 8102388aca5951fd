package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"nrro-site/domain"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, p *domain.Proposal) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProposalRepository) Get(ctx context.Context, id uint) (*domain.Proposal, error) {
	var p domain.Proposal
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *ProposalRepository) Save(ctx context.Context, p *domain.Proposal) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error)
}

func (r *ProposalRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Proposal{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProposalRepository) List(ctx context.Context, status domain.ProposalStatus, limit, offset int) ([]domain.Proposal, error) {
	q := r.db.WithContext(ctx).Model(&domain.Proposal{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := []domain.Proposal{}
	err := paginate(q, limit, offset).Order("updated_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}
