package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"nrro-site/domain"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return translateError(r.db.WithContext(ctx).Create(lead).Error)
}

func (r *LeadRepository) Get(ctx context.Context, id uint) (*domain.Lead, error) {
	var lead domain.Lead
	if err := r.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error) {
	q := r.db.WithContext(ctx).Model(&domain.Lead{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	leads := []domain.Lead{}
	err := paginate(q, f.Limit, f.Offset).Order("created_at DESC").Order("id DESC").Find(&leads).Error
	return leads, err
}

// UpdateStatus changes the staff-managed fields only; notes is left alone when nil.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id uint, status domain.LeadStatus, notes *string) (*domain.Lead, error) {
	updates := map[string]any{"status": status}
	if notes != nil {
		updates["notes"] = *notes
	}

	res := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	return r.Get(ctx, id)
}
