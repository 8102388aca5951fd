package infrastructure

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nrro-site/domain"
)

type LandingRepository struct {
	db *gorm.DB
}

func NewLandingRepository(db *gorm.DB) *LandingRepository {
	return &LandingRepository{db: db}
}

func (r *LandingRepository) Create(ctx context.Context, p *domain.LandingPage) error {
	if p.Version == 0 {
		p.Version = 1
	}
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *LandingRepository) Get(ctx context.Context, id uint) (*domain.LandingPage, error) {
	var p domain.LandingPage
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *LandingRepository) GetBySlug(ctx context.Context, slug string) (*domain.LandingPage, error) {
	var p domain.LandingPage
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *LandingRepository) List(ctx context.Context, status domain.PublishStatus) ([]domain.LandingPage, error) {
	q := r.db.WithContext(ctx).Model(&domain.LandingPage{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := []domain.LandingPage{}
	err := q.Order("updated_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

// Update snapshots the current row when a tracked field changes, then applies
// upd. Both writes share one transaction and the row update is guarded by the
// version read inside it, so a concurrent editor gets ErrConflict instead of a
// silently dropped version. expectedVersion 0 skips the caller-side check.
func (r *LandingRepository) Update(ctx context.Context, id uint, upd domain.LandingUpdate, expectedVersion int, editor string) (domain.LandingUpdateResult, error) {
	var res domain.LandingUpdateResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page domain.LandingPage
		if err := tx.First(&page, id).Error; err != nil {
			return translateError(err)
		}
		if expectedVersion != 0 && expectedVersion != page.Version {
			return fmt.Errorf("%w: landing page %d is at version %d, not %d", domain.ErrConflict, id, page.Version, expectedVersion)
		}

		readVersion := page.Version
		diff := domain.DiffLanding(page, upd)
		if diff.ShouldSnapshot() {
			snap, err := domain.SnapshotOf(page)
			if err != nil {
				return err
			}
			v := domain.LandingVersion{
				LandingPageID: page.ID,
				Version:       page.Version,
				Snapshot:      snap,
				ChangeSummary: diff.Summary(),
				CreatedBy:     editor,
			}
			if err := tx.Create(&v).Error; err != nil {
				return translateError(err)
			}
			res.Snapshot = &v
			page.Version++
		}

		upd.Apply(&page)
		q := tx.Model(&domain.LandingPage{}).
			Where("id = ? AND version = ?", page.ID, readVersion).
			Select("*").Omit("id", "created_at").
			Updates(&page)
		if q.Error != nil {
			return translateError(q.Error)
		}
		if q.RowsAffected == 0 {
			// MySQL reports zero affected rows for a no-op update; tell that
			// apart from a lost race.
			var n int64
			if err := tx.Model(&domain.LandingPage{}).Where("id = ? AND version = ?", page.ID, page.Version).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: landing page %d was modified concurrently", domain.ErrConflict, id)
			}
		}

		res.Page = &page
		return nil
	})
	return res, err
}

func (r *LandingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("landing_page_id = ?", id).Delete(&domain.LandingVersion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.LandingPage{}, id)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *LandingRepository) Versions(ctx context.Context, pageID uint) ([]domain.LandingVersion, error) {
	out := []domain.LandingVersion{}
	err := r.db.WithContext(ctx).
		Where("landing_page_id = ?", pageID).
		Order("version DESC").
		Find(&out).Error
	return out, err
}

func (r *LandingRepository) GetVersion(ctx context.Context, pageID uint, version int) (*domain.LandingVersion, error) {
	var v domain.LandingVersion
	err := r.db.WithContext(ctx).
		Where("landing_page_id = ? AND version = ?", pageID, version).
		Order("id DESC").
		First(&v).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &v, nil
}
