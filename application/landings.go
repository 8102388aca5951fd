package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

type LandingStore interface {
	Create(ctx context.Context, p *domain.LandingPage) error
	Get(ctx context.Context, id uint) (*domain.LandingPage, error)
	GetBySlug(ctx context.Context, slug string) (*domain.LandingPage, error)
	List(ctx context.Context, status domain.PublishStatus) ([]domain.LandingPage, error)
	Update(ctx context.Context, id uint, upd domain.LandingUpdate, expectedVersion int, editor string) (domain.LandingUpdateResult, error)
	Delete(ctx context.Context, id uint) error
	Versions(ctx context.Context, pageID uint) ([]domain.LandingVersion, error)
	GetVersion(ctx context.Context, pageID uint, version int) (*domain.LandingVersion, error)
}

type LandingService struct {
	Landings LandingStore
	Log      logrus.FieldLogger
}

func (s *LandingService) Create(ctx context.Context, p *domain.LandingPage) error {
	p.Slug = domain.Slugify(p.Slug)
	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Title.ES)
	}
	if p.Slug == "" {
		return fmt.Errorf("%w: slug or title.es is required", domain.ErrInvalidInput)
	}
	if p.Status == "" {
		p.Status = domain.StatusDraft
	}
	if !domain.IsValidPublishStatus(string(p.Status)) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, p.Status)
	}
	if err := domain.ValidateSections([]byte(p.Sections)); err != nil {
		return err
	}
	p.Sections = domain.NormalizeSections(p.Sections)
	p.Version = 1
	return s.Landings.Create(ctx, p)
}

// Update applies an editor's changes. expectedVersion is the version the editor
// loaded; 0 skips the check.
func (s *LandingService) Update(ctx context.Context, id uint, upd domain.LandingUpdate, expectedVersion int, editor string) (domain.LandingUpdateResult, error) {
	if upd.Slug != nil {
		slug := domain.Slugify(*upd.Slug)
		if slug == "" {
			return domain.LandingUpdateResult{}, fmt.Errorf("%w: slug cannot be empty", domain.ErrInvalidInput)
		}
		upd.Slug = &slug
	}
	if upd.Status != nil && !domain.IsValidPublishStatus(string(*upd.Status)) {
		return domain.LandingUpdateResult{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *upd.Status)
	}
	if err := domain.ValidateSections(upd.Sections); err != nil {
		return domain.LandingUpdateResult{}, err
	}

	res, err := s.Landings.Update(ctx, id, upd, expectedVersion, editor)
	if err != nil {
		return res, err
	}
	if res.Snapshot != nil {
		s.Log.WithFields(logrus.Fields{
			"landing_id": id,
			"version":    res.Page.Version,
			"changed":    res.Snapshot.ChangeSummary,
			"editor":     editor,
		}).Info("landing page versioned")
	}
	return res, nil
}

// Restore puts a stored version's content back. The row being replaced is
// itself snapshotted, so a restore can be undone.
func (s *LandingService) Restore(ctx context.Context, id uint, version int, editor string) (domain.LandingUpdateResult, error) {
	v, err := s.Landings.GetVersion(ctx, id, version)
	if err != nil {
		return domain.LandingUpdateResult{}, err
	}
	upd, err := domain.UpdateFromSnapshot(v.Snapshot)
	if err != nil {
		return domain.LandingUpdateResult{}, err
	}
	return s.Update(ctx, id, upd, 0, editor)
}

func (s *LandingService) Get(ctx context.Context, id uint) (*domain.LandingPage, error) {
	return s.Landings.Get(ctx, id)
}

func (s *LandingService) List(ctx context.Context, status domain.PublishStatus) ([]domain.LandingPage, error) {
	return s.Landings.List(ctx, status)
}

func (s *LandingService) Delete(ctx context.Context, id uint) error {
	return s.Landings.Delete(ctx, id)
}

func (s *LandingService) Versions(ctx context.Context, id uint) ([]domain.LandingVersion, error) {
	if _, err := s.Landings.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Landings.Versions(ctx, id)
}

// Published returns the page only if it is live; drafts look like missing pages.
func (s *LandingService) Published(ctx context.Context, slug string) (*domain.LandingPage, error) {
	p, err := s.Landings.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished() {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
