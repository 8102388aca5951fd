package application

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

var resumeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type CandidateStore interface {
	Create(ctx context.Context, c *domain.Candidate) error
	Get(ctx context.Context, id uint) (*domain.Candidate, error)
	List(ctx context.Context, f domain.CandidateFilter) ([]domain.Candidate, error)
	UpdateEstado(ctx context.Context, id uint, estado domain.CandidateStatus, notes *string) (*domain.Candidate, error)
	Delete(ctx context.Context, id uint) error
}

type FileStore interface {
	Save(ctx context.Context, prefix, ext string, r io.Reader) (string, error)
}

type CareersService struct {
	Candidates     CandidateStore
	Files          FileStore
	Notify         Dispatcher
	StaffEmails    []string
	MaxResumeBytes int64
	Log            logrus.FieldLogger
}

// Apply stores the résumé, then the candidate, then sends the notifications.
// resume may be nil when the form was sent without a file.
func (s *CareersService) Apply(ctx context.Context, c *domain.Candidate, resume io.Reader) error {
	if resume != nil {
		path, mime, err := s.storeResume(ctx, resume)
		if err != nil {
			return err
		}
		c.ResumePath = path
		c.ResumeMIME = mime
	}

	c.Estado = domain.CandidateNuevo
	if _, ok := domain.ParseLocale(string(c.Locale)); !ok {
		c.Locale = domain.LocaleES
	}
	if err := s.Candidates.Create(ctx, c); err != nil {
		return fmt.Errorf("store candidate: %w", err)
	}
	s.Log.WithFields(logrus.Fields{"candidate_id": c.ID, "position": c.Position}).Info("application received")

	data := map[string]string{
		"name":     c.Name,
		"email":    c.Email,
		"position": c.Position,
		"linkedin": c.LinkedInURL,
		"resume":   c.ResumePath,
	}
	notifyAll(ctx, s.Notify, s.Log,
		domain.Notification{
			Template: domain.TemplateCandidateConfirmation,
			To:       []string{c.Email},
			Locale:   c.Locale,
			Data:     data,
		},
		domain.Notification{
			Template: domain.TemplateCandidateStaffAlert,
			To:       s.StaffEmails,
			ReplyTo:  c.Email,
			Locale:   domain.LocaleES,
			Data:     data,
		},
	)
	return nil
}

func (s *CareersService) storeResume(ctx context.Context, r io.Reader) (path, mime string, err error) {
	limit := s.MaxResumeBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", "", fmt.Errorf("read resume: %w", err)
	}
	if int64(len(data)) > limit {
		return "", "", fmt.Errorf("%w: resume exceeds %d MB", domain.ErrInvalidInput, limit>>20)
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: resume is empty", domain.ErrInvalidInput)
	}

	mt := mimetype.Detect(data)
	allowed := false
	for _, t := range resumeTypes {
		if mt.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", "", fmt.Errorf("%w: resume must be a PDF or Word document, got %s", domain.ErrInvalidInput, mt.String())
	}

	path, err = s.Files.Save(ctx, "resumes", mt.Extension(), bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("store resume: %w", err)
	}
	return path, mt.String(), nil
}

func (s *CareersService) Get(ctx context.Context, id uint) (*domain.Candidate, error) {
	return s.Candidates.Get(ctx, id)
}

func (s *CareersService) List(ctx context.Context, f domain.CandidateFilter) ([]domain.Candidate, error) {
	return s.Candidates.List(ctx, f)
}

func (s *CareersService) UpdateEstado(ctx context.Context, id uint, estado domain.CandidateStatus, notes *string) (*domain.Candidate, error) {
	if !domain.IsValidCandidateStatus(string(estado)) {
		return nil, fmt.Errorf("%w: unknown candidate status %q", domain.ErrInvalidInput, estado)
	}
	return s.Candidates.UpdateEstado(ctx, id, estado, notes)
}

func (s *CareersService) Delete(ctx context.Context, id uint) error {
	return s.Candidates.Delete(ctx, id)
}
