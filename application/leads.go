package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

type LeadStore interface {
	Create(ctx context.Context, lead *domain.Lead) error
	Get(ctx context.Context, id uint) (*domain.Lead, error)
	List(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error)
	UpdateStatus(ctx context.Context, id uint, status domain.LeadStatus, notes *string) (*domain.Lead, error)
}

type LeadService struct {
	Leads       LeadStore
	Notify      Dispatcher
	StaffEmails []string
	Log         logrus.FieldLogger
}

// Submit scores and stores a form submission, then tells the submitter and staff.
func (s *LeadService) Submit(ctx context.Context, lead *domain.Lead) error {
	lead.Reference = uuid.NewString()
	lead.Status = domain.LeadStatusNew
	if _, ok := domain.ParseLocale(string(lead.Locale)); !ok {
		lead.Locale = domain.LocaleES
	}
	lead.Score()

	if err := s.Leads.Create(ctx, lead); err != nil {
		return fmt.Errorf("store lead: %w", err)
	}

	s.Log.WithFields(logrus.Fields{
		"lead_id":  lead.ID,
		"kind":     lead.Kind,
		"score":    lead.LeadScore,
		"priority": lead.Priority,
	}).Info("lead received")

	data := map[string]string{
		"reference": lead.Reference,
		"kind":      string(lead.Kind),
		"name":      lead.Name,
		"email":     lead.Email,
		"phone":     lead.Phone,
		"company":   lead.Company,
		"message":   lead.Message,
		"score":     strconv.Itoa(lead.LeadScore),
		"priority":  string(lead.Priority),
	}
	notifyAll(ctx, s.Notify, s.Log,
		domain.Notification{
			Template: domain.TemplateLeadConfirmation,
			To:       []string{lead.Email},
			Locale:   lead.Locale,
			Data:     data,
		},
		domain.Notification{
			Template: domain.TemplateLeadStaffAlert,
			To:       s.StaffEmails,
			ReplyTo:  lead.Email,
			Locale:   domain.LocaleES,
			Data:     data,
		},
	)
	return nil
}

func (s *LeadService) Get(ctx context.Context, id uint) (*domain.Lead, error) {
	return s.Leads.Get(ctx, id)
}

func (s *LeadService) List(ctx context.Context, f domain.LeadFilter) ([]domain.Lead, error) {
	return s.Leads.List(ctx, f)
}

func (s *LeadService) UpdateStatus(ctx context.Context, id uint, status domain.LeadStatus, notes *string) (*domain.Lead, error) {
	if !domain.IsValidLeadStatus(string(status)) {
		return nil, fmt.Errorf("%w: unknown lead status %q", domain.ErrInvalidInput, status)
	}
	return s.Leads.UpdateStatus(ctx, id, status, notes)
}
