package application

import (
	"context"
	"fmt"
	"strings"

	"nrro-site/domain"
)

type ProposalStore interface {
	Create(ctx context.Context, p *domain.Proposal) error
	Get(ctx context.Context, id uint) (*domain.Proposal, error)
	Save(ctx context.Context, p *domain.Proposal) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status domain.ProposalStatus, limit, offset int) ([]domain.Proposal, error)
}

type ProposalService struct {
	Proposals ProposalStore
}

func (s *ProposalService) Create(ctx context.Context, p *domain.Proposal) error {
	if err := normalizeProposal(p); err != nil {
		return err
	}
	return s.Proposals.Create(ctx, p)
}

func (s *ProposalService) Update(ctx context.Context, id uint, in domain.Proposal) (*domain.Proposal, error) {
	p, err := s.Proposals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ID = p.ID
	in.CreatedAt = p.CreatedAt
	if err := normalizeProposal(&in); err != nil {
		return nil, err
	}
	if err := s.Proposals.Save(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *ProposalService) Get(ctx context.Context, id uint) (*domain.Proposal, error) {
	return s.Proposals.Get(ctx, id)
}

func (s *ProposalService) List(ctx context.Context, status domain.ProposalStatus, limit, offset int) ([]domain.Proposal, error) {
	return s.Proposals.List(ctx, status, limit, offset)
}

func (s *ProposalService) Delete(ctx context.Context, id uint) error {
	return s.Proposals.Delete(ctx, id)
}

func normalizeProposal(p *domain.Proposal) error {
	if p.Status == "" {
		p.Status = domain.ProposalDraft
	}
	if !domain.IsValidProposalStatus(string(p.Status)) {
		return fmt.Errorf("%w: unknown proposal status %q", domain.ErrInvalidInput, p.Status)
	}
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if len(p.Currency) != 3 {
		return fmt.Errorf("%w: currency must be an ISO 4217 code", domain.ErrInvalidInput)
	}
	if p.FeeCents < 0 {
		return fmt.Errorf("%w: fee cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}
