package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nrro-site/domain"
	"nrro-site/infrastructure"
)

func TestProposalService(t *testing.T) {
	svc := &ProposalService{Proposals: infrastructure.NewProposalRepository(newTestDB(t))}
	ctx := context.Background()

	p := &domain.Proposal{ClientName: "Acme SL", Service: "Contabilidad mensual", FeeCents: 45000, Currency: "eur"}
	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, domain.ProposalDraft, p.Status)

	updated, err := svc.Update(ctx, p.ID, domain.Proposal{ClientName: "Acme SL", Service: "Contabilidad mensual", FeeCents: 50000, Status: domain.ProposalAccepted})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "EUR", updated.Currency)

	accepted, err := svc.List(ctx, domain.ProposalAccepted, 0, 0)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, int64(50000), accepted[0].FeeCents)

	_, err = svc.Update(ctx, p.ID, domain.Proposal{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Update(ctx, 999, domain.Proposal{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Create(ctx, &domain.Proposal{ClientName: "B", Service: "x", FeeCents: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
