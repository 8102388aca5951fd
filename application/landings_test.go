package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nrro-site/domain"
	"nrro-site/infrastructure"
)

func newLandingService(t *testing.T) *LandingService {
	return &LandingService{
		Landings: infrastructure.NewLandingRepository(newTestDB(t)),
		Log:      testLogger(),
	}
}

func TestLandingCreateDefaults(t *testing.T) {
	svc := newLandingService(t)
	p := &domain.LandingPage{Title: domain.LocalizedText{ES: "Ley Beckham: guía 2025"}}
	require.NoError(t, svc.Create(context.Background(), p))

	assert.Equal(t, "ley-beckham-guia-2025", p.Slug)
	assert.Equal(t, domain.StatusDraft, p.Status)
	assert.Equal(t, 1, p.Version)
	assert.JSONEq(t, `[]`, string(p.Sections))

	err := svc.Create(context.Background(), &domain.LandingPage{Slug: "x", Sections: []byte(`{"hero":true}`)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLandingUpdateAndRestore(t *testing.T) {
	svc := newLandingService(t)
	ctx := context.Background()

	p := &domain.LandingPage{
		Slug:     "constitucion-empresa",
		Title:    domain.LocalizedText{ES: "Constituye tu empresa"},
		Sections: []byte(`[{"type":"hero"}]`),
	}
	require.NoError(t, svc.Create(ctx, p))

	res, err := svc.Update(ctx, p.ID, domain.LandingUpdate{Sections: json.RawMessage(`[{"type":"hero"},{"type":"faq"}]`)}, 1, "ana")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, "Changed: sections", res.Snapshot.ChangeSummary)
	assert.Equal(t, 2, res.Page.Version)

	// Whitespace-only differences in sections are not a change.
	res, err = svc.Update(ctx, p.ID, domain.LandingUpdate{Sections: json.RawMessage(`[ {"type": "hero"}, {"type": "faq"} ]`)}, 2, "ana")
	require.NoError(t, err)
	assert.Nil(t, res.Snapshot)

	_, err = svc.Update(ctx, p.ID, domain.LandingUpdate{Sections: json.RawMessage(`[]`)}, 1, "bob")
	assert.ErrorIs(t, err, domain.ErrConflict)

	res, err = svc.Restore(ctx, p.ID, 1, "ana")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, 3, res.Page.Version)
	assert.JSONEq(t, `[{"type":"hero"}]`, string(res.Page.Sections))

	versions, err := svc.Versions(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, 1, versions[1].Version)

	_, err = svc.Restore(ctx, p.ID, 9, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLandingUpdateValidation(t *testing.T) {
	svc := newLandingService(t)
	ctx := context.Background()
	p := &domain.LandingPage{Slug: "beckham"}
	require.NoError(t, svc.Create(ctx, p))

	empty := "!!!"
	_, err := svc.Update(ctx, p.ID, domain.LandingUpdate{Slug: &empty}, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := domain.PublishStatus("archived")
	_, err = svc.Update(ctx, p.ID, domain.LandingUpdate{Status: &bad}, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Update(ctx, p.ID, domain.LandingUpdate{Sections: json.RawMessage(`"text"`)}, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLandingPublishedOnly(t *testing.T) {
	svc := newLandingService(t)
	ctx := context.Background()
	p := &domain.LandingPage{Slug: "beckham"}
	require.NoError(t, svc.Create(ctx, p))

	_, err := svc.Published(ctx, "beckham")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	published := domain.StatusPublished
	_, err = svc.Update(ctx, p.ID, domain.LandingUpdate{Status: &published}, 0, "")
	require.NoError(t, err)

	got, err := svc.Published(ctx, "beckham")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestLandingCreateNullSections(t *testing.T) {
	svc := newLandingService(t)
	ctx := context.Background()

	p := &domain.LandingPage{Slug: "nie-espana", Sections: []byte(`null`)}
	require.NoError(t, svc.Create(ctx, p))

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(stored.Sections))
}
