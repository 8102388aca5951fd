package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func strp(s string) *string { return &s }

func sampleLanding() LandingPage {
	return LandingPage{
		ID:       7,
		Slug:     "constitucion-empresa",
		Variant:  "startup",
		Title:    LocalizedText{ES: "Crea tu empresa", CA: "Crea la teva empresa", EN: "Set up your company"},
		Sections: datatypes.JSON(`[{"type":"hero","title":"Hola"}]`),
		Status:   StatusDraft,
		Version:  3,
	}
}

func TestDiffLandingNoChange(t *testing.T) {
	cur := sampleLanding()
	title := cur.Title
	d := DiffLanding(cur, LandingUpdate{
		Slug:     strp(cur.Slug),
		Title:    &title,
		Sections: json.RawMessage(`[ {"type": "hero", "title": "Hola"} ]`),
	})
	assert.False(t, d.ShouldSnapshot())
	assert.Empty(t, d.Summary())
}

func TestDiffLandingTrackedFields(t *testing.T) {
	cur := sampleLanding()
	title := cur.Title
	title.CA = "Munta la teva empresa"

	d := DiffLanding(cur, LandingUpdate{
		Title:    &title,
		Sections: json.RawMessage(`[{"type":"hero","title":"Hola!"}]`),
		Variant:  strp("premium"),
	})
	require.True(t, d.ShouldSnapshot())
	assert.Equal(t, []string{"variant", "title.ca", "sections"}, d.Changed)
	assert.Equal(t, "Changed: variant, title.ca, sections", d.Summary())
}

func TestDiffLandingKeyOrderIsAChange(t *testing.T) {
	cur := sampleLanding()
	d := DiffLanding(cur, LandingUpdate{Sections: json.RawMessage(`[{"title":"Hola","type":"hero"}]`)})
	assert.True(t, d.ShouldSnapshot())
}

func TestDiffLandingUntrackedFields(t *testing.T) {
	cur := sampleLanding()
	published := StatusPublished
	d := DiffLanding(cur, LandingUpdate{Status: &published, InternalNotes: strp("ready for review")})
	assert.False(t, d.ShouldSnapshot())
}

func TestDiffLandingNullSectionsIgnored(t *testing.T) {
	cur := sampleLanding()
	d := DiffLanding(cur, LandingUpdate{Sections: json.RawMessage(`null`)})
	assert.False(t, d.ShouldSnapshot())
}

func TestLandingUpdateApply(t *testing.T) {
	p := sampleLanding()
	published := StatusPublished
	LandingUpdate{
		Slug:     strp("nueva"),
		Sections: json.RawMessage("[ 1, 2 ]"),
		Status:   &published,
	}.Apply(&p)

	assert.Equal(t, "nueva", p.Slug)
	assert.Equal(t, "[1,2]", string(p.Sections))
	assert.Equal(t, StatusPublished, p.Status)
	assert.Equal(t, "startup", p.Variant)
}

func TestValidateSections(t *testing.T) {
	assert.NoError(t, ValidateSections(nil))
	assert.NoError(t, ValidateSections(json.RawMessage(`[]`)))
	assert.ErrorIs(t, ValidateSections(json.RawMessage(`{"type":"hero"}`)), ErrInvalidInput)
	assert.ErrorIs(t, ValidateSections(json.RawMessage(`"x"`)), ErrInvalidInput)
}

func TestSnapshotRoundTrip(t *testing.T) {
	p := sampleLanding()
	snap, err := SnapshotOf(p)
	require.NoError(t, err)

	upd, err := UpdateFromSnapshot(snap)
	require.NoError(t, err)
	assert.False(t, DiffLanding(p, upd).ShouldSnapshot())

	var q LandingPage
	upd.Apply(&q)
	assert.Equal(t, p.Slug, q.Slug)
	assert.Equal(t, p.Title, q.Title)
	assert.JSONEq(t, string(p.Sections), string(q.Sections))
}

func TestNormalizeSections(t *testing.T) {
	assert.Equal(t, "[]", string(NormalizeSections(nil)))
	assert.Equal(t, "[]", string(NormalizeSections([]byte(" null "))))
	assert.Equal(t, `[{"type":"hero"}]`, string(NormalizeSections([]byte(`[ {"type": "hero"} ]`))))
}
