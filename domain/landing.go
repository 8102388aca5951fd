package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
)

func IsValidPublishStatus(s string) bool {
	return s == string(StatusDraft) || s == string(StatusPublished)
}

type LandingPage struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Slug            string         `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Variant         string         `gorm:"size:64" json:"variant"`
	Title           LocalizedText  `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	MetaTitle       LocalizedText  `gorm:"embedded;embeddedPrefix:meta_title_" json:"meta_title"`
	MetaDescription LocalizedText  `gorm:"embedded;embeddedPrefix:meta_description_" json:"meta_description"`
	Sections        datatypes.JSON `json:"sections"`
	Status          PublishStatus  `gorm:"size:16;index;not null" json:"status"`
	InternalNotes   string         `gorm:"type:text" json:"internal_notes,omitempty"`
	Version         int            `gorm:"not null" json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (p LandingPage) IsPublished() bool { return p.Status == StatusPublished }

// LandingVersion is a full-row copy of a landing page taken before an update.
type LandingVersion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	LandingPageID uint           `gorm:"index;not null" json:"landing_page_id"`
	Version       int            `gorm:"not null" json:"version"`
	Snapshot      datatypes.JSON `json:"snapshot"`
	ChangeSummary string         `gorm:"size:1024" json:"change_summary"`
	CreatedBy     string         `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// LandingUpdateResult reports what an update did. Snapshot is nil when no
// tracked field changed.
type LandingUpdateResult struct {
	Page     *LandingPage
	Snapshot *LandingVersion
}

// LandingUpdate holds the fields an editor submitted; nil means untouched.
type LandingUpdate struct {
	Slug            *string         `json:"slug"`
	Variant         *string         `json:"variant"`
	Title           *LocalizedText  `json:"title"`
	MetaTitle       *LocalizedText  `json:"meta_title"`
	MetaDescription *LocalizedText  `json:"meta_description"`
	Sections        json.RawMessage `json:"sections"`
	Status          *PublishStatus  `json:"status"`
	InternalNotes   *string         `json:"internal_notes"`
}

type LandingDiff struct {
	Changed []string
}

func (d LandingDiff) ShouldSnapshot() bool { return len(d.Changed) > 0 }

func (d LandingDiff) Summary() string {
	if len(d.Changed) == 0 {
		return ""
	}
	return "Changed: " + strings.Join(d.Changed, ", ")
}

// DiffLanding compares the tracked fields of current against upd. Status and
// internal notes are not tracked and never trigger a snapshot.
func DiffLanding(current LandingPage, upd LandingUpdate) LandingDiff {
	var changed []string

	if upd.Slug != nil && *upd.Slug != current.Slug {
		changed = append(changed, "slug")
	}
	if upd.Variant != nil && *upd.Variant != current.Variant {
		changed = append(changed, "variant")
	}
	changed = appendLocalizedDiff(changed, "title", current.Title, upd.Title)
	changed = appendLocalizedDiff(changed, "meta_title", current.MetaTitle, upd.MetaTitle)
	changed = appendLocalizedDiff(changed, "meta_description", current.MetaDescription, upd.MetaDescription)

	if upd.hasSections() && !jsonEqual(current.Sections, upd.Sections) {
		changed = append(changed, "sections")
	}

	return LandingDiff{Changed: changed}
}

func appendLocalizedDiff(changed []string, field string, cur LocalizedText, next *LocalizedText) []string {
	if next == nil {
		return changed
	}
	for _, l := range Locales {
		if cur.Get(l) != next.Get(l) {
			changed = append(changed, field+"."+string(l))
		}
	}
	return changed
}

// jsonEqual compares compacted encodings byte for byte. Key order is significant.
func jsonEqual(a, b []byte) bool {
	return bytes.Equal(compactJSON(a), compactJSON(b))
}

func compactJSON(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return bytes.TrimSpace(raw)
	}
	return buf.Bytes()
}

func (upd LandingUpdate) hasSections() bool {
	return len(upd.Sections) > 0 && string(compactJSON(upd.Sections)) != "null"
}

// Apply writes every non-nil field of upd into p.
func (upd LandingUpdate) Apply(p *LandingPage) {
	if upd.Slug != nil {
		p.Slug = *upd.Slug
	}
	if upd.Variant != nil {
		p.Variant = *upd.Variant
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.MetaTitle != nil {
		p.MetaTitle = *upd.MetaTitle
	}
	if upd.MetaDescription != nil {
		p.MetaDescription = *upd.MetaDescription
	}
	if upd.hasSections() {
		p.Sections = datatypes.JSON(compactJSON(upd.Sections))
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.InternalNotes != nil {
		p.InternalNotes = *upd.InternalNotes
	}
}

// ValidateSections requires a JSON array of blocks; the blocks themselves are free-form.
func ValidateSections(raw json.RawMessage) error {
	if len(raw) == 0 || string(compactJSON(raw)) == "null" {
		return nil
	}
	var blocks []json.RawMessage
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return fmt.Errorf("%w: sections must be a JSON array", ErrInvalidInput)
	}
	return nil
}

// NormalizeSections stores absent or null sections as an empty array and
// compacts the rest.
func NormalizeSections(raw []byte) datatypes.JSON {
	c := compactJSON(raw)
	if len(c) == 0 || string(c) == "null" {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(c)
}

// SnapshotOf serializes the whole row for a LandingVersion.
func SnapshotOf(p LandingPage) (datatypes.JSON, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// UpdateFromSnapshot rebuilds the content fields stored in a version snapshot
// as an update over the live row.
func UpdateFromSnapshot(snapshot datatypes.JSON) (LandingUpdate, error) {
	var p LandingPage
	if err := json.Unmarshal(snapshot, &p); err != nil {
		return LandingUpdate{}, fmt.Errorf("decode snapshot: %w", err)
	}
	sections := json.RawMessage(p.Sections)
	if sections == nil {
		sections = json.RawMessage("[]")
	}
	return LandingUpdate{
		Slug:            &p.Slug,
		Variant:         &p.Variant,
		Title:           &p.Title,
		MetaTitle:       &p.MetaTitle,
		MetaDescription: &p.MetaDescription,
		Sections:        sections,
	}, nil
}
