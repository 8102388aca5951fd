package domain

import "time"

type LeadKind string

const (
	LeadKindCompanySetup LeadKind = "company_setup"
	LeadKindBeckham      LeadKind = "beckham"
	LeadKindContact      LeadKind = "contact"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

var LeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost,
}

func IsValidLeadStatus(s string) bool {
	for _, st := range LeadStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

type Lead struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Reference string   `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	Kind      LeadKind `gorm:"size:32;index;not null" json:"kind"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255;index;not null" json:"email"`
	Phone   string `gorm:"size:64" json:"phone,omitempty"`
	Company string `gorm:"size:255" json:"company,omitempty"`
	Country string `gorm:"size:128" json:"country,omitempty"`
	Message string `gorm:"type:text" json:"message,omitempty"`

	// Company setup
	Timeline         string `gorm:"size:64" json:"timeline,omitempty"`
	CompanyStage     string `gorm:"size:64" json:"company_stage,omitempty"`
	EstimatedRevenue int64  `json:"estimated_revenue,omitempty"`
	LandingVariant   string `gorm:"size:64" json:"landing_variant,omitempty"`

	// Ley Beckham
	CurrentCountry string `gorm:"size:128" json:"current_country,omitempty"`
	MoveDate       string `gorm:"size:32" json:"move_date,omitempty"`
	EmploymentType string `gorm:"size:64" json:"employment_type,omitempty"`

	Locale    Locale `gorm:"size:8" json:"locale"`
	Site      string `gorm:"size:32" json:"site"`
	SourceURL string `gorm:"size:2048" json:"source_url,omitempty"`
	Consent   bool   `json:"consent"`

	LeadScore int        `gorm:"not null" json:"lead_score"`
	Priority  Priority   `gorm:"size:16;index;not null" json:"priority"`
	Status    LeadStatus `gorm:"size:16;index;not null" json:"status"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l Lead) Signals() LeadSignals {
	return LeadSignals{
		Timeline:         l.Timeline,
		CompanyStage:     l.CompanyStage,
		EstimatedRevenue: l.EstimatedRevenue,
		LandingVariant:   l.LandingVariant,
	}
}

// Score fills LeadScore and Priority from the lead's own fields.
func (l *Lead) Score() {
	l.LeadScore = ScoreLead(l.Signals())
	l.Priority = PriorityFor(l.LeadScore)
}

type LeadFilter struct {
	Kind     LeadKind
	Priority Priority
	Status   LeadStatus
	Limit    int
	Offset   int
}
