package domain

import "time"

type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "draft"
	ProposalSent     ProposalStatus = "sent"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

func IsValidProposalStatus(s string) bool {
	switch ProposalStatus(s) {
	case ProposalDraft, ProposalSent, ProposalAccepted, ProposalRejected:
		return true
	}
	return false
}

type Proposal struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ClientName  string         `gorm:"size:255;not null" json:"client_name"`
	ClientEmail string         `gorm:"size:255" json:"client_email,omitempty"`
	Company     string         `gorm:"size:255" json:"company,omitempty"`
	Service     string         `gorm:"size:255;not null" json:"service"`
	FeeCents    int64          `json:"fee_cents"`
	Currency    string         `gorm:"size:3;not null" json:"currency"`
	Status      ProposalStatus `gorm:"size:16;index;not null" json:"status"`
	Content     string         `gorm:"type:text" json:"content,omitempty"`
	ValidUntil  *time.Time     `json:"valid_until,omitempty"`
	LeadID      *uint          `gorm:"index" json:"lead_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
