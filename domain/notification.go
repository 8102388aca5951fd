package domain

// Notification templates.
const (
	TemplateLeadConfirmation      = "lead_confirmation"
	TemplateLeadStaffAlert        = "lead_staff_alert"
	TemplateCandidateConfirmation = "candidate_confirmation"
	TemplateCandidateStaffAlert   = "candidate_staff_alert"
)

// Notification is one transactional email, queued or sent directly.
type Notification struct {
	Template string            `json:"template"`
	To       []string          `json:"to"`
	ReplyTo  string            `json:"reply_to,omitempty"`
	Locale   Locale            `json:"locale"`
	Data     map[string]string `json:"data"`
}
