package domain

import "time"

// CandidateStatus is the hiring stage ("estado") staff move an applicant through.
type CandidateStatus string

const (
	CandidateNuevo      CandidateStatus = "nuevo"
	CandidateEnRevision CandidateStatus = "en_revision"
	CandidateEntrevista CandidateStatus = "entrevista"
	CandidateEvaluacion CandidateStatus = "evaluacion"
	CandidateOferta     CandidateStatus = "oferta"
	CandidateContratado CandidateStatus = "contratado"
	CandidateDescartado CandidateStatus = "descartado"
)

var CandidateStatuses = []CandidateStatus{
	CandidateNuevo,
	CandidateEnRevision,
	CandidateEntrevista,
	CandidateEvaluacion,
	CandidateOferta,
	CandidateContratado,
	CandidateDescartado,
}

func IsValidCandidateStatus(s string) bool {
	for _, st := range CandidateStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// IsFinal reports whether the stage closes the application.
func (s CandidateStatus) IsFinal() bool {
	return s == CandidateContratado || s == CandidateDescartado
}

type Candidate struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Email       string          `gorm:"size:255;index;not null" json:"email"`
	Phone       string          `gorm:"size:64" json:"phone,omitempty"`
	Position    string          `gorm:"size:255;index;not null" json:"position"`
	LinkedInURL string          `gorm:"column:linkedin_url;size:512" json:"linkedin_url,omitempty"`
	CoverLetter string          `gorm:"type:text" json:"cover_letter,omitempty"`
	ResumePath  string          `gorm:"size:512" json:"resume_path,omitempty"`
	ResumeMIME  string          `gorm:"column:resume_mime;size:128" json:"resume_mime,omitempty"`
	Estado      CandidateStatus `gorm:"size:20;index;not null" json:"estado"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	Locale      Locale          `gorm:"size:8" json:"locale"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CandidateFilter struct {
	Estado   CandidateStatus
	Position string
	Limit    int
	Offset   int
}
