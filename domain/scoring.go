package domain

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	baseLeadScore = 50
	maxLeadScore  = 100
)

// LeadSignals are the submitted fields that move a lead's score.
type LeadSignals struct {
	Timeline         string
	CompanyStage     string
	EstimatedRevenue int64
	LandingVariant   string
}

var timelineBonus = map[string]int{
	"immediate":  30,
	"1-3-months": 15,
	"3-6-months": 5,
}

var companyStageBonus = map[string]int{
	"ready-to-register": 20,
	"planning":          10,
}

// ScoreLead is additive: every bonus is non-negative, so adding a field never
// lowers the score.
func ScoreLead(s LeadSignals) int {
	score := baseLeadScore
	score += timelineBonus[s.Timeline]
	score += companyStageBonus[s.CompanyStage]

	switch {
	case s.EstimatedRevenue > 1_000_000:
		score += 15
	case s.EstimatedRevenue > 500_000:
		score += 10
	}

	if s.LandingVariant != "" {
		score += 5
	}

	if score > maxLeadScore {
		score = maxLeadScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

func PriorityFor(score int) Priority {
	switch {
	case score >= 80:
		return PriorityUrgent
	case score >= 65:
		return PriorityHigh
	case score < 40:
		return PriorityLow
	default:
		return PriorityMedium
	}
}
