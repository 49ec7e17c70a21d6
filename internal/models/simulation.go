package models

// StageStatus is the outcome tone of a kill-chain stage
type StageStatus string

const (
	StageNeutral StageStatus = "neutral"
	StageSuccess StageStatus = "success"
	StageWarning StageStatus = "warning"
	StageDanger  StageStatus = "danger"
)

// Stage is one step of an ordered exploitation narrative
type Stage struct {
	Index       int         `json:"stage" validate:"gt=0"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Status      StageStatus `json:"status"`
	Icon        string      `json:"icon"`
}

// EffectiveStatus maps unknown statuses to neutral
func (s Stage) EffectiveStatus() StageStatus {
	switch s.Status {
	case StageSuccess, StageWarning, StageDanger:
		return s.Status
	default:
		return StageNeutral
	}
}

// AttackSimulation is the body of GET /api/attack-simulation/{scanId}
type AttackSimulation struct {
	ScanID                 string  `json:"scan_id"`
	FeasibilityScore       float64 `json:"feasibility_score" validate:"gte=0,lte=10"`
	EstimatedTimeToExploit string  `json:"estimated_time_to_exploit"`
	SkillLevelRequired     string  `json:"skill_level_required"`
	ImpactSummary          string  `json:"impact_summary"`
	CitizenImpact          string  `json:"citizen_impact"`
	Stages                 []Stage `json:"stages" validate:"dive"`
}
