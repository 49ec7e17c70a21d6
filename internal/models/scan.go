package models

import (
	"math"
	"time"
)

// Language is a source language label accepted by the analysis service
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageJava       Language = "java"
	LanguageGo         Language = "go"
	LanguagePHP        Language = "php"
)

// SupportedLanguages lists the languages offered for selection
var SupportedLanguages = []Language{
	LanguagePython,
	LanguageJavaScript,
	LanguageJava,
	LanguageGo,
	LanguagePHP,
}

// IsValidLanguage reports whether l is one of SupportedLanguages
func IsValidLanguage(l Language) bool {
	for _, v := range SupportedLanguages {
		if v == l {
			return true
		}
	}
	return false
}

// ProjectContext describes the deployment context of the scanned code
type ProjectContext string

const (
	ProjectGovernment ProjectContext = "Government"
	ProjectEnterprise ProjectContext = "Enterprise"
	ProjectEducation  ProjectContext = "Education"
	ProjectHealthcare ProjectContext = "Healthcare"
	ProjectFinance    ProjectContext = "Finance"
)

// ScanProfile selects the depth of analysis
type ScanProfile string

const (
	ProfileFast       ScanProfile = "Fast"
	ProfileDeep       ScanProfile = "Deep"
	ProfileCompliance ScanProfile = "Compliance"
	// ProfileDemo makes the service answer with canned explanations
	ProfileDemo ScanProfile = "demo"
)

// Severity is the severity bucket of a finding
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Severities lists the severity buckets from most to least severe
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ScanRequest is the body of POST /api/scan/analyze
type ScanRequest struct {
	Code           string         `json:"code" validate:"required"`
	Language       Language       `json:"language" validate:"required,oneof=python javascript java go php"`
	ProjectContext ProjectContext `json:"project_context" validate:"required,oneof=Government Enterprise Education Healthcare Finance"`
	ScanProfile    ScanProfile    `json:"scan_profile" validate:"required,oneof=Fast Deep Compliance demo"`
}

// Validate checks the request fields
func (r *ScanRequest) Validate() error {
	return validate.Struct(r)
}

// Vulnerability is a single finding owned by a ScanResult
type Vulnerability struct {
	ID              string   `json:"id" validate:"required"`
	Type            string   `json:"type" validate:"required"`
	Severity        Severity `json:"severity" validate:"required,oneof=Critical High Medium Low"`
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description,omitempty"`
	LineNumber      *int     `json:"line_number,omitempty" validate:"omitempty,gt=0"`
	CodeSnippet     *string  `json:"code_snippet,omitempty"`
	AIExplanation   string   `json:"ai_explanation"`
	ConfidenceScore float64  `json:"confidence_score" validate:"gte=0,lte=1"`
	PolicyMappings  []string `json:"policy_mappings"`
	Recommendation  string   `json:"recommendation"`
}

// ConfidencePercent returns the confidence score as a rounded percentage
func (v *Vulnerability) ConfidencePercent() int {
	return int(math.Round(v.ConfidenceScore * 100))
}

// ScanResult is the structured outcome of one analysis request
type ScanResult struct {
	ID              string          `json:"id,omitempty"`
	ScanID          string          `json:"scan_id" validate:"required"`
	Timestamp       time.Time       `json:"timestamp"`
	Language        Language        `json:"language,omitempty"`
	ProjectContext  ProjectContext  `json:"project_context,omitempty"`
	ScanProfile     ScanProfile     `json:"scan_profile,omitempty"`
	TotalIssues     int             `json:"total_issues" validate:"gte=0"`
	CriticalCount   int             `json:"critical_count" validate:"gte=0"`
	HighCount       int             `json:"high_count" validate:"gte=0"`
	MediumCount     int             `json:"medium_count" validate:"gte=0"`
	LowCount        int             `json:"low_count" validate:"gte=0"`
	RiskScore       float64         `json:"risk_score" validate:"gte=0"`
	DeploymentReady bool            `json:"deployment_ready"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities" validate:"dive"`
}

// Count returns the server-reported count for a severity bucket
func (r *ScanResult) Count(level Severity) int {
	switch level {
	case SeverityCritical:
		return r.CriticalCount
	case SeverityHigh:
		return r.HighCount
	case SeverityMedium:
		return r.MediumCount
	case SeverityLow:
		return r.LowCount
	default:
		return 0
	}
}

// SeverityShare returns count(level)/total, or 0 when there are no issues
func (r *ScanResult) SeverityShare(level Severity) float64 {
	if r.TotalIssues == 0 {
		return 0
	}
	return float64(r.Count(level)) / float64(r.TotalIssues)
}

// PostureScore returns max(0, 100 - round(risk score))
func (r *ScanResult) PostureScore() int {
	score := 100 - int(math.Round(r.RiskScore))
	if score < 0 {
		return 0
	}
	return score
}

// FindVulnerability looks up a finding by id
func (r *ScanResult) FindVulnerability(id string) (*Vulnerability, bool) {
	for i := range r.Vulnerabilities {
		if r.Vulnerabilities[i].ID == id {
			return &r.Vulnerabilities[i], true
		}
	}
	return nil, false
}

// Normalize derives DeploymentReady from the critical count.
// It returns true when the server-provided value disagreed.
func (r *ScanResult) Normalize() bool {
	ready := r.CriticalCount == 0
	changed := r.DeploymentReady != ready
	r.DeploymentReady = ready
	return changed
}
