package models

// SecureFix is a generated remediation for one vulnerability
type SecureFix struct {
	VulnerabilityID string   `json:"vulnerability_id" validate:"required"`
	OriginalCode    string   `json:"original_code"`
	FixedCode       string   `json:"fixed_code" validate:"required"`
	Explanation     string   `json:"explanation"`
	PreventsAttacks []string `json:"prevents_attacks"`
}

// ComplianceStatus is the outcome of one OWASP category check
type ComplianceStatus string

const (
	CompliancePass ComplianceStatus = "pass"
	ComplianceWarn ComplianceStatus = "warn"
	ComplianceFail ComplianceStatus = "fail"
)

// OWASPCategory is one row of the OWASP mapping
type OWASPCategory struct {
	Status ComplianceStatus `json:"status" validate:"oneof=pass warn fail"`
	Issues int              `json:"issues" validate:"gte=0"`
}

// OWASPReport maps findings onto OWASP Top 10 categories
type OWASPReport struct {
	Mapping         map[string]OWASPCategory `json:"mapping" validate:"dive"`
	TotalCategories int                      `json:"total_categories"`
	Passed          int                      `json:"passed"`
	ComplianceScore int                      `json:"compliance_score"`
}

// ISO27001Report is the ISO-27001 sub-report
type ISO27001Report struct {
	Score          float64 `json:"score" validate:"gte=0,lte=100"`
	Status         string  `json:"status"`
	ControlsPassed int     `json:"controls_passed"`
	ControlsTotal  int     `json:"controls_total"`
}

// NISTReport is the NIST CSF sub-report
type NISTReport struct {
	Score         float64 `json:"score" validate:"gte=0,lte=100"`
	Status        string  `json:"status"`
	Framework     string  `json:"framework"`
	CategoriesMet int     `json:"categories_met"`
}

// GDPRReport is the GDPR sub-report
type GDPRReport struct {
	Compliant                  bool   `json:"compliant"`
	RiskLevel                  string `json:"risk_level"`
	DataProtection             string `json:"data_protection"`
	BreachNotificationRequired bool   `json:"breach_notification_required"`
}

// ComplianceReport is the body of GET /api/compliance/{scanId}
type ComplianceReport struct {
	ScanID   string         `json:"scan_id"`
	OWASP    OWASPReport    `json:"owasp"`
	ISO27001 ISO27001Report `json:"iso27001"`
	NIST     NISTReport     `json:"nist"`
	GDPR     GDPRReport     `json:"gdpr"`
}
