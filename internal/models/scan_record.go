package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ScanRecord persists a finished scan result so later simulation, fix and
// compliance requests can be answered from it.
type ScanRecord struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	ScanID    string    `json:"scan_id" gorm:"uniqueIndex;size:64;not null"`
	Language  Language  `json:"language" gorm:"size:32"`
	Critical  int       `json:"critical_count"`
	High      int       `json:"high_count"`
	Total     int       `json:"total_issues"`
	RiskScore float64   `json:"risk_score"`
	Payload   string    `json:"-" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default table name
func (ScanRecord) TableName() string {
	return "scan_records"
}

// NewScanRecord serializes r into a record
func NewScanRecord(r *ScanResult) (*ScanRecord, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan result: %w", err)
	}
	return &ScanRecord{
		ScanID:    r.ScanID,
		Language:  r.Language,
		Critical:  r.CriticalCount,
		High:      r.HighCount,
		Total:     r.TotalIssues,
		RiskScore: r.RiskScore,
		Payload:   string(payload),
	}, nil
}

// Result decodes the stored payload
func (s *ScanRecord) Result() (*ScanResult, error) {
	var r ScanResult
	if err := json.Unmarshal([]byte(s.Payload), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scan payload: %w", err)
	}
	return &r, nil
}
