package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	// ErrInvariantViolation is returned when a service payload contradicts the data model
	ErrInvariantViolation = errors.New("payload violates data model invariant")
)

// Validate checks field constraints and the severity partition of a scan result.
// Every vulnerability must land in exactly one severity bucket and the bucket
// counts must add up to TotalIssues, which must equal len(Vulnerabilities).
func (r *ScanResult) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	sum := r.CriticalCount + r.HighCount + r.MediumCount + r.LowCount
	if sum != r.TotalIssues {
		return fmt.Errorf("%w: severity counts sum to %d, total_issues is %d", ErrInvariantViolation, sum, r.TotalIssues)
	}
	if len(r.Vulnerabilities) != r.TotalIssues {
		return fmt.Errorf("%w: %d vulnerabilities listed, total_issues is %d", ErrInvariantViolation, len(r.Vulnerabilities), r.TotalIssues)
	}

	observed := make(map[Severity]int, len(Severities))
	for _, v := range r.Vulnerabilities {
		observed[v.Severity]++
	}
	for _, level := range Severities {
		if observed[level] != r.Count(level) {
			return fmt.Errorf("%w: %d %s findings listed, %s count is %d",
				ErrInvariantViolation, observed[level], level, level, r.Count(level))
		}
	}

	return nil
}

// Validate checks the stage list of a simulation; stage numbers are 1-based positions
func (s *AttackSimulation) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	for i, stage := range s.Stages {
		if stage.Index != i+1 {
			return fmt.Errorf("%w: stage at position %d is numbered %d", ErrInvariantViolation, i+1, stage.Index)
		}
	}
	return nil
}

// Validate checks a generated fix
func (f *SecureFix) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	return nil
}

// Validate checks a compliance report
func (c *ComplianceReport) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	return nil
}
