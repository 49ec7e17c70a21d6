package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// GetAttackSimulation fetches the exploitation walkthrough of a scan
func (c *APIClient) GetAttackSimulation(ctx context.Context, scanID string) (*models.AttackSimulation, error) {
	if scanID == "" {
		return nil, fmt.Errorf("scan ID cannot be empty")
	}

	var sim models.AttackSimulation
	if err := c.doRequest(ctx, http.MethodGet, entityPath(APIPathAttackSimulation, scanID), nil, &sim); err != nil {
		return nil, fmt.Errorf("get attack simulation %s: %w", scanID, err)
	}
	return &sim, nil
}

// GetSecureFix generates a fix for one vulnerability
func (c *APIClient) GetSecureFix(ctx context.Context, vulnID string) (*models.SecureFix, error) {
	if vulnID == "" {
		return nil, fmt.Errorf("vulnerability ID cannot be empty")
	}

	var fix models.SecureFix
	if err := c.doRequest(ctx, http.MethodGet, entityPath(APIPathSecureFix, vulnID), nil, &fix); err != nil {
		return nil, fmt.Errorf("get secure fix %s: %w", vulnID, err)
	}
	return &fix, nil
}

// GetCompliance fetches the compliance mapping of a scan
func (c *APIClient) GetCompliance(ctx context.Context, scanID string) (*models.ComplianceReport, error) {
	if scanID == "" {
		return nil, fmt.Errorf("scan ID cannot be empty")
	}

	var report models.ComplianceReport
	if err := c.doRequest(ctx, http.MethodGet, entityPath(APIPathCompliance, scanID), nil, &report); err != nil {
		return nil, fmt.Errorf("get compliance %s: %w", scanID, err)
	}
	return &report, nil
}
