package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// AnalyzeScan submits code for analysis and returns the new scan result
func (c *APIClient) AnalyzeScan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	if req == nil {
		return nil, fmt.Errorf("scan request cannot be nil")
	}

	var result models.ScanResult
	if err := c.doRequest(ctx, http.MethodPost, APIPathScanAnalyze, req, &result); err != nil {
		return nil, fmt.Errorf("analyze scan: %w", err)
	}
	return &result, nil
}

// GetScan fetches a previously produced scan result by id
func (c *APIClient) GetScan(ctx context.Context, scanID string) (*models.ScanResult, error) {
	if scanID == "" {
		return nil, fmt.Errorf("scan ID cannot be empty")
	}

	var result models.ScanResult
	if err := c.doRequest(ctx, http.MethodGet, entityPath(APIPathScan, scanID), nil, &result); err != nil {
		return nil, fmt.Errorf("get scan %s: %w", scanID, err)
	}
	return &result, nil
}
