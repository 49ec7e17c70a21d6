package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// GetSampleCode fetches the vulnerable sample for each language
func (c *APIClient) GetSampleCode(ctx context.Context) (models.SampleCode, error) {
	samples := make(models.SampleCode)
	if err := c.doRequest(ctx, http.MethodGet, APIPathSampleCode, nil, &samples); err != nil {
		return nil, fmt.Errorf("get sample code: %w", err)
	}
	return samples, nil
}

// GetLessons fetches the education catalog
func (c *APIClient) GetLessons(ctx context.Context) ([]models.Lesson, error) {
	var resp models.LessonsResponse
	if err := c.doRequest(ctx, http.MethodGet, APIPathLessons, nil, &resp); err != nil {
		return nil, fmt.Errorf("get lessons: %w", err)
	}
	return resp.Lessons, nil
}
