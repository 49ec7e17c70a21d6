package config

import (
	"github.com/threatflux/secureReviewGo/internal/workflow"
	"github.com/threatflux/secureReviewGo/pkg/client"
)

// WorkflowConfig returns the per-session settings of a review
func (c *Config) WorkflowConfig() workflow.Config {
	return workflow.Config{
		DefaultLanguage: c.Workflow.DefaultLanguage,
		ProjectContext:  c.Workflow.ProjectContext,
		ScanProfile:     c.Workflow.ScanProfile,
		RevealInterval:  c.Workflow.RevealInterval,
		Learner:         c.Learner,
	}
}

// ClientOptions returns the options of the analysis service client
func (c *Config) ClientOptions() []client.ClientOption {
	return []client.ClientOption{
		client.WithBaseURL(c.Service.BaseURL),
		client.WithTimeout(c.Service.Timeout),
		client.WithUserAgent(c.Service.UserAgent),
	}
}
