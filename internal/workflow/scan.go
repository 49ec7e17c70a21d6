package workflow

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/threatflux/secureReviewGo/internal/classifier"
	"github.com/threatflux/secureReviewGo/internal/handoff"
	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/navigation"
)

// ScanForm is the state of the scan editor
type ScanForm struct {
	Code           string
	Language       models.Language
	Detected       models.Language
	ProjectContext models.ProjectContext
	ScanProfile    models.ScanProfile

	explicit bool
}

// NewScanForm returns an empty form with the session defaults
func (a *App) NewScanForm() *ScanForm {
	return &ScanForm{
		Language:       a.cfg.DefaultLanguage,
		ProjectContext: a.cfg.ProjectContext,
		ScanProfile:    a.cfg.ScanProfile,
	}
}

// SetCode replaces the editor text and re-runs language detection
func (f *ScanForm) SetCode(code string) {
	f.Code = code
	if utf8.RuneCountInString(code) > classifier.MinClassifyLength {
		f.Detected = classifier.Classify(code, f.Language)
	}
}

// SelectLanguage records an explicit language choice
func (f *ScanForm) SelectLanguage(lang models.Language) {
	f.Language = lang
	f.explicit = true
}

// EffectiveLanguage is the language sent with the request. An explicit
// selection wins over detection.
func (f *ScanForm) EffectiveLanguage() models.Language {
	if f.explicit || f.Detected == "" {
		return f.Language
	}
	return f.Detected
}

// DetectedHint returns the detected language when it differs from the selection
func (f *ScanForm) DetectedHint() (models.Language, bool) {
	if f.Detected == "" || f.Detected == f.Language {
		return "", false
	}
	return f.Detected, true
}

// Stats returns the line and character counts of the editor text
func (f *ScanForm) Stats() (lines, chars int) {
	if f.Code == "" {
		return 0, 0
	}
	return strings.Count(f.Code, "\n") + 1, utf8.RuneCountInString(f.Code)
}

// IsDemo reports whether the demo profile is selected
func (f *ScanForm) IsDemo() bool {
	return f.ScanProfile == models.ProfileDemo
}

// Request builds the scan request
func (f *ScanForm) Request() *models.ScanRequest {
	return &models.ScanRequest{
		Code:           f.Code,
		Language:       f.EffectiveLanguage(),
		ProjectContext: f.ProjectContext,
		ScanProfile:    f.ScanProfile,
	}
}

// LoadDemoCode fills the editor with the vulnerable sample of the selected
// language, falling back to the python sample
func (a *App) LoadDemoCode(ctx context.Context, f *ScanForm) error {
	samples, err := a.svc.GetSampleCode(ctx)
	if err != nil {
		a.logger.WithError(err).Error("Failed to load demo code")
		return fmt.Errorf("failed to load demo code: %w", err)
	}
	code, ok := samples.For(f.Language)
	if !ok {
		return fmt.Errorf("no sample code available for %s", f.Language)
	}
	f.Code = code
	f.Detected = f.Language
	return nil
}

// SubmitScan runs the scan and, on success, navigates to its dashboard
// handing the result off
func (a *App) SubmitScan(ctx context.Context, f *ScanForm) (navigation.Entry, error) {
	result, err := a.machine.Submit(ctx, f.Request())
	if err != nil {
		return navigation.Entry{}, err
	}
	return a.nav.Navigate(navigation.DashboardPath(result.ScanID), handoff.With(*result))
}
