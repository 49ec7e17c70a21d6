package workflow

import (
	"context"
	"sort"

	"github.com/threatflux/secureReviewGo/internal/handoff"
	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/navigation"
)

// IssueHandoff is the payload passed from the dashboard to the issue view
type IssueHandoff struct {
	Vulnerability models.Vulnerability
	ScanID        string
}

// DashboardView is the report of one scan
type DashboardView struct {
	handoff.Resolution[models.ScanResult]
	ScanID       string
	PostureScore int
	Shares       map[models.Severity]float64
}

// OpenDashboard resolves the scan of entry from the handoff, the store or
// the service, in that order
func (a *App) OpenDashboard(ctx context.Context, entry navigation.Entry) DashboardView {
	scanID := entry.Route.Param(navigation.ParamScanID)

	env := handoff.From[models.ScanResult](entry.State)
	if r, ok := env.Get(); ok && r.ScanID != scanID {
		env = handoff.Empty[models.ScanResult]()
	}

	res := handoff.Resolve(ctx, env, func(ctx context.Context) (models.ScanResult, error) {
		r, err := a.store.Resolve(ctx, scanID)
		if err != nil {
			return models.ScanResult{}, err
		}
		return *r, nil
	})

	view := DashboardView{Resolution: res, ScanID: scanID}
	if !res.Ready() {
		a.logger.WithError(res.Err).WithField("scan_id", scanID).Warn("Scan not available")
		return view
	}

	if res.Source == handoff.SourceHandoff {
		if _, ok := a.store.Get(scanID); !ok {
			r := res.Value
			a.store.Set(&r)
		}
		if stored, ok := a.store.Get(scanID); ok {
			view.Value = *stored
		}
	}

	view.PostureScore = view.Value.PostureScore()
	view.Shares = make(map[models.Severity]float64, len(models.Severities))
	for _, level := range models.Severities {
		view.Shares[level] = view.Value.SeverityShare(level)
	}
	return view
}

// OpenIssue hands the selected finding to the issue view
func (a *App) OpenIssue(scanID string, v models.Vulnerability) (navigation.Entry, error) {
	return a.nav.Navigate(navigation.IssuePath(v.ID), handoff.With(IssueHandoff{Vulnerability: v, ScanID: scanID}))
}

// IssueView is the detail of one finding
type IssueView struct {
	handoff.Resolution[IssueHandoff]
	IssueID string
}

// OpenIssueView resolves the finding of entry. A finding has no standalone
// fetch: without a handoff it can only come from the result in memory.
func (a *App) OpenIssueView(ctx context.Context, entry navigation.Entry) IssueView {
	issueID := entry.Route.Param(navigation.ParamIssueID)

	env := handoff.From[IssueHandoff](entry.State)
	if h, ok := env.Get(); ok && h.Vulnerability.ID != issueID {
		env = handoff.Empty[IssueHandoff]()
	}

	res := handoff.Resolve(ctx, env, func(context.Context) (IssueHandoff, error) {
		current, ok := a.store.Current()
		if !ok {
			return IssueHandoff{}, handoff.ErrEntityNotFound
		}
		v, ok := current.FindVulnerability(issueID)
		if !ok {
			return IssueHandoff{}, handoff.ErrEntityNotFound
		}
		return IssueHandoff{Vulnerability: *v, ScanID: current.ScanID}, nil
	})
	if !res.Ready() {
		a.logger.WithField("issue_id", issueID).Warn("Issue not available")
	}
	return IssueView{Resolution: res, IssueID: issueID}
}

// SecureFixView is a generated fix with the optional finding header
type SecureFixView struct {
	handoff.Resolution[models.SecureFix]
	VulnID        string
	Vulnerability *models.Vulnerability
}

// OpenSecureFix fetches the fix named by entry. A handed-off finding only
// enriches the header.
func (a *App) OpenSecureFix(ctx context.Context, entry navigation.Entry) SecureFixView {
	vulnID := entry.Route.Param(navigation.ParamVulnID)

	res := handoff.Resolve(ctx, handoff.Empty[models.SecureFix](), func(ctx context.Context) (models.SecureFix, error) {
		fix, err := a.svc.GetSecureFix(ctx, vulnID)
		if err != nil {
			return models.SecureFix{}, err
		}
		return *fix, nil
	})

	view := SecureFixView{Resolution: res, VulnID: vulnID}
	if v, ok := handoff.From[models.Vulnerability](entry.State).Get(); ok {
		view.Vulnerability = &v
	} else if h, ok := handoff.From[IssueHandoff](entry.State).Get(); ok {
		view.Vulnerability = &h.Vulnerability
	}
	if !res.Ready() {
		a.logger.WithError(res.Err).WithField("vuln_id", vulnID).Warn("Secure fix not available")
	}
	return view
}

// ComplianceRow is one OWASP category of a compliance view
type ComplianceRow struct {
	Category string
	models.OWASPCategory
}

// ComplianceView is the compliance mapping of a scan
type ComplianceView struct {
	handoff.Resolution[models.ComplianceReport]
	ScanID string
	Rows   []ComplianceRow
}

// OpenCompliance resolves the compliance report of entry. Reports are kept
// for the rest of the session once fetched.
func (a *App) OpenCompliance(ctx context.Context, entry navigation.Entry) ComplianceView {
	scanID := entry.Route.Param(navigation.ParamScanID)

	env := handoff.From[models.ComplianceReport](entry.State)
	if r, ok := env.Get(); ok && r.ScanID != "" && r.ScanID != scanID {
		env = handoff.Empty[models.ComplianceReport]()
	}

	res := handoff.Resolve(ctx, env,
		func(context.Context) (models.ComplianceReport, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			if r, ok := a.compliance[scanID]; ok {
				return *r, nil
			}
			return models.ComplianceReport{}, handoff.ErrEntityNotFound
		},
		func(ctx context.Context) (models.ComplianceReport, error) {
			r, err := a.svc.GetCompliance(ctx, scanID)
			if err != nil {
				return models.ComplianceReport{}, err
			}
			return *r, nil
		},
	)

	view := ComplianceView{Resolution: res, ScanID: scanID}
	if !res.Ready() {
		a.logger.WithError(res.Err).WithField("scan_id", scanID).Warn("Compliance report not available")
		return view
	}

	a.mu.Lock()
	if _, ok := a.compliance[scanID]; !ok {
		r := res.Value
		a.compliance[scanID] = &r
	}
	view.Value = *a.compliance[scanID]
	a.mu.Unlock()

	categories := make([]string, 0, len(view.Value.OWASP.Mapping))
	for c := range view.Value.OWASP.Mapping {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		view.Rows = append(view.Rows, ComplianceRow{Category: c, OWASPCategory: view.Value.OWASP.Mapping[c]})
	}
	return view
}

// EducationView is the lesson catalog with the learner's progress
type EducationView struct {
	handoff.Resolution[[]models.Lesson]
	Progress          models.LearnerProgress
	CompletionPercent int
}

// OpenEducation fetches the lessons. Progress comes from the session config.
func (a *App) OpenEducation(ctx context.Context) EducationView {
	res := handoff.Resolve(ctx, handoff.Empty[[]models.Lesson](), a.svc.GetLessons)
	if !res.Ready() {
		a.logger.WithError(res.Err).Warn("Lessons not available")
	}
	return EducationView{
		Resolution:        res,
		Progress:          a.cfg.Learner,
		CompletionPercent: a.cfg.Learner.CompletionPercent(),
	}
}
