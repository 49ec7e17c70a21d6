package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/workflow"
)

// ScanForm prints the editor summary before submission
func ScanForm(w io.Writer, f *workflow.ScanForm) {
	lines, chars := f.Stats()
	heading(w, "Scan")
	fmt.Fprintf(w, "Language: %s", f.EffectiveLanguage())
	if hint, ok := f.DetectedHint(); ok {
		_, _ = muted.Fprintf(w, "  (detected: %s)", hint)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Context:  %s\n", f.ProjectContext)
	fmt.Fprintf(w, "Profile:  %s", f.ScanProfile)
	if f.IsDemo() {
		_, _ = warn.Fprint(w, "  [DEMO]")
	}
	fmt.Fprintln(w)
	_, _ = muted.Fprintf(w, "%d lines, %d characters\n", lines, chars)
}

// Dashboard prints the report of one scan
func Dashboard(w io.Writer, v workflow.DashboardView) {
	if !v.Ready() {
		NotAvailable(w, "Scan "+v.ScanID, v.Err, v.Actions)
		return
	}
	r := v.Value
	heading(w, "Scan report "+r.ScanID)
	fmt.Fprintf(w, "Security posture: %d/100   Risk score: %.1f\n", v.PostureScore, r.RiskScore)
	if r.DeploymentReady {
		_, _ = good.Fprintln(w, "Deployment ready")
	} else {
		_, _ = danger.Fprintln(w, "Deployment blocked: critical findings present")
	}

	for _, level := range models.Severities {
		c := SeverityColor(level)
		_, _ = c.Fprintf(w, "  %-8s", level)
		fmt.Fprintf(w, " %3d  %5.1f%%\n", r.Count(level), v.Shares[level]*100)
	}

	if len(r.Vulnerabilities) == 0 {
		_, _ = good.Fprintln(w, "\nNo vulnerabilities found")
		return
	}
	fmt.Fprintln(w)
	for i := range r.Vulnerabilities {
		vuln := &r.Vulnerabilities[i]
		_, _ = SeverityColor(vuln.Severity).Fprintf(w, "[%s]", vuln.Severity)
		fmt.Fprintf(w, " %s %s", vuln.ID, vuln.Title)
		if vuln.LineNumber != nil {
			_, _ = muted.Fprintf(w, " (line %d)", *vuln.LineNumber)
		}
		fmt.Fprintln(w)
	}
}

// Issue prints the detail of one finding
func Issue(w io.Writer, v workflow.IssueView) {
	if !v.Ready() {
		NotAvailable(w, "Issue "+v.IssueID, v.Err, v.Actions)
		return
	}
	vuln := v.Value.Vulnerability
	heading(w, vuln.Title)
	_, _ = SeverityColor(vuln.Severity).Fprintf(w, "%s", vuln.Severity)
	fmt.Fprintf(w, "  %s  confidence %d%%\n", vuln.Type, vuln.ConfidencePercent())
	if vuln.LineNumber != nil {
		fmt.Fprintf(w, "Line: %d\n", *vuln.LineNumber)
	}
	if vuln.CodeSnippet != nil && *vuln.CodeSnippet != "" {
		_, _ = muted.Fprintf(w, "  %s\n", *vuln.CodeSnippet)
	}
	if vuln.AIExplanation != "" {
		fmt.Fprintf(w, "\n%s\n", vuln.AIExplanation)
	}
	if len(vuln.PolicyMappings) > 0 {
		fmt.Fprintf(w, "Policies: %s\n", strings.Join(vuln.PolicyMappings, ", "))
	}
	if vuln.Recommendation != "" {
		_, _ = good.Fprintf(w, "Recommendation: %s\n", vuln.Recommendation)
	}
}

// SecureFix prints a generated fix
func SecureFix(w io.Writer, v workflow.SecureFixView) {
	if !v.Ready() {
		NotAvailable(w, "Secure fix for "+v.VulnID, v.Err, v.Actions)
		return
	}
	heading(w, "Secure fix "+v.VulnID)
	if v.Vulnerability != nil {
		_, _ = SeverityColor(v.Vulnerability.Severity).Fprintf(w, "[%s]", v.Vulnerability.Severity)
		fmt.Fprintf(w, " %s\n", v.Vulnerability.Title)
	}
	if v.Value.OriginalCode != "" {
		_, _ = danger.Fprintln(w, "- Vulnerable")
		fmt.Fprintln(w, indent(v.Value.OriginalCode))
	}
	_, _ = good.Fprintln(w, "+ Secure")
	fmt.Fprintln(w, indent(v.Value.FixedCode))
	if v.Value.Explanation != "" {
		fmt.Fprintf(w, "\n%s\n", v.Value.Explanation)
	}
	if len(v.Value.PreventsAttacks) > 0 {
		fmt.Fprintf(w, "Prevents: %s\n", strings.Join(v.Value.PreventsAttacks, ", "))
	}
}

// Stage prints one kill-chain stage. Revealed stages carry a breach badge
// when their status is danger.
func Stage(w io.Writer, s models.Stage, revealed bool) {
	if !revealed {
		_, _ = muted.Fprintf(w, "  %d. ...\n", s.Index)
		return
	}
	status := s.EffectiveStatus()
	_, _ = StageColor(status).Fprintf(w, "  %d. %s", s.Index, s.Name)
	if status == models.StageDanger {
		_, _ = danger.Fprint(w, "  BREACHED")
	}
	fmt.Fprintln(w)
	if s.Description != "" {
		_, _ = muted.Fprintf(w, "     %s\n", s.Description)
	}
}

// Simulation prints the attack simulation with the stages revealed so far
func Simulation(w io.Writer, v *workflow.SimulationView) {
	if !v.Ready() {
		NotAvailable(w, "Attack simulation for "+v.ScanID, v.Err, v.Actions)
		return
	}
	sim := v.Value
	heading(w, "Attack simulation "+v.ScanID)
	fmt.Fprintf(w, "Feasibility: %.1f/10  Time to exploit: %s  Skill: %s\n",
		sim.FeasibilityScore, sim.EstimatedTimeToExploit, sim.SkillLevelRequired)
	visible := len(v.RevealedStages())
	for i, s := range sim.Stages {
		Stage(w, s, i < visible)
	}
	if visible == len(sim.Stages) {
		if sim.ImpactSummary != "" {
			_, _ = danger.Fprintf(w, "Impact: %s\n", sim.ImpactSummary)
		}
		if sim.CitizenImpact != "" {
			fmt.Fprintf(w, "Citizen impact: %s\n", sim.CitizenImpact)
		}
	}
}

// Compliance prints the compliance mapping of a scan
func Compliance(w io.Writer, v workflow.ComplianceView) {
	if !v.Ready() {
		NotAvailable(w, "Compliance report for "+v.ScanID, v.Err, v.Actions)
		return
	}
	r := v.Value
	heading(w, "Compliance "+v.ScanID)
	fmt.Fprintf(w, "OWASP Top 10: %d/%d categories passed (score %d)\n",
		r.OWASP.Passed, r.OWASP.TotalCategories, r.OWASP.ComplianceScore)
	for _, row := range v.Rows {
		c := muted
		switch row.Status {
		case models.CompliancePass:
			c = good
		case models.ComplianceWarn:
			c = warn
		case models.ComplianceFail:
			c = danger
		}
		_, _ = c.Fprintf(w, "  %-4s", strings.ToUpper(string(row.Status)))
		fmt.Fprintf(w, " %s (%d issues)\n", row.Category, row.Issues)
	}
	fmt.Fprintf(w, "ISO 27001: %.0f%% %s (%d/%d controls)\n",
		r.ISO27001.Score, r.ISO27001.Status, r.ISO27001.ControlsPassed, r.ISO27001.ControlsTotal)
	fmt.Fprintf(w, "%s: %.0f%% %s (%d categories met)\n",
		r.NIST.Framework, r.NIST.Score, r.NIST.Status, r.NIST.CategoriesMet)
	fmt.Fprintf(w, "GDPR: compliant %s, risk %s, breach notification %s\n",
		yesNo(r.GDPR.Compliant), r.GDPR.RiskLevel, yesNo(r.GDPR.BreachNotificationRequired))
}

// Education prints the lesson catalog and the learner's progress
func Education(w io.Writer, v workflow.EducationView) {
	heading(w, "Security education")
	p := v.Progress
	fmt.Fprintf(w, "Progress: %d/%d lessons (%d%%)  Score: %d  Rank: %s\n",
		p.LessonsCompleted, p.TotalLessons, v.CompletionPercent, p.SecurityScore, p.Rank)
	if len(p.Achievements) > 0 {
		_, _ = muted.Fprintf(w, "Achievements: %s\n", strings.Join(p.Achievements, ", "))
	}
	if !v.Ready() {
		NotAvailable(w, "Lessons", v.Err, v.Actions)
		return
	}
	for _, l := range v.Value {
		mark := " "
		if l.Completed {
			mark = "✓"
		}
		fmt.Fprintf(w, "  [%s] %s", mark, l.Title)
		_, _ = muted.Fprintf(w, "  %s", l.Difficulty)
		if l.Duration != "" {
			_, _ = muted.Fprintf(w, ", %s", l.Duration)
		}
		fmt.Fprintln(w)
	}
}

func indent(code string) string {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
